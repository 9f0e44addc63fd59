package anchaio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchaio/ancha/ancha"
)

func TestBuildAndRootVector(t *testing.T) {
	strategy := ancha.NewVector[uint64, uint64, struct{}](ancha.NewDirectCopy[uint64, struct{}]())
	origin := []uint64{1, 2, 3}

	doc, err := Build[[]uint64, struct{}](strategy, &origin, struct{}{})
	require.NoError(t, err)
	require.True(t, doc.Deanchized())

	view := ancha.ViewVector[uint64](doc.Bytes(), 0)
	require.Equal(t, []uint64{1, 2, 3}, view.AsSlice())
}

func TestRootRequiresDeanchizedDocument(t *testing.T) {
	doc := &Document{buf: make([]byte, 16)}
	_, err := Root[uint64](doc)
	require.Error(t, err)
}
