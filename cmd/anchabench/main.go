// Command anchabench round-trips a small fixture value through the
// ancha engine and reports size/alignment/evaluation results. It is
// diagnostic tooling layered on top of the engine, not part of its
// contract: nothing here is required to use ancha as a library.
package main

import (
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/anchaio/ancha/ancha"
	"github.com/anchaio/ancha/pkg/compactwire"
)

var (
	outPath     = flag.String("out", "snapshot.bin", "path to write the framed snapshot")
	enablePprof = flag.Bool("pprof", false, "serve net/http/pprof on localhost:6060")
	memProfile  = flag.String("memprofile", "", "write a heap profile to this path after the run")
	verbose     = flag.Bool("v", false, "use a development (human-readable) logger instead of production JSON")
	varHigh     = flag.Bool("x", true, "value of the formula's first variable for evaluation")
	varLow      = flag.Bool("y", false, "value of the formula's second variable for evaluation")
)

func newLogger() *zap.Logger {
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}

// formulaNode is the CLI fixture's BDD origin: a tiny shared boolean
// formula with one node (d) reachable from two parents, the same
// shape exercised by ancha/bdd_test.go.
type formulaNode struct {
	leaf     bool
	leafVal  uint64
	variable uint32
	low      *formulaNode
	high     *formulaNode
}

func (n *formulaNode) IsLeaf() bool                          { return n.leaf }
func (n *formulaNode) Leaf() uint64                          { return n.leafVal }
func (n *formulaNode) Var() uint32                           { return n.variable }
func (n *formulaNode) Low() ancha.BddOrigin[uint32, uint64]  { return n.low }
func (n *formulaNode) High() ancha.BddOrigin[uint32, uint64] { return n.high }

func buildFormula() (root ancha.BddOrigin[uint32, uint64]) {
	leafF := &formulaNode{leaf: true, leafVal: 0}
	leafT := &formulaNode{leaf: true, leafVal: 1}
	shared := &formulaNode{variable: 2, low: leafF, high: leafT}
	c := &formulaNode{variable: 1, low: leafF, high: shared}
	b := &formulaNode{variable: 1, low: shared, high: leafT}
	r := &formulaNode{variable: 0, low: c, high: b}
	return r
}

func bddStrategy() ancha.BddAncha[uint32, uint32, uint64, struct{}] {
	return ancha.NewBdd[uint32, uint32, uint64, struct{}](
		ancha.NewDirectCopy[uint32, struct{}](),
		ancha.NewStaticAsDyn[uint64, uint64, struct{}](ancha.NewDirectCopy[uint64, struct{}]()),
	)
}

func main() {
	flag.Parse()
	log := newLogger()
	defer log.Sync()

	if *enablePprof {
		go func() {
			log.Info("serving pprof", zap.String("addr", "localhost:6060"))
			log.Error("pprof server exited", zap.Error(http.ListenAndServe("localhost:6060", nil)))
		}()
	}

	strategy := bddStrategy()
	origin := buildFormula()

	var r ancha.Reserve
	if err := strategy.Reserve(&origin, struct{}{}, &r); err != nil {
		log.Fatal("reserve failed", zap.Error(err))
	}
	log.Info("reserve pass complete", zap.Int("size", r.Size), zap.Int("max_align", r.MaxAlign))

	buf := ancha.AlignedBuffer(r.Size, r.MaxAlign)
	end, err := strategy.Anchize(&origin, struct{}{}, ancha.Cursor{Buf: buf, Off: 0})
	if err != nil {
		log.Fatal("anchize failed", zap.Error(err))
	}
	if end.Offset() != r.Size {
		log.Fatal("anchize wrote an unexpected number of bytes",
			zap.Int("wrote", end.Offset()), zap.Int("reserved", r.Size))
	}
	log.Info("anchize pass complete", zap.Int("bytes_written", end.Offset()))

	if err := writeSnapshot(*outPath, buf, log); err != nil {
		log.Fatal("writing snapshot failed", zap.Error(err))
	}

	result, err := replaySnapshot(*outPath, log)
	if err != nil {
		log.Fatal("replaying snapshot failed", zap.Error(err))
	}
	fmt.Printf("evaluation result: %d\n", result)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal("creating memprofile file failed", zap.Error(err))
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("writing heap profile failed", zap.Error(err))
		}
		log.Info("wrote heap profile", zap.String("path", *memProfile))
	}
}

// writeSnapshot frames buf (still in offset form, pre-deanchize) as a
// DataFrame preceded by a HandshakeFrame announcing the engine
// version and codec in use, then writes both to path.
func writeSnapshot(path string, buf []byte, log *zap.Logger) error {
	handshakeBytes := compactwire.HandshakeFrame{
		VersionMask: 1,
		AlgCodes:    []byte{0}, // 0 = no per-element compression for this fixture
	}.Encode()

	dataBytes := compactwire.DataFrame{Payload: buf}.Encode()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(handshakeBytes); err != nil {
		return err
	}
	if _, err := out.Write(dataBytes); err != nil {
		return err
	}
	log.Info("wrote framed snapshot",
		zap.String("path", path),
		zap.Int("handshake_bytes", len(handshakeBytes)),
		zap.Int("data_bytes", len(dataBytes)))
	return nil
}

// replaySnapshot reads path back, verifies the data frame's CRC32,
// deanchizes the payload in place, and evaluates the formula under
// the CLI's -x/-y flags. It intentionally re-parses the handshake
// frame even though this CLI does not yet branch on AlgCodes, so the
// frame's presence is exercised end to end the way a future transport
// consumer would.
func replaySnapshot(path string, log *zap.Logger) (uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	parsedHandshake, handshakeLen, err := compactwire.DecodeHandshake(raw)
	if err != nil {
		return 0, fmt.Errorf("decode handshake: %w", err)
	}
	log.Info("replayed handshake", zap.Uint32("version_mask", parsedHandshake.VersionMask))

	df, _, err := compactwire.DecodeData(raw[handshakeLen:])
	if err != nil {
		return 0, fmt.Errorf("decode data frame: %w", err)
	}
	payload := df.Payload

	strategy := bddStrategy()
	if _, err := strategy.Deanchize(ancha.Cursor{Buf: payload, Off: 0}); err != nil {
		return 0, fmt.Errorf("deanchize: %w", err)
	}

	view := ancha.ViewBdd[uint32](payload, 0)
	leafOff := ancha.Evaluate[uint32](view, func(v *uint32) bool {
		switch *v {
		case 0:
			return *varHigh
		case 1:
			return *varLow
		}
		return false
	})
	return *ancha.Slot[uint64](ancha.Cursor{Buf: payload, Off: leafOff}), nil
}
