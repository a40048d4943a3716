package problem_test

import (
	"sync"
	"testing"

	"github.com/jspahr/cgmark/internal/comm"
	"github.com/jspahr/cgmark/internal/problem"
)

func TestHaloExchangeFillsNeighborPlanes(t *testing.T) {
	const size = 3
	net, err := comm.NewNetwork(size)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]string, size)
	for rank := 0; rank < size; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := net.Comm(rank)
			g, err := problem.NewGeometry(2, 2, 2, rank, size)
			if err != nil {
				errs[rank] = err.Error()
				return
			}
			sys := problem.Generate(g)
			halo := problem.SetupHalo(sys.Op)

			v := make([]float64, g.Columns())
			for i := 0; i < g.LocalRows(); i++ {
				v[i] = float64(rank + 1)
			}
			halo.Exchange(c, v)

			plane := g.PlaneSize()
			if g.HasBelow() {
				off := g.Index(0, 0, -1)
				for i := 0; i < plane; i++ {
					if v[off+i] != float64(rank) {
						errs[rank] = "below halo not filled with lower neighbor's plane"
						return
					}
				}
			}
			if g.HasAbove() {
				off := g.Index(0, 0, g.NZ)
				for i := 0; i < plane; i++ {
					if v[off+i] != float64(rank+2) {
						errs[rank] = "above halo not filled with upper neighbor's plane"
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	for rank, msg := range errs {
		if msg != "" {
			t.Errorf("rank %d: %s", rank, msg)
		}
	}
}

func TestHaloSingleRankIsNoOp(t *testing.T) {
	net, _ := comm.NewNetwork(1)
	g, _ := problem.NewGeometry(2, 2, 2, 0, 1)
	sys := problem.Generate(g)
	halo := problem.SetupHalo(sys.Op)

	v := make([]float64, g.Columns())
	for i := range v {
		v[i] = 7
	}
	halo.Exchange(net.Comm(0), v) // must not block or touch anything
	for i, x := range v {
		if x != 7 {
			t.Fatalf("v[%d] changed to %g", i, x)
		}
	}
}
