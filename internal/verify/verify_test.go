package verify_test

import (
	"sync"
	"testing"

	"github.com/jspahr/cgmark/internal/comm"
	"github.com/jspahr/cgmark/internal/problem"
	"github.com/jspahr/cgmark/internal/verify"
)

func runGate(t *testing.T, size, nx, ny, nz int) []verify.Tally {
	t.Helper()
	net, err := comm.NewNetwork(size)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	tallies := make([]verify.Tally, size)
	var wg sync.WaitGroup
	for rank := 0; rank < size; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := problem.NewGeometry(nx, ny, nz, rank, size)
			if err != nil {
				t.Errorf("NewGeometry: %v", err)
				return
			}
			sys := problem.Generate(g)
			halo := problem.SetupHalo(sys.Op)
			tallies[rank] = verify.Run(net.Comm(rank), sys, halo)
		}()
	}
	wg.Wait()
	return tallies
}

func TestGatePassesSingleRank(t *testing.T) {
	tallies := runGate(t, 1, 4, 4, 4)
	if tallies[0].Failed != 0 || tallies[0].Passed != 3 {
		t.Errorf("tally = %+v, want 3 passed, 0 failed", tallies[0])
	}
}

func TestGatePassesAcrossRanks(t *testing.T) {
	tallies := runGate(t, 2, 4, 4, 2)
	for rank, tally := range tallies {
		if tally.Failed != 0 || tally.Passed != 3 {
			t.Errorf("rank %d: tally = %+v, want 3 passed, 0 failed", rank, tally)
		}
	}
}
