package problem

import "github.com/jspahr/cgmark/internal/comm"

// Halo holds the communication metadata prepared by SetupHalo: which
// neighbor planes this rank exchanges and where they land in a
// halo-carrying vector.
type Halo struct {
	geom     *Geometry
	plane    int
	below    bool
	above    bool
	belowOff int
	aboveOff int
}

// SetupHalo derives the exchange plan from the operator's geometry.
// Collective: every rank must set up before the first Exchange.
func SetupHalo(op *Operator) *Halo {
	g := op.Geom
	h := &Halo{
		geom:  g,
		plane: g.PlaneSize(),
		below: g.HasBelow(),
		above: g.HasAbove(),
	}
	h.belowOff = g.LocalRows()
	h.aboveOff = g.LocalRows()
	if h.below {
		h.aboveOff += h.plane
	}
	return h
}

// Exchange sends this rank's boundary planes to its neighbors and fills the
// halo region of v with the planes received from them. v must have length
// Geometry.Columns(). Collective: both neighbors must call Exchange in the
// same phase or the group stalls.
func (h *Halo) Exchange(c *comm.Comm, v []float64) {
	g := h.geom
	// Sends first; the per-pair links buffer one message, so neighbor pairs
	// cannot deadlock.
	if h.below {
		c.Send(g.Rank-1, v[:h.plane])
	}
	if h.above {
		top := g.Index(0, 0, g.NZ-1)
		c.Send(g.Rank+1, v[top:top+h.plane])
	}
	if h.below {
		copy(v[h.belowOff:h.belowOff+h.plane], c.Recv(g.Rank-1))
	}
	if h.above {
		copy(v[h.aboveOff:h.aboveOff+h.plane], c.Recv(g.Rank+1))
	}
}
