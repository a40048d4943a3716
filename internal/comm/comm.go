// Package comm implements explicit message passing for a fixed-size group of
// cooperating workers, one goroutine per rank. The interface follows the usual
// rank/size/send/recv shape of distributed-memory codes; collectives are built
// on point-to-point messages so no worker state is shared by reference.
package comm

import "fmt"

// Network connects a fixed group of workers. Construct once, then hand each
// worker goroutine its Comm endpoint. The group size never changes during a
// run.
type Network struct {
	size  int
	links [][]chan []float64 // links[from][to], one in-flight message per pair
}

func NewNetwork(size int) (*Network, error) {
	if size < 1 {
		return nil, fmt.Errorf("network size must be at least 1, got %d", size)
	}
	links := make([][]chan []float64, size)
	for from := range links {
		links[from] = make([]chan []float64, size)
		for to := range links[from] {
			links[from][to] = make(chan []float64, 1)
		}
	}
	return &Network{size: size, links: links}, nil
}

func (n *Network) Size() int { return n.size }

// Comm returns the endpoint for the given rank.
func (n *Network) Comm(rank int) *Comm {
	if rank < 0 || rank >= n.size {
		panic(fmt.Sprintf("comm: rank %d out of range [0,%d)", rank, n.size))
	}
	return &Comm{rank: rank, net: n}
}

// Comm is one worker's endpoint into the group. All collective methods must be
// called by every rank with identical control flow or the group deadlocks.
type Comm struct {
	rank int
	net  *Network
}

func (c *Comm) Rank() int { return c.rank }
func (c *Comm) Size() int { return c.net.size }

// Send delivers a copy of buf to the destination rank. Blocks only if a
// previous message to the same destination has not been received yet.
func (c *Comm) Send(to int, buf []float64) {
	cp := make([]float64, len(buf))
	copy(cp, buf)
	c.net.links[c.rank][to] <- cp
}

// Recv blocks until a message from the given rank arrives.
func (c *Comm) Recv(from int) []float64 {
	return <-c.net.links[from][c.rank]
}

// AllreduceSum returns the sum of v across all ranks. Partial values are
// reduced on rank 0 in rank order so every rank sees the bit-identical result.
func (c *Comm) AllreduceSum(v float64) float64 {
	return c.allreduce(v, func(acc, x float64) float64 { return acc + x })
}

// AllreduceMax returns the maximum of v across all ranks.
func (c *Comm) AllreduceMax(v float64) float64 {
	return c.allreduce(v, func(acc, x float64) float64 {
		if x > acc {
			return x
		}
		return acc
	})
}

// AllreduceMaxInt is AllreduceMax for integer counters.
func (c *Comm) AllreduceMaxInt(v int) int {
	return int(c.AllreduceMax(float64(v)))
}

// AllreduceSumInt is AllreduceSum for integer counters.
func (c *Comm) AllreduceSumInt(v int) int {
	return int(c.AllreduceSum(float64(v)))
}

// Barrier blocks until every rank has entered it.
func (c *Comm) Barrier() {
	c.AllreduceSum(0)
}

func (c *Comm) allreduce(v float64, combine func(acc, x float64) float64) float64 {
	if c.net.size == 1 {
		return v
	}
	if c.rank != 0 {
		c.Send(0, []float64{v})
		return c.Recv(0)[0]
	}
	acc := v
	for from := 1; from < c.net.size; from++ {
		acc = combine(acc, c.Recv(from)[0])
	}
	for to := 1; to < c.net.size; to++ {
		c.Send(to, []float64{acc})
	}
	return acc
}
