package idpool

// Pool leases small dense non-negative integer identifiers. Freed ids are
// reused before the id space grows. A Pool is owned by the simulation
// goroutine and is not safe for concurrent use.
type Pool struct {
	next int
	free map[int]struct{}
}

func New() *Pool {
	return &Pool{
		free: map[int]struct{}{},
	}
}

// Allocate returns an unused id. Freed ids are reused smallest-first;
// otherwise the id space grows by one. Allocate never fails.
func (p *Pool) Allocate() int {
	if len(p.free) > 0 {
		id := -1
		for f := range p.free {
			if id < 0 || f < id {
				id = f
			}
		}
		delete(p.free, id)
		return id
	}

	id := p.next
	p.next++
	return id
}

// Free returns an id to the pool. Ids that were never allocated are
// ignored, and freeing an id twice is a no-op.
func (p *Pool) Free(id int) {
	if id < 0 || id >= p.next {
		return
	}
	p.free[id] = struct{}{}
}

// Leased returns the number of ids currently out on lease.
func (p *Pool) Leased() int {
	return p.next - len(p.free)
}

// Size returns how far the id space has grown.
func (p *Pool) Size() int {
	return p.next
}
