// Package pool holds the sticks of the current round.
package pool

import "github.com/verte-zerg/incense/internal/model"

// Pool owns the active sticks. It is not safe for concurrent use.
type Pool struct {
	sticks []model.Stick
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Build replaces the pool contents. IDs follow input order.
func (p *Pool) Build(angles []float64, positions []model.Vec2) {
	n := len(angles)
	if len(positions) < n {
		n = len(positions)
	}
	p.sticks = make([]model.Stick, n)
	for i := 0; i < n; i++ {
		p.sticks[i] = model.Stick{ID: i, Angle: angles[i], Position: positions[i]}
	}
}

// Resolve consumes the stick with id. Unknown ids report found=false and
// consumed ones report alreadyConsumed=true; neither mutates the pool.
func (p *Pool) Resolve(id int) (angle float64, found, alreadyConsumed bool) {
	if id < 0 || id >= len(p.sticks) {
		return 0, false, false
	}
	s := &p.sticks[id]
	if s.Consumed {
		return s.Angle, true, true
	}
	s.Consumed = true
	return s.Angle, true, false
}

// Clear empties the pool.
func (p *Pool) Clear() {
	p.sticks = nil
}

// Len returns the number of sticks, consumed or not.
func (p *Pool) Len() int {
	return len(p.sticks)
}

// Remaining counts unconsumed sticks.
func (p *Pool) Remaining() int {
	n := 0
	for _, s := range p.sticks {
		if !s.Consumed {
			n++
		}
	}
	return n
}

// RemainingMatching counts unconsumed sticks whose angle equals angle.
func (p *Pool) RemainingMatching(angle float64) int {
	n := 0
	for _, s := range p.sticks {
		if !s.Consumed && s.Angle == angle {
			n++
		}
	}
	return n
}

// Stick returns a copy of the stick with id.
func (p *Pool) Stick(id int) (model.Stick, bool) {
	if id < 0 || id >= len(p.sticks) {
		return model.Stick{}, false
	}
	return p.sticks[id], true
}

// Sticks returns a copy of all sticks.
func (p *Pool) Sticks() []model.Stick {
	out := make([]model.Stick, len(p.sticks))
	copy(out, p.sticks)
	return out
}
