package systems

import "gonum.org/v1/gonum/spatial/r2"

// Pointer is the last-writer-wins pointer snapshot. It is written by input
// handling and read by the physics step on the same goroutine.
type Pointer struct {
	Position   r2.Vec  // world units on the ring plane
	Active     bool    // false once the pointer leaves the view
	LastUpdate float64 // simulation seconds of the last move
}

// Move records a pointer position at simulation time now.
func (p *Pointer) Move(pos r2.Vec, now float64) {
	p.Position = pos
	p.Active = true
	p.LastUpdate = now
}

// Leave marks the pointer inactive.
func (p *Pointer) Leave() {
	p.Active = false
}

// Live reports whether the pointer should affect particles at time now.
func (p Pointer) Live(now, timeout float64) bool {
	return p.Active && now-p.LastUpdate < timeout
}
