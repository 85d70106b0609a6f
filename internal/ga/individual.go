package ga

import "github.com/ridopark/jonbu-wfo/internal/paramspace"

// Individual is one member of the GA population.
type Individual struct {
	Params    paramspace.Params
	Fitness   float64
	Evaluated bool
}

// Clone deep-copies an individual (Params is a plain value type, so a
// struct copy already suffices).
func (ind Individual) Clone() Individual {
	return ind
}
