package bspcluster

import "fmt"

// Parameterizable is implemented by models whose behavior is controlled by
// a flat vector of real-valued parameters.
type Parameterizable interface {
	ParameterVector() []float64
	SetParameterVector(v []float64) error
	NumberOfParameters() int
}

var _ Parameterizable = (*Model)(nil)

// ParameterVector returns an empty vector. The model's behavior is fixed
// entirely by its tree.
func (m *Model) ParameterVector() []float64 { return []float64{} }

// SetParameterVector accepts only an empty (or nil) vector and does
// nothing. Any other vector returns ErrInvalidParameters.
func (m *Model) SetParameterVector(v []float64) error {
	if len(v) != 0 {
		return fmt.Errorf("%w: model has 0 parameters, got %d", ErrInvalidParameters, len(v))
	}
	return nil
}

// NumberOfParameters always returns 0.
func (m *Model) NumberOfParameters() int { return 0 }
