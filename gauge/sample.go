package gauge

import "time"

// Parameter names one of the five published measurement parameters.
type Parameter string

// The closed parameter set. No dynamic parameters exist.
const (
	P1  Parameter = "P1"
	P5U Parameter = "P5U"
	P5L Parameter = "P5L"
	P3  Parameter = "P3"
	P4  Parameter = "P4"
)

// Parameters returns the closed parameter set in publication order.
func Parameters() []Parameter {
	return []Parameter{P1, P5U, P5L, P3, P4}
}

// Reading is the measured value pair of one parameter: the averaged
// dimension and its range (within-sample dispersion).
type Reading struct {
	Average float64
	Range   float64
}

// Sample is one full measurement of all five parameters taken in a single
// poll cycle. Samples are immutable value types: they are passed and stored
// by value and never mutated after construction.
type Sample struct {
	P1  Reading
	P5U Reading
	P5L Reading
	P3  Reading
	P4  Reading

	// Timestamp is the acquisition time of the sample.
	Timestamp time.Time
}

// Reading returns the reading for the given parameter. An unknown
// parameter yields a zero Reading.
func (s Sample) Reading(p Parameter) Reading {
	switch p {
	case P1:
		return s.P1
	case P5U:
		return s.P5U
	case P5L:
		return s.P5L
	case P3:
		return s.P3
	case P4:
		return s.P4
	default:
		return Reading{}
	}
}

// Average returns the averaged value of the given parameter.
func (s Sample) Average(p Parameter) float64 {
	return s.Reading(p).Average
}

// setReading is used during decode; Samples are never mutated once published.
func (s *Sample) setReading(p Parameter, r Reading) {
	switch p {
	case P1:
		s.P1 = r
	case P5U:
		s.P5U = r
	case P5L:
		s.P5L = r
	case P3:
		s.P3 = r
	case P4:
		s.P4 = r
	}
}
