package gauge

import (
	"math"
	"math/rand"
	"time"
)

// nominal holds the simulated process center and spread of one parameter.
type nominal struct {
	center float64
	sigma  float64
}

// simNominals are the bench-mode process distributions. The range value is
// drawn zero-centered with 30% of the average's spread.
var simNominals = map[Parameter]nominal{
	P1:  {center: 220.0, sigma: 0.3},
	P5U: {center: 425.0, sigma: 0.5},
	P5L: {center: 425.0, sigma: 0.5},
	P3:  {center: 645.0, sigma: 0.8},
	P4:  {center: 1.0, sigma: 0.1},
}

const simRangeSpread = 0.3

// simulatedSample synthesizes a full Sample with independent normal draws
// around each parameter's nominal center, used when the transport is
// disconnected or a bus read produced no data.
func simulatedSample(ts time.Time) Sample {
	var sample Sample

	for param, n := range simNominals {
		sample.setReading(param, Reading{
			Average: n.center + rand.NormFloat64()*n.sigma,
			Range:   math.Abs(rand.NormFloat64() * n.sigma * simRangeSpread),
		})
	}

	sample.Timestamp = ts

	return sample
}
