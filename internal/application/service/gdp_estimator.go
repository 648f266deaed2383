package service

import "math/rand/v2"

// Bounds of the scaling factor applied to population
const (
	MinGDPFactor = 1000.0
	MaxGDPFactor = 2000.0
)

// RandomSource yields floats uniformly distributed in [0, 1)
type RandomSource interface {
	Float64() float64
}

// globalRandom uses the goroutine-safe math/rand/v2 top-level generator
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// GDPEstimator derives an economic output figure from population and exchange rate.
//
// Every call re-samples the scaling factor, so repeated estimates for the same
// inputs differ. Tests either inject a fixed RandomSource or assert on the
// range [population*MinGDPFactor/rate, population*MaxGDPFactor/rate].
type GDPEstimator struct {
	random RandomSource
}

// NewGDPEstimator creates an estimator. A nil source uses the process-wide generator.
func NewGDPEstimator(random RandomSource) *GDPEstimator {
	if random == nil {
		random = globalRandom{}
	}
	return &GDPEstimator{random: random}
}

// Estimate returns population * factor / rate with factor drawn from
// [MinGDPFactor, MaxGDPFactor). It returns nil when the rate is absent or not positive.
func (e *GDPEstimator) Estimate(population int64, exchangeRate *float64) *float64 {
	if exchangeRate == nil || *exchangeRate <= 0 {
		return nil
	}

	factor := MinGDPFactor + e.random.Float64()*(MaxGDPFactor-MinGDPFactor)
	gdp := float64(population) * factor / *exchangeRate
	return &gdp
}
