package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult holds a two-sample test outcome: the t statistic, the
// two-tailed p-value, and the Welch–Satterthwaite degrees of freedom.
type TTestResult struct {
	Statistic float64
	PValue    float64
	DF        float64
}

// TTest runs Welch's two-sample t-test on two independently maintained
// accumulators, using only their sufficient statistics. Within
// floating-point tolerance the result matches running the same test on the
// full concatenated samples. Fails with ErrInsufficientData unless both
// sides have at least two observations.
func TTest(a, b *SufficientStats) (*TTestResult, error) {
	varA, err := a.Variance()
	if err != nil {
		return nil, err
	}
	varB, err := b.Variance()
	if err != nil {
		return nil, err
	}

	vnA := varA / float64(a.count)
	vnB := varB / float64(b.count)
	se := math.Sqrt(vnA + vnB)
	statistic := (a.mean - b.mean) / se

	df := (vnA + vnB) * (vnA + vnB) /
		(vnA*vnA/float64(a.count-1) + vnB*vnB/float64(b.count-1))

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue := 2 * tDist.CDF(-math.Abs(statistic))

	return &TTestResult{
		Statistic: statistic,
		PValue:    pValue,
		DF:        df,
	}, nil
}
