package stats

import "math"

// SufficientStats holds the sufficient statistics of one stream: the running
// mean, the sum of squared deviations from it (M2), and the sample size.
// Variance and everything downstream are derived from these three numbers;
// the raw observations are never retained.
type SufficientStats struct {
	mean  float64
	m2    float64
	count uint64
}

func NewSufficientStats() *SufficientStats {
	return &SufficientStats{
		mean:  0,
		m2:    0,
		count: 0,
	}
}

// Restore rebuilds an accumulator from previously exported statistics,
// e.g. a persisted snapshot.
func Restore(mean, sumSqDev float64, count uint64) *SufficientStats {
	return &SufficientStats{
		mean:  mean,
		m2:    sumSqDev,
		count: count,
	}
}

// FromBatch builds an accumulator from an initial batch.
func FromBatch(batch []float64) (*SufficientStats, error) {
	mean, m2, err := batchMoments(batch)
	if err != nil {
		return nil, err
	}
	return &SufficientStats{
		mean:  mean,
		m2:    m2,
		count: uint64(len(batch)),
	}, nil
}

// batchMoments computes a batch's own mean and sum of squared deviations
// with a two-pass sweep. Fails with ErrInvalidInput on an empty batch or a
// non-finite value, before the caller has mutated anything.
func batchMoments(batch []float64) (mean float64, m2 float64, err error) {
	if len(batch) == 0 {
		return 0, 0, ErrInvalidInput
	}
	sum := 0.0
	for _, x := range batch {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, 0, ErrInvalidInput
		}
		sum += x
	}
	mean = sum / float64(len(batch))
	for _, x := range batch {
		d := x - mean
		m2 += d * d
	}
	return mean, m2, nil
}

// Update folds one further batch into the accumulator in place. The batch's
// own moments are computed directly, then combined with the current state;
// observations already folded in are not revisited.
func (s *SufficientStats) Update(batch []float64) error {
	mean, m2, err := batchMoments(batch)
	if err != nil {
		return err
	}
	s.merge(mean, m2, uint64(len(batch)))
	return nil
}

// Merge combines another accumulator's statistics into this one. Merging is
// commutative and associative in the batches, up to floating-point rounding.
func (s *SufficientStats) Merge(other *SufficientStats) error {
	if other == nil || other.count == 0 {
		return ErrInvalidInput
	}
	s.merge(other.mean, other.m2, other.count)
	return nil
}

func (s *SufficientStats) merge(mean, m2 float64, count uint64) {
	if s.count == 0 {
		s.mean = mean
		s.m2 = m2
		s.count = count
		return
	}
	nA := float64(s.count)
	nB := float64(count)
	nAB := nA + nB

	// Delta form of the size-weighted mean; algebraically equal to the
	// weighted average but avoids cancellation when the means are close.
	delta := mean - s.mean
	s.mean += delta * (nB / nAB)

	// Chan et al. (1983): the cross term is delta^2 * nA*nB/nAB, not
	// delta^2 * nAB (a transcription error in Chou 2021).
	s.m2 += m2 + delta*delta*(nA*nB/nAB)
	s.count += count
}

// Observe folds a single observation using Welford's step. Equivalent to
// Update with a one-element batch; the value must be finite.
func (s *SufficientStats) Observe(value float64) {
	s.count++
	delta := value - s.mean
	s.mean += delta / float64(s.count)
	delta2 := value - s.mean
	s.m2 += delta * delta2
}

func (s *SufficientStats) Mean() float64 {
	return s.mean
}

// SumSquaredDev returns M2 clamped at zero; rounding can push the raw sum
// slightly negative near zero.
func (s *SufficientStats) SumSquaredDev() float64 {
	if s.m2 < 0 {
		return 0
	}
	return s.m2
}

func (s *SufficientStats) Count() uint64 {
	return s.count
}

// Variance returns the Bessel-corrected sample variance, M2 / (n-1).
func (s *SufficientStats) Variance() (float64, error) {
	if s.count < 2 {
		return 0, ErrInsufficientData
	}
	return s.SumSquaredDev() / float64(s.count-1), nil
}

// PopulationVariance divides by n instead of n-1.
func (s *SufficientStats) PopulationVariance() (float64, error) {
	if s.count < 2 {
		return 0, ErrInsufficientData
	}
	return s.SumSquaredDev() / float64(s.count), nil
}

func (s *SufficientStats) StdDev() (float64, error) {
	variance, err := s.Variance()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(variance), nil
}

// Summary is the read-only view consumed by presentation collaborators.
// Its four fields are the complete, stable export schema.
type Summary struct {
	Mean       float64
	Variance   float64
	SumSqDev   float64
	SampleSize uint64
}

// Summary exports the current statistics. Variance is 0 by convention when
// fewer than two observations have been folded in.
func (s *SufficientStats) Summary() Summary {
	variance, err := s.Variance()
	if err != nil {
		variance = 0
	}
	return Summary{
		Mean:       s.mean,
		Variance:   variance,
		SumSqDev:   s.SumSquaredDev(),
		SampleSize: s.count,
	}
}
