package domain

import (
	"math"
	"strconv"
)

// Threshold is a recommended session timeout in minutes. The zero value is
// InsufficientData.
type Threshold struct {
	minutes float64
	ok      bool
}

// InsufficientData means the samples cannot support a recommendation.
var InsufficientData = Threshold{}

func (t Threshold) Minutes() (float64, bool) { return t.minutes, t.ok }

func (t Threshold) Sufficient() bool { return t.ok }

func (t Threshold) String() string {
	if !t.ok {
		return "insufficient data"
	}
	return strconv.FormatFloat(t.minutes, 'f', -1, 64)
}

// Density bins values into one-minute bins with edges 0, 1, ..., maxMinutes,
// the last bin closed on the right. Values outside [0, maxMinutes] are not
// counted. Heights are normalized so that their sum times the bin width is 1;
// with nothing in range every height is zero.
func Density(values []float64, maxMinutes int) []float64 {
	if maxMinutes < 1 {
		return nil
	}
	counts := make([]float64, maxMinutes)
	inRange := 0
	for _, v := range values {
		if math.IsNaN(v) || v < 0 || v > float64(maxMinutes) {
			continue
		}
		bin := int(math.Floor(v))
		if bin == maxMinutes {
			bin--
		}
		counts[bin]++
		inRange++
	}
	if inRange == 0 {
		return counts
	}
	for i := range counts {
		counts[i] /= float64(inRange)
	}
	return counts
}

// Recommend finds the pause length at which continuing and really pausing are
// equally likely. Per bin where both densities are non-zero it takes
// p_continue - p_real, fits it against ln(bin position) by least squares and
// returns the zero crossing exp(-b/a) rounded to two decimals.
func Recommend(s Samples, maxMinutes int) Threshold {
	if maxMinutes < 1 {
		return InsufficientData
	}
	realDensity := Density(s.RealPause, maxMinutes)
	contDensity := Density(s.Continuation, maxMinutes)

	var xs, ys []float64
	for i := range realDensity {
		if realDensity[i] == 0 || contDensity[i] == 0 {
			continue
		}
		sum := realDensity[i] + contDensity[i]
		pContinue := contDensity[i] / sum
		pReal := realDensity[i] / sum
		xs = append(xs, math.Log(float64(i+1)))
		ys = append(ys, pContinue-pReal)
	}
	if len(xs) < 2 {
		return InsufficientData
	}
	a, b, ok := fitLine(xs, ys)
	if !ok || a == 0 {
		return InsufficientData
	}
	v := math.Exp(-b / a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InsufficientData
	}
	return Threshold{minutes: math.Round(v*100) / 100, ok: true}
}

// fitLine is an ordinary least-squares fit y = a*x + b.
func fitLine(xs, ys []float64) (a, b float64, ok bool) {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 || math.IsNaN(den) {
		return 0, 0, false
	}
	a = (n*sxy - sx*sy) / den
	b = (sy - a*sx) / n
	return a, b, true
}
