package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/phasekit/internal/dynamo"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the angular frequency (rad per unit time) of
// the strongest non-DC component of a series sampled every dt. The series
// is mean-centred and zero-padded to a power of two; the peak is refined
// by parabolic interpolation over its neighbours.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	if len(series) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples", dynamo.ErrDegenerate)
	}
	if dt <= 0 {
		return 0, &dynamo.ParameterError{Name: "dt", Value: dt, Reason: "must be positive"}
	}

	n := 1
	for n < len(series) {
		n <<= 1
	}
	padded := make([]float64, n)
	copy(padded, series)
	floats.AddConst(-stat.Mean(series, nil), padded[:len(series)])

	ps := PowerSpectrum(padded)
	peak := 1 + floats.MaxIdx(ps[1:])
	if ps[peak] == 0 {
		return 0, fmt.Errorf("%w: flat spectrum", dynamo.ErrDegenerate)
	}

	bin := float64(peak)
	if peak > 0 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}

	return 2 * math.Pi * bin / (float64(n) * dt), nil
}
