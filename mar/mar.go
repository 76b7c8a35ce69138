package mar

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hupe1980/imputego/dataset"
)

const (
	// DefaultSeed is the pseudo-random seed used when none is configured.
	DefaultSeed uint64 = 1

	// DefaultNoiseSD is the standard deviation of the gaussian noise added
	// to the determinant.
	DefaultNoiseSD = 0.5
)

// ErrInvalidProportion is returned when the missingness proportion is
// outside (0, 1).
var ErrInvalidProportion = errors.New("proportion must be in (0, 1)")

// Options configure the injector.
type Options struct {
	// Seed for the noise source. Every call builds a fresh source from it,
	// so equal inputs and seed reproduce the same holes.
	Seed uint64

	// NoiseSD is the standard deviation of the gaussian noise.
	NoiseSD float64
}

// Inject nulls a proportion of target values according to a noise-thresholded
// rule driven by the determinant: row i scores
//
//	noise[i] = determinant[i] + gaussian(0, sd)
//
// and is retained iff its score lies strictly below the empirical
// (1 - proportion) quantile of the scores. Rows at or above the cutoff have
// their target value set to NaN. Missingness therefore depends only on the
// observed determinant, never on the unobserved target itself.
//
// Returns the amputated copy of target plus the bitmap of nulled rows. The
// inputs are not modified.
func Inject(determinant, target []float64, proportion float64, optFns ...func(o *Options)) ([]float64, *roaring.Bitmap, error) {
	opts := Options{
		Seed:    DefaultSeed,
		NoiseSD: DefaultNoiseSD,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(determinant) != len(target) {
		return nil, nil, &dataset.ShapeMismatchError{Want: len(determinant), Got: len(target)}
	}

	if proportion <= 0 || proportion >= 1 {
		return nil, nil, fmt.Errorf("%w: got %v", ErrInvalidProportion, proportion)
	}

	eps := distuv.Normal{
		Mu:    0,
		Sigma: opts.NoiseSD,
		Src:   rand.NewPCG(opts.Seed, opts.Seed),
	}

	noise := make([]float64, len(determinant))
	for i, d := range determinant {
		noise[i] = d + eps.Rand()
	}

	// Retention cutoff: empirical quantile at 1-proportion, so the nulled
	// fraction converges to proportion as N grows.
	sorted := slices.Clone(noise)
	slices.Sort(sorted)
	cutoff := stat.Quantile(1-proportion, stat.LinInterp, sorted, nil)

	out := slices.Clone(target)
	nulled := roaring.New()

	for i, v := range noise {
		if v < cutoff {
			continue // retained
		}
		out[i] = math.NaN()
		nulled.Add(uint32(i))
	}

	return out, nulled, nil
}

// InjectColumns amputates every target column of a dataset using the same
// determinant, proportion and seed per column. It returns a copy of the
// dataset with the holes punched plus the mask of exactly the cells it
// nulled. The input dataset is not modified.
//
// Target columns must exist, must be distinct and must not equal the
// determinant. The determinant column must be fully observed.
func InjectColumns(ds *dataset.Dataset, determinant string, proportion float64, targets []string, optFns ...func(o *Options)) (*dataset.Dataset, *dataset.Mask, error) {
	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("mar: no target columns")
	}

	det, err := ds.Column(determinant)
	if err != nil {
		return nil, nil, err
	}

	if det.MissingCount() > 0 {
		return nil, nil, fmt.Errorf("mar: determinant column %q has %d missing values", determinant, det.MissingCount())
	}

	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if target == determinant {
			return nil, nil, fmt.Errorf("mar: target column %q equals the determinant", target)
		}
		if _, ok := seen[target]; ok {
			return nil, nil, &dataset.DuplicateColumnError{Column: target}
		}
		seen[target] = struct{}{}

		if !ds.HasColumn(target) {
			return nil, nil, &dataset.UnknownColumnError{Column: target}
		}
	}

	out := ds.Clone()
	bits := make([]*roaring.Bitmap, 0, len(targets))

	for _, target := range targets {
		values, err := out.Values(target)
		if err != nil {
			return nil, nil, err
		}

		_, nulled, err := Inject(det.Values(), values, proportion, optFns...)
		if err != nil {
			return nil, nil, err
		}

		it := nulled.Iterator()
		for it.HasNext() {
			if err := out.SetMissing(target, int(it.Next())); err != nil {
				return nil, nil, err
			}
		}

		bits = append(bits, nulled)
	}

	mask, err := dataset.NewMask(targets, bits)
	if err != nil {
		return nil, nil, err
	}

	return out, mask, nil
}
