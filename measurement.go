package sigfig

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// ErrInvalidArgument is reported, possibly wrapped, when a constructor or
// render argument violates its contract: a negative uncertainty, a
// non-positive significant-figure count, a numeric input that has no exact
// decimal representation, or a template slot outside the valid range.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// maxFigures caps the significant figures kept on the uncertainty.
	// Exact float64 expansions carry at most 767 significant digits, so
	// one hundred figures is already beyond any publication use.
	maxFigures = 100

	// defaultThreshold is the adjusted exponent at or below which a rounded
	// value switches from fixed-point to scientific notation.
	defaultThreshold = -5
)

// Measurement type represents a measured value together with its
// uncertainty and the formatting contract between them.
// Its zero value corresponds to "0 ± 0" at one significant figure.
// Measurement is immutable and safe for concurrent use by multiple
// goroutines; methods prefixed With return modified copies.
type Measurement struct {
	value       apd.Decimal // the measured quantity
	uncertainty apd.Decimal // non-negative absolute uncertainty
	figures     int         // significant figures kept on the uncertainty
	rounding    Rounding    // policy for discarded digits
	threshold   int32       // scientific-notation cutoff exponent
}

func newMeasurement(value, uncertainty *apd.Decimal) (Measurement, error) {
	if value.Form != apd.Finite {
		return Measurement{}, fmt.Errorf("converting value %v: %w", value, ErrInvalidArgument)
	}
	if uncertainty.Form != apd.Finite {
		return Measurement{}, fmt.Errorf("converting uncertainty %v: %w", uncertainty, ErrInvalidArgument)
	}
	if uncertainty.Negative && !uncertainty.IsZero() {
		return Measurement{}, fmt.Errorf("uncertainty %v must be non-negative: %w", uncertainty, ErrInvalidArgument)
	}
	return Measurement{
		value:       *value,
		uncertainty: *uncertainty,
		figures:     1,
		rounding:    RoundHalfEven,
		threshold:   defaultThreshold,
	}, nil
}

// New returns a measurement with the given exact value and uncertainty.
// A nil uncertainty means exactly zero.
// The decimals are copied, so later changes to the arguments do not affect
// the measurement.
//
// New returns an error if either decimal is not finite or the uncertainty
// is negative.
func New(value, uncertainty *apd.Decimal) (Measurement, error) {
	if value == nil {
		return Measurement{}, fmt.Errorf("converting value: %w", ErrInvalidArgument)
	}
	v := new(apd.Decimal).Set(value)
	u := new(apd.Decimal)
	if uncertainty != nil {
		u.Set(uncertainty)
	}
	return newMeasurement(v, u)
}

// Parse converts decimal strings to a measurement.
// An empty uncertainty string means exactly zero.
// The measurement keeps one significant figure on the uncertainty and
// rounds half to even; see methods [Measurement.WithFigures] and
// [Measurement.WithRounding].
//
// Parse returns an error if a string does not represent a finite decimal
// number or the uncertainty is negative.
func Parse(value, uncertainty string) (Measurement, error) {
	v, _, err := apd.NewFromString(value)
	if err != nil {
		return Measurement{}, fmt.Errorf("parsing value %q: %w", value, ErrInvalidArgument)
	}
	u := new(apd.Decimal)
	if uncertainty != "" {
		u, _, err = apd.NewFromString(uncertainty)
		if err != nil {
			return Measurement{}, fmt.Errorf("parsing uncertainty %q: %w", uncertainty, ErrInvalidArgument)
		}
	}
	return newMeasurement(v, u)
}

// MustParse is like [Parse] but panics if any of the strings cannot be parsed.
// It simplifies safe initialization of global variables holding measurements.
func MustParse(value, uncertainty string) Measurement {
	m, err := Parse(value, uncertainty)
	if err != nil {
		panic(fmt.Sprintf("Parse(%q, %q) failed: %v", value, uncertainty, err))
	}
	return m
}

// NewFromFloat64 converts a pair of floats to a measurement through their
// exact decimal expansions.
// The expansion of a finite float64 terminates because its denominator is
// a power of two, so no digits are ever silently truncated; the exact
// expansion of 0.1 carries 55 significant digits.
//
// NewFromFloat64 returns an error if either float is a special value
// (NaN or Inf) or the uncertainty is negative.
func NewFromFloat64(value, uncertainty float64) (Measurement, error) {
	v, err := exactFromFloat64(value)
	if err != nil {
		return Measurement{}, fmt.Errorf("converting value: %w", err)
	}
	u, err := exactFromFloat64(uncertainty)
	if err != nil {
		return Measurement{}, fmt.Errorf("converting uncertainty: %w", err)
	}
	return newMeasurement(v, u)
}

// exactFromFloat64 converts f through its exact decimal expansion.
// A finite float64 has at most 1074 fractional digits.
func exactFromFloat64(f float64) (*apd.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("special value %v: %w", f, ErrInvalidArgument)
	}
	d, _, err := apd.NewFromString(new(big.Rat).SetFloat64(f).FloatString(1074))
	if err != nil {
		return nil, fmt.Errorf("expanding %v: %w", f, ErrInvalidArgument)
	}
	if d.IsZero() {
		return apd.New(0, 0), nil
	}
	d.Reduce(d)
	return d, nil
}

// WithFigures returns a measurement that keeps the given number of
// significant figures on the uncertainty, or on the value when the
// uncertainty is exactly zero.
//
// WithFigures returns an error if figures is not in the range
// [1, 100].
func (m Measurement) WithFigures(figures int) (Measurement, error) {
	if figures < 1 || figures > maxFigures {
		return Measurement{}, fmt.Errorf("significant figures %v out of range [1, %v]: %w", figures, maxFigures, ErrInvalidArgument)
	}
	m.figures = figures
	return m, nil
}

// WithRounding returns a measurement that resolves discarded digits with
// the given policy.
//
// WithRounding returns an error if the rounding policy is not one of the
// supported enumeration.
func (m Measurement) WithRounding(rounding Rounding) (Measurement, error) {
	if !rounding.valid() {
		return Measurement{}, fmt.Errorf("unsupported rounding %v: %w", rounding, ErrInvalidArgument)
	}
	m.rounding = rounding
	return m, nil
}

// WithScientificThreshold returns a measurement that switches to
// scientific notation when the rounded value is nonzero and the exponent
// of its most significant digit is at or below the given exponent.
// The default threshold is -5.
func (m Measurement) WithScientificThreshold(exponent int) Measurement {
	m.threshold = int32(exponent)
	return m
}

// Value returns the exact value of the measurement.
// The returned decimal is a copy.
func (m Measurement) Value() *apd.Decimal {
	return new(apd.Decimal).Set(&m.value)
}

// Uncertainty returns the exact uncertainty of the measurement.
// The returned decimal is a copy.
func (m Measurement) Uncertainty() *apd.Decimal {
	return new(apd.Decimal).Set(&m.uncertainty)
}

// Figures returns the number of significant figures kept on the uncertainty.
func (m Measurement) Figures() int {
	if m.figures < 1 {
		return 1 // zero value of Measurement
	}
	return m.figures
}

// Rounding returns the rounding policy of the measurement.
func (m Measurement) Rounding() Rounding {
	return m.rounding
}

// Formatted renders the measurement through the given template.
// The units string is passed through to the template untouched.
// See also methods [Measurement.FormattedScaled] and [Measurement.Rounded].
//
// Formatted returns an error if the template is invalid.
func (m Measurement) Formatted(t Template, units string) (string, error) {
	r, err := m.Rounded()
	if err != nil {
		return "", err
	}
	return t.Render(r.Value, r.Uncertainty, strconv.Itoa(r.Exponent), units)
}

// FormattedScaled is like [Measurement.Formatted] but multiplies both
// quantities by the given multiplier before any rounding decision, so the
// multiplier changes rounding outcomes, not just the display.
//
// FormattedScaled returns an error if the multiplier is nil, not finite,
// or not positive, or if the template is invalid.
func (m Measurement) FormattedScaled(t Template, units string, multiplier *apd.Decimal) (string, error) {
	r, err := m.RoundedScaled(multiplier)
	if err != nil {
		return "", err
	}
	return t.Render(r.Value, r.Uncertainty, strconv.Itoa(r.Exponent), units)
}

// String implements the [fmt.Stringer] interface and renders the
// measurement through the [Natural] template without units.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (m Measurement) String() string {
	s, _ := m.Formatted(Natural, "")
	return s
}
