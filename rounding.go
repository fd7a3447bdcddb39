package sigfig

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Rounding type represents the policy used to resolve discarded digits.
// The zero value is [RoundHalfEven], which minimizes cumulative bias.
//
// The policies and their semantics follow the [General Decimal Arithmetic]
// specification.
//
// [General Decimal Arithmetic]: https://speleotrove.com/decimal/
type Rounding uint8

const (
	RoundHalfEven Rounding = iota // ties go to the even neighbor (banker's rounding)
	RoundHalfUp                   // ties go away from zero
	RoundHalfDown                 // ties go toward zero
	RoundUp                       // away from zero
	RoundDown                     // toward zero
	RoundCeiling                  // toward positive infinity
	RoundFloor                    // toward negative infinity
	Round05Up                     // toward zero, unless the result would end in 0 or 5
)

// rounders dispatches each policy onto its apd strategy.
var rounders = [...]apd.Rounder{
	RoundHalfEven: apd.RoundHalfEven,
	RoundHalfUp:   apd.RoundHalfUp,
	RoundHalfDown: apd.RoundHalfDown,
	RoundUp:       apd.RoundUp,
	RoundDown:     apd.RoundDown,
	RoundCeiling:  apd.RoundCeiling,
	RoundFloor:    apd.RoundFloor,
	Round05Up:     apd.Round05Up,
}

var roundingNames = [...]string{
	RoundHalfEven: "half-even",
	RoundHalfUp:   "half-up",
	RoundHalfDown: "half-down",
	RoundUp:       "up",
	RoundDown:     "down",
	RoundCeiling:  "ceiling",
	RoundFloor:    "floor",
	Round05Up:     "05up",
}

// ParseRounding converts a string to a rounding policy.
// The input must be one of:
//
//	half-even
//	half-up
//	half-down
//	up
//	down
//	ceiling
//	floor
//	05up
//
// ParseRounding returns an error if the string does not represent
// a supported policy.
func ParseRounding(rounding string) (Rounding, error) {
	for r, name := range roundingNames {
		if name == rounding {
			return Rounding(r), nil
		}
	}
	return 0, fmt.Errorf("parsing rounding %q: %w", rounding, ErrInvalidArgument)
}

// String method implements the [fmt.Stringer] interface and returns
// a string representation of the Rounding value.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r Rounding) String() string {
	if !r.valid() {
		return "%!Rounding(" + strconv.Itoa(int(r)) + ")"
	}
	return roundingNames[r]
}

func (r Rounding) valid() bool {
	return int(r) < len(rounders)
}

// Rounded is the outcome of matching a value and its uncertainty to a
// shared decimal precision.
// Value and Uncertainty are plain decimal strings carrying exactly Places
// digits after the decimal point each; the sign of the value is preserved.
// Exponent is the power of ten divided out of both quantities; it is zero
// whenever fixed-point notation applies.
type Rounded struct {
	Value       string
	Uncertainty string
	Exponent    int
	Places      int
}

// Rounded returns the measurement rounded per its contract: the
// uncertainty keeps the configured number of significant figures and the
// value is rounded to the same decimal place.
// See also method [Measurement.RoundedScaled].
func (m Measurement) Rounded() (Rounded, error) {
	return m.round(nil)
}

// RoundedScaled is like [Measurement.Rounded] but multiplies both
// quantities by the given multiplier before any rounding decision.
//
// RoundedScaled returns an error if the multiplier is nil, not finite,
// or not positive.
func (m Measurement) RoundedScaled(multiplier *apd.Decimal) (Rounded, error) {
	if multiplier == nil {
		return Rounded{}, fmt.Errorf("scaling by nil multiplier: %w", ErrInvalidArgument)
	}
	return m.round(multiplier)
}

func (m Measurement) round(multiplier *apd.Decimal) (Rounded, error) {
	val := new(apd.Decimal).Set(&m.value)
	unc := new(apd.Decimal).Set(&m.uncertainty)
	figs := int32(m.Figures())
	ctx := m.context()

	if multiplier != nil {
		if multiplier.Form != apd.Finite || multiplier.Sign() <= 0 {
			return Rounded{}, fmt.Errorf("scaling by %v: %w", multiplier, ErrInvalidArgument)
		}
		ctx.Precision = exactPrecision(val, multiplier)
		if _, err := ctx.Mul(val, val, multiplier); err != nil {
			return Rounded{}, fmt.Errorf("scaling value by %v: %w", multiplier, err)
		}
		ctx.Precision = exactPrecision(unc, multiplier)
		if _, err := ctx.Mul(unc, unc, multiplier); err != nil {
			return Rounded{}, fmt.Errorf("scaling uncertainty by %v: %w", multiplier, err)
		}
	}

	// The uncertainty anchors the precision; a zero uncertainty hands the
	// anchor over to the value.
	anchor := unc
	if unc.IsZero() {
		anchor = val
	}

	// Exponent of the last retained digit.
	pos := adjusted(anchor) - figs + 1

	ctx.Precision = quantizePrecision(val, unc, pos)
	if _, err := ctx.Quantize(anchor, anchor, pos); err != nil {
		return Rounded{}, fmt.Errorf("rounding uncertainty at 10^%d: %w", pos, err)
	}

	// A carry lands exactly on a power of ten (9.96 becomes 10 at one
	// significant figure), so a single correction suffices and the second
	// quantize cannot round again.
	if !anchor.IsZero() && adjusted(anchor)-figs+1 > pos {
		pos++
		if _, err := ctx.Quantize(anchor, anchor, pos); err != nil {
			return Rounded{}, fmt.Errorf("rounding uncertainty at 10^%d: %w", pos, err)
		}
	}

	if unc.IsZero() {
		// Render "0" at the shared decimal place.
		unc.Exponent = pos
	} else if _, err := ctx.Quantize(val, val, pos); err != nil {
		return Rounded{}, fmt.Errorf("rounding value at 10^%d: %w", pos, err)
	}

	// Notation: divide out the common power of ten when the uncertainty
	// rounds above the units digit, switch to one leading digit when the
	// rounded value is small enough, keep fixed-point otherwise.
	exp := int32(0)
	switch {
	case pos > 0:
		exp = pos
	case !val.IsZero() && adjusted(val) <= m.threshold:
		exp = adjusted(val)
	}

	val.Exponent -= exp
	unc.Exponent -= exp

	return Rounded{
		Value:       val.Text('f'),
		Uncertainty: unc.Text('f'),
		Exponent:    int(exp),
		Places:      int(exp - pos),
	}, nil
}

// context returns a fresh arithmetic context for one rounding pass.
// Exponent limits are wide open; precision is resized per operation so apd
// never rounds implicitly.
func (m Measurement) context() *apd.Context {
	return &apd.Context{
		Precision:   basePrecision,
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Rounding:    rounders[m.rounding],
		Traps:       apd.DefaultTraps,
	}
}

const basePrecision = 34

// adjusted returns the exponent of the most significant digit.
func adjusted(d *apd.Decimal) int32 {
	return d.Exponent + int32(d.NumDigits()) - 1
}

// exactPrecision sizes the working precision so that multiplying the given
// operands stays exact.
func exactPrecision(ds ...*apd.Decimal) uint32 {
	n := int64(0)
	for _, d := range ds {
		n += d.NumDigits()
	}
	if n < basePrecision {
		return basePrecision
	}
	return uint32(n + 4)
}

// quantizePrecision sizes the working precision so that rescaling either
// quantity at 10^pos fits, with a digit to spare for a carry.
func quantizePrecision(val, unc *apd.Decimal, pos int32) uint32 {
	n := int64(adjusted(val)) - int64(pos) + 2
	if k := int64(adjusted(unc)) - int64(pos) + 2; k > n {
		n = k
	}
	if n < basePrecision {
		return basePrecision
	}
	return uint32(n + 4)
}
