/*
Package sigfig formats measured values together with their uncertainties,
keeping the decimal precision of both quantities matched the way
publications expect.
It rounds the uncertainty to a requested number of significant figures,
rounds the value to the same decimal place, and renders both through
pluggable templates such as LaTeX siunitx macros.

# Features

  - Immutable measurements, ensuring safe usage across multiple goroutines
  - Exact decimal arithmetic throughout, including exact expansion of
    binary floating-point input
  - The eight standard decimal rounding policies, half-to-even by default
  - Carry correction when rounding grows the uncertainty by a decade
  - Fixed-point and scientific notation with a configurable threshold
  - String and function templates with siunitx, \num and plain built-ins

# Representation

A [Measurement] bundles a value, a non-negative uncertainty, the number of
significant figures to keep on the uncertainty, and a [Rounding] policy.
Both quantities are held as exact decimals from the [apd] package; binary
floating point never participates in rounding decisions.
Rounding a measurement yields a [Rounded] result whose value and
uncertainty strings always carry the same number of digits after the
decimal point.

# Rounding

The uncertainty anchors the precision: its most significant digit fixes
the decimal place at which both quantities are cut off.
When the uncertainty is exactly zero, the significant figures are counted
against the value instead.
If rounding carries the uncertainty into the next decade, for example 9.96
becoming 10 at one significant figure, the shared decimal place is
recomputed once and both quantities are rounded again.

# Notation

Results use fixed-point notation inside a natural display range.
When the last retained digit of the uncertainty sits above the units
digit, the common power of ten is divided out, so 656 ± 10 renders as
66 ± 1 times 10^1.
When the rounded value is nonzero and its magnitude falls at or below a
configurable threshold, one digit is kept before the decimal point, so
0.000002671 ± 0.000000452 renders as 2.7 ± 0.5 times 10^-6.
The decision is made per render call and never mutates the measurement.

# Templates

A [Template] assembles the four rounded parts (value, uncertainty,
exponent, units) into the final string.
String templates use positional slots {0} through {3} with {{ and }}
escaping literal braces; function templates receive the four parts
directly.
The built-in [SI], [Num] and [Natural] families cover the common siunitx
and human-readable forms.

# Errors

Constructors and renderers report contract violations, such as a negative
uncertainty or an out-of-range template slot, by wrapping
[ErrInvalidArgument].
Rounding itself is a pure, total function over validated inputs.

[apd]: https://pkg.go.dev/github.com/cockroachdb/apd/v3
*/
package sigfig
