package sigfig

import (
	"fmt"
	"strconv"
	"strings"
)

// Built-in template patterns.
// Slot {0} is the rounded value, {1} the rounded uncertainty, {2} the
// decimal exponent, {3} the units; {{ and }} escape literal braces.
const (
	SIPattern             = `\SI{{{0} \pm {1} e{2}}}{{{3}}}`
	SIValuePattern        = `\SI{{{0} e{2}}}{{{3}}}`
	SIUncertaintyPattern  = `\SI{{{1} e{2}}}{{{3}}}`
	NumPattern            = `\num{{{0} \pm {1} e{2}}}`
	NumValuePattern       = `\num{{{0} e{2}}}`
	NumUncertaintyPattern = `\num{{{1} e{2}}}`
	NaturalPattern        = `({0} ± {1}) x 10^{2} {3}`
)

// Template describes how the four rounded parts are assembled into the
// final string: either a pattern with positional slots or a plain
// function.
// Templates hold no numeric logic; see constructors [Pattern] and [Func].
type Template struct {
	pattern string
	fn      func(value, uncertainty, exponent, units string) string
}

// Pattern returns a template that interpolates the rounded parts into the
// positional slots {0} through {3} of the given pattern.
func Pattern(pattern string) Template {
	return Template{pattern: pattern}
}

// Func returns a template that delegates assembly to the given function.
func Func(fn func(value, uncertainty, exponent, units string) string) Template {
	return Template{fn: fn}
}

// Built-in templates for the common publication forms.
var (
	SI            = Pattern(SIPattern)
	SIValue       = Pattern(SIValuePattern)
	SIUncertainty = Pattern(SIUncertaintyPattern)

	Num            = Pattern(NumPattern)
	NumValue       = Pattern(NumValuePattern)
	NumUncertainty = Pattern(NumUncertaintyPattern)

	// Natural is the human-readable form.
	// Unlike [NaturalPattern], it drops the power-of-ten factor when the
	// exponent is zero and omits empty units.
	Natural = Func(func(value, uncertainty, exponent, units string) string {
		s := value + " ± " + uncertainty
		if exponent != "0" {
			s = "(" + s + ") x 10^" + exponent
		}
		if units != "" {
			s += " " + units
		}
		return s
	})
)

// Render resolves the template against the four rounded parts.
//
// Render returns an error if the pattern references a slot outside
// {0} through {3} or contains unbalanced braces.
func (t Template) Render(value, uncertainty, exponent, units string) (string, error) {
	if t.fn != nil {
		return t.fn(value, uncertainty, exponent, units), nil
	}
	args := [4]string{value, uncertainty, exponent, units}
	var b strings.Builder
	b.Grow(len(t.pattern))
	p := t.pattern
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '{':
			if i+1 < len(p) && p[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			j := strings.IndexByte(p[i+1:], '}')
			if j < 0 {
				return "", fmt.Errorf("template %q: unterminated slot: %w", p, ErrInvalidArgument)
			}
			slot, err := strconv.Atoi(p[i+1 : i+1+j])
			if err != nil || slot < 0 || slot >= len(args) {
				return "", fmt.Errorf("template %q: slot %q out of range [0, 3]: %w", p, p[i+1:i+1+j], ErrInvalidArgument)
			}
			b.WriteString(args[slot])
			i += j + 1
		case '}':
			if i+1 < len(p) && p[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("template %q: unmatched '}': %w", p, ErrInvalidArgument)
		default:
			b.WriteByte(p[i])
		}
	}
	return b.String(), nil
}
