package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// Fixed alphabets.
const (
	Lower  = "abcdefghijklmnopqrstuvwxyz"
	Digits = "0123456789"
	Upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// DefaultSpecial is used when Policy.Special is empty.
	DefaultSpecial = "!@#$%^&*()-_=+[]{}|;:,.<>?/`~"
)

// ErrInvalidPolicy is returned when a Policy violates its invariants.
var ErrInvalidPolicy = errors.New("invalid character policy")

// Class identifies one of the four disjoint character classes.
type Class int

const (
	ClassLower Class = iota
	ClassDigit
	ClassUpper
	ClassSpecial
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassLower:
		return "lower"
	case ClassDigit:
		return "digit"
	case ClassUpper:
		return "upper"
	case ClassSpecial:
		return "special"
	default:
		return "other"
	}
}

// Policy constrains the shape of a generated password.
type Policy struct {
	Length         int
	IncludeUpper   bool
	IncludeSpecial bool
	MinLower       int
	MinDigits      int
	MinUpper       int
	MinSpecial     int
	// Special overrides DefaultSpecial when non-empty.
	Special string
}

// DefaultPolicy returns a 12-character lowercase+digit policy with one of each.
func DefaultPolicy() Policy {
	return Policy{
		Length:    12,
		MinLower:  1,
		MinDigits: 1,
	}
}

// SpecialAlphabet returns the effective special-character set.
func (p Policy) SpecialAlphabet() string {
	if p.Special == "" {
		return DefaultSpecial
	}
	return p.Special
}

// Classes lists the active classes in canonical order.
func (p Policy) Classes() []Class {
	out := []Class{ClassLower, ClassDigit}
	if p.IncludeUpper {
		out = append(out, ClassUpper)
	}
	if p.IncludeSpecial {
		out = append(out, ClassSpecial)
	}
	return out
}

// Alphabet returns the union of all active classes.
func (p Policy) Alphabet() string {
	var b strings.Builder
	b.WriteString(Lower)
	b.WriteString(Digits)
	if p.IncludeUpper {
		b.WriteString(Upper)
	}
	if p.IncludeSpecial {
		b.WriteString(p.SpecialAlphabet())
	}
	return b.String()
}

// MinTotal is the sum of the minimums of active classes.
func (p Policy) MinTotal() int {
	total := p.MinLower + p.MinDigits
	if p.IncludeUpper {
		total += p.MinUpper
	}
	if p.IncludeSpecial {
		total += p.MinSpecial
	}
	return total
}

// Validate checks the policy invariants.
func (p Policy) Validate() error {
	if p.Length < 1 {
		return fmt.Errorf("%w: length must be >= 1", ErrInvalidPolicy)
	}
	if p.MinLower < 0 || p.MinDigits < 0 || p.MinUpper < 0 || p.MinSpecial < 0 {
		return fmt.Errorf("%w: minimum counts must be >= 0", ErrInvalidPolicy)
	}
	if !p.IncludeUpper && p.MinUpper != 0 {
		return fmt.Errorf("%w: min upper requires uppercase to be included", ErrInvalidPolicy)
	}
	if !p.IncludeSpecial && p.MinSpecial != 0 {
		return fmt.Errorf("%w: min special requires special characters to be included", ErrInvalidPolicy)
	}
	if total := p.MinTotal(); total > p.Length {
		return fmt.Errorf("%w: minimum counts (%d) exceed length (%d)", ErrInvalidPolicy, total, p.Length)
	}
	if p.IncludeSpecial {
		if err := validateSpecial(p.SpecialAlphabet()); err != nil {
			return err
		}
	}
	return nil
}

func validateSpecial(alphabet string) error {
	var seen [128]bool
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c <= ' ' || c > '~' {
			return fmt.Errorf("%w: special alphabet must be printable ASCII without spaces", ErrInvalidPolicy)
		}
		if classify(c) != ClassOther {
			return fmt.Errorf("%w: special alphabet must not contain letters or digits", ErrInvalidPolicy)
		}
		if seen[c] {
			return fmt.Errorf("%w: special alphabet contains duplicate %q", ErrInvalidPolicy, c)
		}
		seen[c] = true
	}
	return nil
}

func classify(c byte) Class {
	switch {
	case c >= 'a' && c <= 'z':
		return ClassLower
	case c >= '0' && c <= '9':
		return ClassDigit
	case c >= 'A' && c <= 'Z':
		return ClassUpper
	default:
		return ClassOther
	}
}

// Counts tallies characters per class.
type Counts struct {
	Lower   int
	Digits  int
	Upper   int
	Special int
	Other   int
}

// Count classifies every byte of s against the policy's alphabets.
func (p Policy) Count(s string) Counts {
	special := p.SpecialAlphabet()
	var c Counts
	for i := 0; i < len(s); i++ {
		switch classify(s[i]) {
		case ClassLower:
			c.Lower++
		case ClassDigit:
			c.Digits++
		case ClassUpper:
			c.Upper++
		default:
			if strings.IndexByte(special, s[i]) >= 0 {
				c.Special++
			} else {
				c.Other++
			}
		}
	}
	return c
}
