package rational

import (
	"fmt"
	"math/big"
	"strings"
)

// Rat is an exact fraction. Operations return new values and never mutate
// their operands.
type Rat struct {
	v *big.Rat
}

var (
	// Zero is 0/1.
	Zero = Rat{}
	// One is 1/1.
	One = FromInt(1)
	// MinusOne marks durations and offsets that have not been analyzed.
	MinusOne = FromInt(-1)
)

// New returns num/den in lowest terms. It panics when den is zero.
func New(num, den int64) Rat {
	if den == 0 {
		panic("rational: zero denominator")
	}
	return Rat{v: big.NewRat(num, den)}
}

// FromInt returns n/1.
func FromInt(n int64) Rat {
	return Rat{v: new(big.Rat).SetInt64(n)}
}

// FromBig copies x into a Rat.
func FromBig(x *big.Rat) Rat {
	if x == nil {
		return Zero
	}
	return Rat{v: new(big.Rat).Set(x)}
}

// Parse reads "n", "n/d" or "-n/d".
func Parse(s string) (Rat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("rational: empty value")
	}
	v, ok := new(big.Rat).SetString(s)
	if !ok {
		return Zero, fmt.Errorf("rational: invalid value %q", s)
	}
	return Rat{v: v}, nil
}

func (r Rat) rat() *big.Rat {
	if r.v == nil {
		return new(big.Rat)
	}
	return r.v
}

// Big returns a copy of the underlying big.Rat.
func (r Rat) Big() *big.Rat {
	return new(big.Rat).Set(r.rat())
}

// Num returns a copy of the numerator.
func (r Rat) Num() *big.Int {
	return new(big.Int).Set(r.rat().Num())
}

// Denom returns a copy of the (always positive) denominator.
func (r Rat) Denom() *big.Int {
	return new(big.Int).Set(r.rat().Denom())
}

func (r Rat) Add(o Rat) Rat { return Rat{v: new(big.Rat).Add(r.rat(), o.rat())} }
func (r Rat) Sub(o Rat) Rat { return Rat{v: new(big.Rat).Sub(r.rat(), o.rat())} }
func (r Rat) Mul(o Rat) Rat { return Rat{v: new(big.Rat).Mul(r.rat(), o.rat())} }
func (r Rat) Neg() Rat      { return Rat{v: new(big.Rat).Neg(r.rat())} }
func (r Rat) Abs() Rat      { return Rat{v: new(big.Rat).Abs(r.rat())} }

// Div returns r/o. It panics when o is zero.
func (r Rat) Div(o Rat) Rat {
	if o.Sign() == 0 {
		panic("rational: division by zero")
	}
	return Rat{v: new(big.Rat).Quo(r.rat(), o.rat())}
}

// MulInt and DivInt are shorthands for scaling by an integer.
func (r Rat) MulInt(n int64) Rat { return r.Mul(FromInt(n)) }
func (r Rat) DivInt(n int64) Rat { return r.Div(FromInt(n)) }

// Cmp returns -1, 0 or +1.
func (r Rat) Cmp(o Rat) int { return r.rat().Cmp(o.rat()) }

func (r Rat) Equal(o Rat) bool   { return r.Cmp(o) == 0 }
func (r Rat) Less(o Rat) bool    { return r.Cmp(o) < 0 }
func (r Rat) Greater(o Rat) bool { return r.Cmp(o) > 0 }
func (r Rat) Sign() int          { return r.rat().Sign() }
func (r Rat) IsZero() bool       { return r.Sign() == 0 }
func (r Rat) IsNegative() bool   { return r.Sign() < 0 }
func (r Rat) IsPositive() bool   { return r.Sign() > 0 }
func (r Rat) IsInt() bool        { return r.rat().IsInt() }

// Float64 returns the nearest float64.
func (r Rat) Float64() float64 {
	f, _ := r.rat().Float64()
	return f
}

// IsPowerOfTwo reports whether r is 2^k for some integer k, positive or
// negative. Zero and negative values are not.
func (r Rat) IsPowerOfTwo() bool {
	v := r.rat()
	if v.Sign() <= 0 {
		return false
	}
	num, den := v.Num(), v.Denom()
	if den.Cmp(bigOne) == 0 {
		return isPow2(num)
	}
	if num.Cmp(bigOne) == 0 {
		return isPow2(den)
	}
	return false
}

var bigOne = big.NewInt(1)

func isPow2(x *big.Int) bool {
	return x.Sign() > 0 && uint(x.BitLen()-1) == x.TrailingZeroBits()
}

// String renders "n" for integers and "n/d" otherwise.
func (r Rat) String() string {
	v := r.rat()
	if v.IsInt() {
		return v.Num().String()
	}
	return v.Num().String() + "/" + v.Denom().String()
}

// MarshalText renders the value like String.
func (r Rat) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the format produced by MarshalText.
func (r *Rat) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Max returns the larger of a and b.
func Max(a, b Rat) Rat {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Rat) Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
