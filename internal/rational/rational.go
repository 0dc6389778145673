// Package rational provides immutable arbitrary-precision fractions.
//
// Values are always in lowest terms with a positive denominator. The zero
// value of Rational is 0 and is ready to use. Every operation returns a new
// value; receivers are never modified.
package rational

import (
	"fmt"
	"math/big"
	"strings"
)

// Rational is an exact fraction num/den.
type Rational struct {
	r *big.Rat // nil means 0
}

var (
	// Zero is 0.
	Zero = Rational{}
	// One is 1.
	One = FromInt(1)
)

// New returns num/den in lowest terms. Panics if den is zero.
//
// Examples:
//
//	New(6, 8)  → 3/4
//	New(6, -8) → -3/4
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: division by zero")
	}
	return Rational{r: big.NewRat(num, den)}
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// FromBigInt returns n/1. The argument is copied.
func FromBigInt(n *big.Int) Rational {
	return Rational{r: new(big.Rat).SetInt(n)}
}

// FromBigRat wraps a copy of r.
func FromBigRat(r *big.Rat) Rational {
	return Rational{r: new(big.Rat).Set(r)}
}

// Parse reads "3", "-3", "1/2", "-7/4", "2.5" or "-0.125".
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("rational: empty string")
	}
	if strings.ContainsAny(s, "eE") {
		return Zero, fmt.Errorf("rational: exponent notation not supported: %q", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Zero, fmt.Errorf("rational: invalid literal %q", s)
	}
	return Rational{r: r}, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for literals known to be valid.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return new(big.Rat)
	}
	return x.r
}

// Add returns x + y.
func (x Rational) Add(y Rational) Rational {
	return Rational{r: new(big.Rat).Add(x.rat(), y.rat())}
}

// Sub returns x - y.
func (x Rational) Sub(y Rational) Rational {
	return Rational{r: new(big.Rat).Sub(x.rat(), y.rat())}
}

// Mul returns x * y.
func (x Rational) Mul(y Rational) Rational {
	return Rational{r: new(big.Rat).Mul(x.rat(), y.rat())}
}

// Quo returns x / y. Panics if y is zero.
func (x Rational) Quo(y Rational) Rational {
	if y.IsZero() {
		panic("rational: division by zero")
	}
	return Rational{r: new(big.Rat).Quo(x.rat(), y.rat())}
}

// Neg returns -x.
func (x Rational) Neg() Rational {
	return Rational{r: new(big.Rat).Neg(x.rat())}
}

// Abs returns |x|.
func (x Rational) Abs() Rational {
	return Rational{r: new(big.Rat).Abs(x.rat())}
}

// Sign returns -1, 0 or +1.
func (x Rational) Sign() int {
	return x.rat().Sign()
}

// IsZero reports whether x == 0.
func (x Rational) IsZero() bool {
	return x.Sign() == 0
}

// IsOne reports whether x == 1.
func (x Rational) IsOne() bool {
	return x.Equal(One)
}

// IsInt reports whether the denominator is 1.
func (x Rational) IsInt() bool {
	return x.rat().IsInt()
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

// Equal reports whether x == y.
func (x Rational) Equal(y Rational) bool {
	return x.Cmp(y) == 0
}

// Num returns a copy of the numerator.
func (x Rational) Num() *big.Int {
	return new(big.Int).Set(x.rat().Num())
}

// Denom returns a copy of the (positive) denominator.
func (x Rational) Denom() *big.Int {
	return new(big.Int).Set(x.rat().Denom())
}

// Denominator returns the denominator as a Rational.
func (x Rational) Denominator() Rational {
	return FromBigInt(x.rat().Denom())
}

// Numerator returns the numerator as a Rational.
func (x Rational) Numerator() Rational {
	return FromBigInt(x.rat().Num())
}

// Int64 returns x as an int64 if it is an integer in range.
func (x Rational) Int64() (int64, bool) {
	if !x.IsInt() || !x.rat().Num().IsInt64() {
		return 0, false
	}
	return x.rat().Num().Int64(), true
}

// Floor returns the greatest integer <= x.
func (x Rational) Floor() Rational {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(x.rat().Num(), x.rat().Denom(), m)
	return FromBigInt(q)
}

// BigRat returns a copy of the underlying value.
func (x Rational) BigRat() *big.Rat {
	return new(big.Rat).Set(x.rat())
}

// String returns "n" for integers and "n/d" otherwise.
func (x Rational) String() string {
	return x.rat().RatString()
}

// Gcd returns the greatest common divisor of x and y, extended to
// fractions as gcd(a/b, c/d) = gcd(a, c) / lcm(b, d). The result is
// never negative; Gcd(0, 0) is 0.
func Gcd(x, y Rational) Rational {
	num := new(big.Int).GCD(nil, nil, absInt(x.rat().Num()), absInt(y.rat().Num()))
	den := lcmInt(x.rat().Denom(), y.rat().Denom())
	return Rational{r: new(big.Rat).SetFrac(num, den)}
}

// Lcm returns the least common multiple of x and y, extended to
// fractions as lcm(a/b, c/d) = lcm(a, c) / gcd(b, d). The result is
// never negative; Lcm with a zero argument is 0.
func Lcm(x, y Rational) Rational {
	if x.IsZero() || y.IsZero() {
		return Zero
	}
	num := lcmInt(absInt(x.rat().Num()), absInt(y.rat().Num()))
	den := new(big.Int).GCD(nil, nil, x.rat().Denom(), y.rat().Denom())
	return Rational{r: new(big.Rat).SetFrac(num, den)}
}

// EuclidDiv returns the SMT-LIB integer quotient q of a and b, satisfying
// a = b*q + r with 0 <= r < |b|. Both arguments must be integers and b
// must be non-zero.
func EuclidDiv(a, b Rational) (Rational, error) {
	if err := checkIntegerDivision(a, b); err != nil {
		return Zero, err
	}
	return FromBigInt(new(big.Int).Div(a.rat().Num(), b.rat().Num())), nil
}

// EuclidMod returns the non-negative remainder matching EuclidDiv.
func EuclidMod(a, b Rational) (Rational, error) {
	if err := checkIntegerDivision(a, b); err != nil {
		return Zero, err
	}
	return FromBigInt(new(big.Int).Mod(a.rat().Num(), b.rat().Num())), nil
}

// Rem returns EuclidMod(a, b) with the sign of b.
func Rem(a, b Rational) (Rational, error) {
	m, err := EuclidMod(a, b)
	if err != nil {
		return Zero, err
	}
	if b.Sign() < 0 {
		return m.Neg(), nil
	}
	return m, nil
}

func checkIntegerDivision(a, b Rational) error {
	if !a.IsInt() || !b.IsInt() {
		return fmt.Errorf("rational: integer division of non-integers %s, %s", a, b)
	}
	if b.IsZero() {
		return fmt.Errorf("rational: division by zero")
	}
	return nil
}

func absInt(n *big.Int) *big.Int {
	return new(big.Int).Abs(n)
}

func lcmInt(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Quo(new(big.Int).Mul(a, b), g)
	return out.Abs(out)
}
