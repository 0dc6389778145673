package farkas

import "github.com/roach88/farkas/internal/rational"

// ExtractLCD scales rats in place by the least common multiple of their
// denominators and returns that multiple. Afterwards every element is an
// integer and original[i]*lcd == rats[i]. An empty slice returns 1.
func ExtractLCD(rats []rational.Rational) rational.Rational {
	if len(rats) == 0 {
		return rational.One
	}
	lcd := rats[0].Denominator()
	for _, r := range rats[1:] {
		lcd = rational.Lcm(lcd, r.Denominator())
	}
	for i := range rats {
		rats[i] = rats[i].Mul(lcd)
	}
	return lcd
}
