package rational

import "math/big"

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// LCM returns the least common multiple of a and b, or 0 when either is 0.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := GCD(a, b)
	out := new(big.Int).Quo(new(big.Int).Abs(a), g)
	return out.Mul(out, new(big.Int).Abs(b))
}

// DenominatorLCM returns the least common multiple of every denominator
// greater than one among the positive values. The result is 1 when no value
// has such a denominator.
func DenominatorLCM(values []Rat) *big.Int {
	out := big.NewInt(1)
	for _, v := range values {
		if v.Sign() <= 0 {
			continue
		}
		den := v.rat().Denom()
		if den.Cmp(bigOne) == 0 {
			continue
		}
		out = LCM(out, den)
	}
	return out
}
