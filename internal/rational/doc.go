// Package rational provides exact fractions for score timing.
//
// Rat is an immutable value built on math/big.Rat, so every duration and
// timestamp stays in lowest terms with a positive denominator no matter how
// many distinct tuplet denominators a score mixes. The zero value is 0.
package rational
