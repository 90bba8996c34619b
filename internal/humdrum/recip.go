package humdrum

import (
	"math/big"
	"regexp"
	"strings"

	"humspine/internal/rational"
)

var (
	recipRatioPattern  = regexp.MustCompile(`(\d+)%(\d+)`)
	recipNumberPattern = regexp.MustCompile(`\d+`)
)

// RecipToDuration converts the rhythm of a kern or recip token into duration
// units, where scale units make a whole note. Grace notes and tokens without
// a rhythm are zero. Only the first subtoken of a chord is read.
func RecipToDuration(text string, scale int64) rational.Rat {
	if strings.Contains(text, "q") {
		return rational.Zero
	}
	sub := firstSubtoken(text)
	base, ok := recipBase(sub)
	if !ok {
		return rational.Zero
	}
	dots := strings.Count(sub, ".")
	return base.Mul(dotFactor(dots)).MulInt(scale)
}

// RecipToDurationNoDots is RecipToDuration ignoring augmentation dots.
func RecipToDurationNoDots(text string, scale int64) rational.Rat {
	if strings.Contains(text, "q") {
		return rational.Zero
	}
	base, ok := recipBase(firstSubtoken(text))
	if !ok {
		return rational.Zero
	}
	return base.MulInt(scale)
}

// recipBase returns the undotted duration in whole notes.
func recipBase(sub string) (rational.Rat, bool) {
	if m := recipRatioPattern.FindStringSubmatch(sub); m != nil {
		n1, ok1 := new(big.Int).SetString(m[1], 10)
		n2, ok2 := new(big.Int).SetString(m[2], 10)
		if !ok1 || !ok2 || n1.Sign() == 0 {
			return rational.Zero, false
		}
		return rational.FromBig(new(big.Rat).SetFrac(n2, n1)), true
	}
	digits := recipNumberPattern.FindString(sub)
	if digits == "" {
		return rational.Zero, false
	}
	if digits[0] == '0' {
		// 0 is a breve, 00 a long, 000 a maxima.
		zeros := len(digits) - len(strings.TrimLeft(digits, "0"))
		return rational.FromBig(new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(zeros)))), true
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return rational.Zero, false
	}
	return rational.FromBig(new(big.Rat).SetFrac(big.NewInt(1), n)), true
}

// dotFactor is (2^(d+1) - 1) / 2^d.
func dotFactor(dots int) rational.Rat {
	if dots <= 0 {
		return rational.One
	}
	den := new(big.Int).Lsh(big.NewInt(1), uint(dots))
	num := new(big.Int).Lsh(big.NewInt(1), uint(dots+1))
	num.Sub(num, big.NewInt(1))
	return rational.FromBig(new(big.Rat).SetFrac(num, den))
}

var mensValues = map[byte]rational.Rat{
	'X': rational.FromInt(8),
	'L': rational.FromInt(4),
	'S': rational.FromInt(2),
	's': rational.One,
	'M': rational.New(1, 2),
	'm': rational.New(1, 4),
	'U': rational.New(1, 8),
	'u': rational.New(1, 16),
}

// MensToDuration converts a mensural token into duration units. The first
// rhythm letter of the first subtoken sets the value; "p" anywhere in that
// subtoken marks perfection (three parts instead of two) and "i" undoes it.
func MensToDuration(text string, scale int64) rational.Rat {
	sub := firstSubtoken(text)
	perfect := false
	value := rational.Zero
	found := false
	for i := 0; i < len(sub); i++ {
		switch c := sub[i]; c {
		case 'p':
			perfect = true
		case 'i':
			perfect = false
		default:
			if v, ok := mensValues[c]; ok && !found {
				value = v
				found = true
			}
		}
	}
	if perfect {
		value = value.Mul(rational.New(3, 2))
	}
	return value.MulInt(scale)
}

func firstSubtoken(text string) string {
	if i := strings.IndexByte(text, ' '); i >= 0 {
		return text[:i]
	}
	return text
}
