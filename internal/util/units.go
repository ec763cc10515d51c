package util

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// QaPerUnit is the number of Qa in one whole coin (12 decimal places).
var QaPerUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(12), nil)

const coinDecimals = 12

// ParseAmount converts a decimal coin amount like "1.5" or "0.000000000001"
// into Qa. More than 12 fractional digits is an error, as is a negative or
// malformed value.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, errors.Errorf("amount must not be negative: %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > coinDecimals {
		return nil, errors.Errorf("amount %q has more than %d decimal places", s, coinDecimals)
	}

	// Right-pad the fraction to 12 digits and parse the two parts as one
	// integer number of Qa.
	frac += strings.Repeat("0", coinDecimals-len(frac))

	qa, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, errors.Errorf("malformed amount %q", s)
	}
	return qa, nil
}

// FormatAmount renders a Qa value as a decimal coin amount with trailing
// zeros trimmed.
func FormatAmount(qa *big.Int) string {
	if qa == nil {
		return "0"
	}

	whole, rem := new(big.Int).QuoRem(qa, QaPerUnit, new(big.Int))
	if rem.Sign() == 0 {
		return whole.String()
	}

	frac := strings.TrimRight(padLeftZeros(rem.String(), coinDecimals), "0")
	return whole.String() + "." + frac
}

func padLeftZeros(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
