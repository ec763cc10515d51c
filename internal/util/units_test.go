package util_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zilpool/go-zil-wallet/internal/util"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000"},
		{"1.5", "1500000000000"},
		{"0.000000000001", "1"},
		{"0", "0"},
		{".25", "250000000000"},
		{"1000000", "1000000000000000000"},
	}

	for _, tc := range cases {
		got, err := util.ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.String(), tc.in)
	}
}

func TestParseAmountRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "-1", "1.2.3", "abc", "0.0000000000001"} {
		_, err := util.ParseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestFormatAmount(t *testing.T) {
	qa, err := util.ParseAmount("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1.5", util.FormatAmount(qa))

	assert.Equal(t, "0", util.FormatAmount(big.NewInt(0)))
	assert.Equal(t, "0.000000000001", util.FormatAmount(big.NewInt(1)))
	assert.Equal(t, "2", util.FormatAmount(new(big.Int).Mul(big.NewInt(2), util.QaPerUnit)))
}
