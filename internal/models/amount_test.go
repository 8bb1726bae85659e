// internal/models/amount_test.go
package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	v, err := ParseEther("0.001")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000_000_000), v)

	v, err = ParseEther("1")
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), v)

	v, err = ParseEther(" 0.5 ")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500_000_000_000_000_000), v)
}

func TestParseEtherRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"-1",
		"0.0000000000000000001", // sub-wei precision
	} {
		_, err := ParseEther(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "0", FormatEther(big.NewInt(0)))
	assert.Equal(t, "0.001", FormatEther(big.NewInt(1_000_000_000_000_000)))
	assert.Equal(t, "1", FormatEther(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)))
}

func TestEtherRoundTrip(t *testing.T) {
	for _, s := range []string{"0.001", "0.05", "1", "0.123456789"} {
		v, err := ParseEther(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatEther(v))
	}
}
