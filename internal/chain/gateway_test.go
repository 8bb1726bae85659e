// internal/chain/gateway_test.go
package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractABIParses(t *testing.T) {
	parsed, err := loadABI()
	require.NoError(t, err)

	for _, method := range []string{
		"getNewDeck", "getCurrentDeck", "placeBet", "getMaxPayout",
		"getPlayerStats", "houseDeposit", "houseWithdrawal",
	} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, "missing method %s", method)
	}
	for _, event := range []string{"NewDeck", "GameResult", "StatsUpdated"} {
		_, ok := parsed.Events[event]
		assert.True(t, ok, "missing event %s", event)
	}
}

func TestEventShapes(t *testing.T) {
	parsed, err := loadABI()
	require.NoError(t, err)

	newDeck := parsed.Events["NewDeck"]
	require.Len(t, newDeck.Inputs, 3)
	assert.True(t, newDeck.Inputs[0].Indexed, "player is indexed")

	result := parsed.Events["GameResult"]
	require.Len(t, result.Inputs, 4)
	assert.Equal(t, "selectedCard", result.Inputs[1].Name)
	assert.Equal(t, "winningCard", result.Inputs[2].Name)
	assert.Equal(t, "won", result.Inputs[3].Name)
}

func TestIsUserRejected(t *testing.T) {
	assert.True(t, IsUserRejected(errors.New("user rejected transaction")))
	assert.True(t, IsUserRejected(errors.New("User denied transaction signature")))
	assert.False(t, IsUserRejected(errors.New("nonce too low")))
	assert.False(t, IsUserRejected(nil))
}

func TestIsDeckExpiredRevert(t *testing.T) {
	assert.True(t, IsDeckExpiredRevert(errors.New("execution reverted: Cards expired")))
	assert.False(t, IsDeckExpiredRevert(errors.New("execution reverted: bet too small")))
	assert.False(t, IsDeckExpiredRevert(nil))
}
