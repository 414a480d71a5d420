package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreezeQty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1800, FreezeQty("NIFTY"))
	assert.Equal(t, 900, FreezeQty("BANKNIFTY"))
	assert.Equal(t, 0, FreezeQty("NOSUCHSCRIP"), "unknown scrip means no cap")
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, Supported("FINNIFTY"))
	assert.False(t, Supported("EUR_USD"))
}

func TestOptionTypeValid(t *testing.T) {
	t.Parallel()

	assert.True(t, PE.Valid())
	assert.True(t, CE.Valid())
	assert.False(t, OptionType("XX").Valid())
}
