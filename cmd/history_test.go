package cmd

import (
	"testing"

	"github.com/Mohsinsiddi/lcurate/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "0.125", formatWei("125000000000000000"))
	assert.Equal(t, "—", formatWei(""))
	assert.Equal(t, "—", formatWei("abc"))
}

func TestTxURL(t *testing.T) {
	assert.Equal(t, "https://gnosisscan.io/tx/0xabc", txURL(store.Entry{Chain: "gnosis", Hash: "0xabc"}))
	assert.Empty(t, txURL(store.Entry{Chain: "unknown", Hash: "0xabc"}))
}
