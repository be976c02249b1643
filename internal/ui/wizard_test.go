package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWizardValidators(t *testing.T) {
	addr := matches(hexAddress, "bad address")
	assert.NoError(t, addr("0xda03509Bb770061A61615AD8Fc8e1858520eBd86"))
	assert.EqualError(t, addr("da03509Bb770061A61615AD8Fc8e1858520eBd86"), "bad address")
	assert.Error(t, addr("0xda03"))

	url := matches(httpURL, "bad url")
	assert.NoError(t, url("http://127.0.0.1:5001"))
	assert.NoError(t, url("https://ipfs.io"))
	assert.Error(t, url("ipfs.io"))
}
