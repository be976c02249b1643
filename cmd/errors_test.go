package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShown(t *testing.T) {
	base := errors.New("indexer down")
	err := shown(base)

	assert.True(t, isShown(err))
	assert.True(t, isShown(fmt.Errorf("listing: %w", err)))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "indexer down", err.Error())
}

func TestShown_Nil(t *testing.T) {
	assert.NoError(t, shown(nil))
	assert.False(t, isShown(errors.New("plain")))
}
