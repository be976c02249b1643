package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickerItems() []PickerItem {
	return []PickerItem{
		{Label: "ethereum", SubLabel: "1", Value: "ethereum"},
		{Label: "gnosis", SubLabel: "100", Value: "gnosis", Current: true},
		{Label: "sepolia", SubLabel: "11155111", Value: "sepolia"},
	}
}

func TestPickerStartsOnCurrent(t *testing.T) {
	m := newPicker("Network", pickerItems())
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "●")
}

func TestPickerSelect(t *testing.T) {
	var model tea.Model = newPicker("Network", pickerItems())
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := model.(pickerModel)
	require.NotNil(t, m.selected)
	assert.Equal(t, "sepolia", m.selected.Value)
	assert.NotNil(t, cmd)
}

func TestPickerCancel(t *testing.T) {
	var model tea.Model = newPicker("Network", pickerItems())
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := model.(pickerModel)
	assert.True(t, m.quitting)
	assert.Nil(t, m.selected)
	assert.Empty(t, m.View())
}

func TestPickItemEmpty(t *testing.T) {
	_, err := PickItem("Wallet", nil)
	assert.Error(t, err)
}
