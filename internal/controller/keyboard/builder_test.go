package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestGrid(t *testing.T) {
	var buttons []models.InlineKeyboardButton
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		buttons = append(buttons, Button(s, s))
	}

	kb := NewBuilder().Grid(2, buttons...).Row().Build()
	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "e", kb.InlineKeyboard[2][0].CallbackData)

	kb = NewBuilder().Grid(0, buttons[:2]...).Build()
	assert.Len(t, kb.InlineKeyboard, 2)
}
