package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	t.Run("короткое сообщение остается как есть", func(t *testing.T) {
		assert.Equal(t, "I have a headache", deriveTitle("I have a headache"))
	})

	t.Run("ровно 50 символов без многоточия", func(t *testing.T) {
		msg := strings.Repeat("x", 50)
		assert.Equal(t, msg, deriveTitle(msg))
	})

	t.Run("длинное сообщение обрезается с многоточием", func(t *testing.T) {
		msg := strings.Repeat("x", 51)
		assert.Equal(t, strings.Repeat("x", 50)+"...", deriveTitle(msg))
	})

	t.Run("обрезка по рунам, не по байтам", func(t *testing.T) {
		msg := strings.Repeat("я", 60)
		title := deriveTitle(msg)
		assert.Equal(t, strings.Repeat("я", 50)+"...", title)
	})
}
