// internal/domain/card_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCardTypeValid(t *testing.T) {
	assert.True(t, CardTypeVisa.Valid())
	assert.True(t, CardTypeMastercard.Valid())
	assert.True(t, CardTypeAmex.Valid())
	assert.False(t, CardType("diners").Valid())
	assert.False(t, CardType("").Valid())
}

func TestMaskedNumber(t *testing.T) {
	card := NewCard(1, "4111111111111111", CardTypeVisa, "Alice Rahman", 12, 2030, false)
	assert.Equal(t, "****-****-****-1111", card.MaskedNumber())

	short := Card{CardNumber: "42"}
	assert.Equal(t, "****", short.MaskedNumber())
}

func TestExpiredAt(t *testing.T) {
	now := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		month   int
		year    int
		expired bool
	}{
		{"PastYear", 12, 2025, true},
		{"PastMonthSameYear", 8, 2026, true},
		{"CurrentMonth", 9, 2026, false},
		{"FutureMonthSameYear", 10, 2026, false},
		{"FutureYear", 1, 2027, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Card{ExpiryMonth: tt.month, ExpiryYear: tt.year}
			assert.Equal(t, tt.expired, card.ExpiredAt(now))
		})
	}
}
