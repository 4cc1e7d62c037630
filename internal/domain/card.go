// internal/domain/card.go
package domain

import (
	"fmt"
	"time"
)

// CardType identifies the card network.
type CardType string

const (
	CardTypeVisa       CardType = "visa"
	CardTypeMastercard CardType = "mastercard"
	CardTypeAmex       CardType = "amex"
)

// Valid reports whether the card type is a known network.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeVisa, CardTypeMastercard, CardTypeAmex:
		return true
	}
	return false
}

// Card is a payment card linked to a user. The raw card number is
// write-only: it is persisted for processing but never serialized in API
// responses, which expose MaskedNumber instead. Deleting a card is a soft
// deactivation, never a row removal. At most one card per user carries
// the default flag.
type Card struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	CardNumber     string    `db:"card_number" json:"-"`
	CardType       CardType  `db:"card_type" json:"card_type"`
	CardHolderName string    `db:"card_holder_name" json:"card_holder_name"`
	ExpiryMonth    int       `db:"expiry_month" json:"expiry_month"`
	ExpiryYear     int       `db:"expiry_year" json:"expiry_year"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsDefault      bool      `db:"is_default" json:"is_default"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// NewCard creates a new active Card instance.
func NewCard(userID int64, number string, cardType CardType, holderName string, expiryMonth, expiryYear int, isDefault bool) *Card {
	now := time.Now().UTC()
	return &Card{
		UserID:         userID,
		CardNumber:     number,
		CardType:       cardType,
		CardHolderName: holderName,
		ExpiryMonth:    expiryMonth,
		ExpiryYear:     expiryYear,
		IsActive:       true,
		IsDefault:      isDefault,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MaskedNumber returns the display form of the card number, keeping only
// the last four digits.
func (c *Card) MaskedNumber() string {
	if len(c.CardNumber) < 4 {
		return "****"
	}
	return fmt.Sprintf("****-****-****-%s", c.CardNumber[len(c.CardNumber)-4:])
}

// ExpiredAt reports whether the card's expiry month has passed at the
// given time. A card expires at the end of its expiry month.
func (c *Card) ExpiredAt(now time.Time) bool {
	if c.ExpiryYear < now.Year() {
		return true
	}
	return c.ExpiryYear == now.Year() && c.ExpiryMonth < int(now.Month())
}
