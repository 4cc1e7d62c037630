// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is one of the seven fixed transfer categories between
// wallet, card and mobile-money rails. The string tokens are part of the
// wire contract and must be preserved exactly.
type TransactionKind string

const (
	KindCardToWallet   TransactionKind = "card_to_wallet"
	KindWalletToCard   TransactionKind = "wallet_to_card"
	KindWalletToBkash  TransactionKind = "wallet_to_bkash"
	KindWalletToNagad  TransactionKind = "wallet_to_nagad"
	KindBkashToWallet  TransactionKind = "bkash_to_wallet"
	KindNagadToWallet  TransactionKind = "nagad_to_wallet"
	KindWalletToWallet TransactionKind = "wallet_to_wallet"
)

// AllKinds lists every supported transaction kind.
var AllKinds = []TransactionKind{
	KindCardToWallet,
	KindWalletToCard,
	KindWalletToBkash,
	KindWalletToNagad,
	KindBkashToWallet,
	KindNagadToWallet,
	KindWalletToWallet,
}

// Valid reports whether the kind is one of the supported categories.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindCardToWallet, KindWalletToCard, KindWalletToBkash, KindWalletToNagad,
		KindBkashToWallet, KindNagadToWallet, KindWalletToWallet:
		return true
	}
	return false
}

// Outgoing reports whether the kind debits the initiating user's wallet.
func (k TransactionKind) Outgoing() bool {
	switch k {
	case KindWalletToCard, KindWalletToBkash, KindWalletToNagad, KindWalletToWallet:
		return true
	}
	return false
}

// Incoming reports whether the kind credits the initiating user's wallet.
func (k TransactionKind) Incoming() bool {
	switch k {
	case KindCardToWallet, KindBkashToWallet, KindNagadToWallet:
		return true
	}
	return false
}

// OutgoingKinds and IncomingKinds partition AllKinds by direction relative
// to the initiating user's wallet.
var (
	OutgoingKinds = []TransactionKind{KindWalletToCard, KindWalletToBkash, KindWalletToNagad, KindWalletToWallet}
	IncomingKinds = []TransactionKind{KindCardToWallet, KindBkashToWallet, KindNagadToWallet}
)

// TransactionStatus is a state in the transaction state machine:
//
//	pending -> {processing} -> completed | failed | cancelled
//
// processing is reserved for a future asynchronous authorization path;
// the synchronous engine moves directly from pending to a terminal state.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
)

// Valid reports whether the status is a known state.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status change is permitted.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing || next.Terminal()
	case StatusProcessing:
		return next.Terminal()
	}
	return false
}

// Transaction is one transfer attempt. The initiating user owns the
// record; a wallet-to-wallet transfer also affects the recipient's wallet
// but the recipient does not own the row. Failed attempts are kept as
// failed rows for audit, with no balance effect.
type Transaction struct {
	ID              int64             `db:"id" json:"-"`
	PublicID        uuid.UUID         `db:"public_id" json:"transaction_id"`
	UserID          int64             `db:"user_id" json:"user_id"`
	Kind            TransactionKind   `db:"kind" json:"kind"`
	Amount          decimal.Decimal   `db:"amount" json:"amount"`
	Fee             decimal.Decimal   `db:"fee" json:"fee"`
	Status          TransactionStatus `db:"status" json:"status"`
	CardID          *int64            `db:"card_id" json:"card_id,omitempty"`
	RecipientUserID *int64            `db:"recipient_user_id" json:"recipient_user_id,omitempty"`
	MobileNumber    string            `db:"mobile_number" json:"mobile_number,omitempty"`
	Description     string            `db:"description" json:"description,omitempty"`
	ReferenceNumber string            `db:"reference_number" json:"reference_number,omitempty"`
	CompletedAt     *time.Time        `db:"completed_at" json:"completed_at,omitempty"`
	FailedAt        *time.Time        `db:"failed_at" json:"failed_at,omitempty"`
	IPAddress       *string           `db:"ip_address" json:"-"`
	UserAgent       string            `db:"user_agent" json:"-"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// NewTransaction creates a pending Transaction with a fresh public id.
func NewTransaction(userID int64, kind TransactionKind, amount, fee decimal.Decimal) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		PublicID:  uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		Fee:       fee,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TotalAmount is the amount plus the fee, i.e. what an outgoing kind
// debits from the initiating wallet.
func (t *Transaction) TotalAmount() decimal.Decimal {
	return t.Amount.Add(t.Fee)
}

// CanCancel reports whether the transaction may still be cancelled by its
// owner. Only non-terminal transactions qualify.
func (t *Transaction) CanCancel() bool {
	return t.Status == StatusPending || t.Status == StatusProcessing
}

// TransactionLog is one append-only entry in a transaction's status
// history. Entries are never mutated or deleted. ChangedBy is nil for
// system-initiated transitions.
type TransactionLog struct {
	ID             int64             `db:"id" json:"id"`
	TransactionID  int64             `db:"transaction_id" json:"-"`
	PreviousStatus TransactionStatus `db:"previous_status" json:"previous_status"`
	NewStatus      TransactionStatus `db:"new_status" json:"new_status"`
	Reason         string            `db:"reason" json:"reason"`
	ChangedBy      *int64            `db:"changed_by" json:"changed_by,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
}
