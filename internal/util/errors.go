// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidInput          = errors.New("invalid input provided")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrWalletInactive        = errors.New("wallet is inactive")
	ErrLimitExceeded         = errors.New("transaction limit exceeded")
	ErrSameWalletTransfer    = errors.New("cannot transfer to the same wallet")
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrCardNotFound          = errors.New("card not found or inactive")
	ErrCardExpired           = errors.New("card has expired")
	ErrCannotCancel          = errors.New("transaction cannot be cancelled")
	ErrInvalidStatusChange   = errors.New("invalid transaction status change")
	ErrAuthorizationDeclined = errors.New("authorization declined")
	ErrDuplicateEntry        = errors.New("duplicate entry")
)

// IsError reports whether err matches the target sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
