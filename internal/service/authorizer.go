// internal/service/authorizer.go
package service

import (
	"context"
	"math/rand"
)

// Default approval rates for the simulated external channels.
const (
	DefaultCardApprovalRate   = 0.95
	DefaultMobileApprovalRate = 0.90
)

// Authorizer is the seam at which real card/mobile-money network calls
// plug in. The engine treats the returned decision as authoritative and
// never retries: a decline is terminal for that attempt.
type Authorizer interface {
	// Authorize returns whether the external network approved the movement.
	// A non-nil error (including a context timeout) fails the whole unit of
	// work without committing any balance change.
	Authorize(ctx context.Context) (bool, error)
}

// simulatedAuthorizer approves with a fixed probability, standing in for
// a real network integration.
type simulatedAuthorizer struct {
	approvalRate float64
	randFloat    func() float64
}

// NewSimulatedAuthorizer creates an Authorizer that approves with the
// given probability in [0, 1].
func NewSimulatedAuthorizer(approvalRate float64) Authorizer {
	return &simulatedAuthorizer{
		approvalRate: approvalRate,
		randFloat:    rand.Float64,
	}
}

func (a *simulatedAuthorizer) Authorize(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	return a.randFloat() < a.approvalRate, nil
}
