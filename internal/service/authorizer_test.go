// internal/service/authorizer_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedAuthorizerDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("ApprovesBelowRate", func(t *testing.T) {
		a := &simulatedAuthorizer{approvalRate: 0.5, randFloat: func() float64 { return 0.4 }}
		approved, err := a.Authorize(ctx)
		require.NoError(t, err)
		assert.True(t, approved)
	})

	t.Run("DeclinesAtOrAboveRate", func(t *testing.T) {
		a := &simulatedAuthorizer{approvalRate: 0.5, randFloat: func() float64 { return 0.5 }}
		approved, err := a.Authorize(ctx)
		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("RateZeroAlwaysDeclines", func(t *testing.T) {
		a := NewSimulatedAuthorizer(0)
		for i := 0; i < 20; i++ {
			approved, err := a.Authorize(ctx)
			require.NoError(t, err)
			assert.False(t, approved)
		}
	})
}

func TestSimulatedAuthorizerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewSimulatedAuthorizer(1)
	approved, err := a.Authorize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, approved)
}
