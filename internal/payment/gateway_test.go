package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/resort/internal/logger"
)

func TestGateway_AuthorizeAndVoid(t *testing.T) {
	g := NewGateway(Config{L: logger.Discard(), DeclineAbove: 100000})

	auth, err := g.Authorize(context.Background(), Request{Amount: 5000, Currency: "USD", Token: "tok_visa"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.TransactionRef)
	assert.True(t, g.Authorized(auth.TransactionRef))

	require.NoError(t, g.Void(context.Background(), auth.TransactionRef))
	assert.False(t, g.Authorized(auth.TransactionRef))
	assert.ErrorIs(t, g.Void(context.Background(), auth.TransactionRef), ErrUnknownTx)
}

func TestGateway_Outcomes(t *testing.T) {
	g := NewGateway(Config{L: logger.Discard(), DeclineAbove: 100000})

	_, err := g.Authorize(context.Background(), Request{Amount: 5000, Token: TokenCancelled})
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = g.Authorize(context.Background(), Request{Amount: 5000, Token: TokenDeclined})
	assert.ErrorIs(t, err, ErrDeclined)

	_, err = g.Authorize(context.Background(), Request{Amount: 100001})
	assert.ErrorIs(t, err, ErrDeclined)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Authorize(ctx, Request{Amount: 5000})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
