package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/pricing"
)

var (
	ErrCancelled = errors.New("payment cancelled by guest")
	ErrDeclined  = errors.New("payment declined")
	ErrUnknownTx = errors.New("unknown transaction")
)

// Test tokens understood by the offline gateway.
const (
	TokenCancelled = "tok_cancelled"
	TokenDeclined  = "tok_declined"
)

type Request struct {
	Amount   pricing.Amount `json:"amount"`
	Currency string         `json:"currency"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Token    string         `json:"token"`
}

type Authorization struct {
	TransactionRef string         `json:"transaction_ref"`
	Amount         pricing.Amount `json:"amount"`
	Currency       string         `json:"currency"`
}

type Config struct {
	L *logger.Logger
	// DeclineAbove rejects authorizations over this amount; zero disables the limit.
	DeclineAbove pricing.Amount
}

// Gateway authorizes payments without talking to a real processor.
type Gateway struct {
	l            *logger.Logger
	declineAbove pricing.Amount

	mu         sync.Mutex
	authorized map[string]Authorization
}

func NewGateway(conf Config) *Gateway {
	//nolint:exhaustruct
	return &Gateway{
		l:            conf.L,
		declineAbove: conf.DeclineAbove,
		authorized:   make(map[string]Authorization),
	}
}

func (g *Gateway) Authorize(ctx context.Context, req Request) (Authorization, error) {
	if err := ctx.Err(); err != nil {
		return Authorization{}, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	switch {
	case req.Token == TokenCancelled:
		return Authorization{}, ErrCancelled
	case req.Token == TokenDeclined:
		return Authorization{}, fmt.Errorf("card rejected: %w", ErrDeclined)
	case req.Amount <= 0:
		return Authorization{}, fmt.Errorf("amount %v: %w", req.Amount, ErrDeclined)
	case g.declineAbove > 0 && req.Amount > g.declineAbove:
		return Authorization{}, fmt.Errorf("amount %v over limit %v: %w", req.Amount, g.declineAbove, ErrDeclined)
	}

	auth := Authorization{
		TransactionRef: uuid.NewString(),
		Amount:         req.Amount,
		Currency:       req.Currency,
	}

	g.mu.Lock()
	g.authorized[auth.TransactionRef] = auth
	g.mu.Unlock()

	g.l.LogInfo("Payment authorized, ref: %s, amount: %v %s", auth.TransactionRef, auth.Amount, auth.Currency)

	return auth, nil
}

// Void releases an authorization that will not be captured.
func (g *Gateway) Void(_ context.Context, ref string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.authorized[ref]; !ok {
		return fmt.Errorf("void %s: %w", ref, ErrUnknownTx)
	}

	delete(g.authorized, ref)

	g.l.LogInfo("Payment authorization voided, ref: %s", ref)

	return nil
}

func (g *Gateway) Authorized(ref string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.authorized[ref]

	return ok
}
