package boost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avstrong/resort/internal/pricing"
)

type storage interface {
	GetPromo(ctx context.Context, code string) (*PromoCode, error)
}

type Manager struct {
	storage storage
	now     func() time.Time
}

func New(storage storage, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}

	return &Manager{storage: storage, now: now}
}

// PromoCode is either a percentage (DiscountBP) or a flat amount off the order.
type PromoCode struct {
	Code           string         `json:"code"`
	DiscountBP     int64          `json:"discount_bp"`
	FlatAmount     pricing.Amount `json:"flat_amount"`
	MinOrderAmount pricing.Amount `json:"min_order_amount"`
	ValidFrom      time.Time      `json:"valid_from"`
	ValidThrough   time.Time      `json:"valid_through"`
}

func (p *PromoCode) check(now time.Time, orderAmount pricing.Amount) error {
	if !p.ValidFrom.IsZero() && now.Before(p.ValidFrom) {
		return fmt.Errorf("promo code %s: %w", p.Code, ErrPromoCodeNotStarted)
	}

	if !p.ValidThrough.IsZero() && now.After(p.ValidThrough) {
		return fmt.Errorf("promo code %s: %w", p.Code, ErrPromoCodeExpired)
	}

	if orderAmount < p.MinOrderAmount {
		return fmt.Errorf("promo code %s requires an order of at least %v: %w", p.Code, p.MinOrderAmount, ErrOrderTooSmall)
	}

	return nil
}

// Discount returns the amount taken off orderAmount, never more than the order itself.
func (p *PromoCode) Discount(orderAmount pricing.Amount) pricing.Amount {
	d := p.FlatAmount + orderAmount.ApplyBasisPoints(p.DiscountBP)

	return min(max(0, d), max(0, orderAmount))
}

type Resolution struct {
	Valid          bool           `json:"valid"`
	Code           string         `json:"code"`
	DiscountAmount pricing.Amount `json:"discount_amount"`
	Reason         string         `json:"reason,omitempty"`
}

// Resolve checks code against orderAmount. A code that cannot be applied is reported
// through Resolution.Reason; an error means the lookup itself failed.
func (m *Manager) Resolve(ctx context.Context, code string, orderAmount pricing.Amount) (Resolution, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Resolution{Code: code, Reason: ErrPromoCodeEmpty.Error()}, nil
	}

	promo, err := m.storage.GetPromo(ctx, code)
	if errors.Is(err, ErrPromoCodeNotFound) {
		return Resolution{Code: code, Reason: ErrPromoCodeNotFound.Error()}, nil
	}

	if err != nil {
		return Resolution{}, fmt.Errorf("get promo %s from storage: %w", code, err)
	}

	if err := promo.check(m.now().UTC(), orderAmount); err != nil {
		return Resolution{Code: code, Reason: err.Error()}, nil
	}

	return Resolution{
		Valid:          true,
		Code:           code,
		DiscountAmount: promo.Discount(orderAmount),
	}, nil
}
