package boost

import "errors"

var (
	ErrPromoCodeEmpty      = errors.New("promo code is empty")
	ErrPromoCodeNotFound   = errors.New("promo code not found")
	ErrPromoCodeExpired    = errors.New("promo code expired")
	ErrPromoCodeNotStarted = errors.New("promo code is not active yet")
	ErrOrderTooSmall       = errors.New("order amount below promo minimum")
)
