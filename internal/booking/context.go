package booking

import "context"

type contextKey string

const idempotencyKey contextKey = "bookingIdempotencyKey"

// NewContextWithIdempotencyKey tags a submission so that a retry returns the booking
// created by the first attempt.
func NewContextWithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey, key)
}

func IdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(idempotencyKey).(string)

	return key, ok && key != ""
}
