package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/pricing"
)

// SaveRoom stores or replaces a room's rate config.
func (db *DB) SaveRoom(_ context.Context, rc pricing.RateConfig) error {
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("save room: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.rooms[rc.RoomID] = rc

	return nil
}

func (db *DB) RateConfig(_ context.Context, roomID string) (pricing.RateConfig, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rc, ok := db.rooms[roomID]
	if !ok {
		return pricing.RateConfig{}, fmt.Errorf("room %s: %w", roomID, pricing.ErrRoomNotFound)
	}

	return rc, nil
}

func (db *DB) SaveExtra(_ context.Context, e pricing.Extra) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.extras[e.ID] = e

	return nil
}

// Extras returns the catalog ordered by id.
func (db *DB) Extras(_ context.Context) ([]pricing.Extra, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]pricing.Extra, 0, len(db.extras))
	for _, e := range db.extras {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (db *DB) SavePromo(_ context.Context, p boost.PromoCode) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p.Code = strings.ToUpper(p.Code)
	db.promos[p.Code] = &p

	return nil
}

func (db *DB) GetPromo(_ context.Context, code string) (*boost.PromoCode, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.promos[strings.ToUpper(code)]
	if !ok {
		return nil, boost.ErrPromoCodeNotFound
	}

	cp := *p

	return &cp, nil
}
