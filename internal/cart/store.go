package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrSessionID    = errors.New("session id is empty")
	ErrItemNotFound = errors.New("cart item not found")
)

// Store keeps one cart per guest session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	//nolint:exhaustruct
	return &Store{
		sessions: make(map[string]*Session),
	}
}

func (s *Store) session(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}

	return sess
}

// Add appends item under a fresh id and returns the stored copy.
func (s *Store) Add(sessionID string, item LineItem) (LineItem, error) {
	if sessionID == "" {
		return LineItem{}, ErrSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	sess := s.session(sessionID)
	sess.Items = append(sess.Items, item)

	return item, nil
}

func (s *Store) Remove(sessionID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("item %q: %w", itemID, ErrItemNotFound)
	}

	for i, item := range sess.Items {
		if item.ID == itemID {
			sess.Items = append(sess.Items[:i], sess.Items[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("item %q: %w", itemID, ErrItemNotFound)
}

// RemoveItems drops the listed items from the session. A session left without items
// is discarded along with its promo code.
func (s *Store) RemoveItems(sessionID string, itemIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}

	drop := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = struct{}{}
	}

	kept := sess.Items[:0]

	for _, item := range sess.Items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}

	if len(kept) == 0 {
		delete(s.sessions, sessionID)

		return
	}

	sess.Items = kept
}

// Snapshot returns a copy of the session that later mutations do not affect.
func (s *Store) Snapshot(sessionID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return Session{ID: sessionID}
	}

	return sess.clone()
}

func (s *Store) SetPromo(sessionID, code string) error {
	if sessionID == "" {
		return ErrSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session(sessionID).PromoCode = code

	return nil
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}
