// Package session keeps per-user conversational state for the Telegram
// front-end: an append-only chat transcript and a cart. State lives only in
// memory and disappears on restart.
package session

import (
	"sync"
	"time"

	"stylemart/internal/cart"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role
	Content string
}

type Session struct {
	UserID       int64
	Username     string
	History      []ChatMessage
	Cart         cart.Cart
	LastActivity time.Time
}

type Options struct {
	MaxMessages int
	Now         func() time.Time
}

type Store struct {
	mu         sync.Mutex
	sessions   map[int64]*Session
	maxHistory int
	now        func() time.Time
}

func NewStore(opts Options) *Store {
	maxHistory := opts.MaxMessages
	if maxHistory <= 0 {
		maxHistory = 20
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		sessions:   make(map[int64]*Session),
		maxHistory: maxHistory,
		now:        now,
	}
}

// Clear drops the transcript and empties the cart.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.History = nil
		sess.Cart.Clear()
		sess.LastActivity = s.now()
	}
}

func (s *Store) History(userID int64, username string) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = s.now()

	history := make([]ChatMessage, len(sess.History))
	copy(history, sess.History)
	return history
}

// Append adds messages to the end of the transcript, keeping only the most
// recent MaxMessages.
func (s *Store) Append(userID int64, username string, msgs ...ChatMessage) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = s.now()

	sess.History = append(sess.History, msgs...)
	if len(sess.History) > s.maxHistory {
		sess.History = append([]ChatMessage(nil), sess.History[len(sess.History)-s.maxHistory:]...)
	}
}

// UpdateCart runs fn with exclusive access to the user's cart and returns a
// snapshot of the items afterwards.
func (s *Store) UpdateCart(userID int64, username string, fn func(c *cart.Cart)) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	sess.LastActivity = s.now()
	if fn != nil {
		fn(&sess.Cart)
	}

	var snapshot cart.Cart
	for _, it := range sess.Cart.Items() {
		snapshot.Set(it.Product, it.Quantity)
	}
	return snapshot
}

// Prune removes sessions idle for longer than maxIdle and reports how many
// were dropped.
func (s *Store) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) getOrCreateLocked(userID int64, username string) *Session {
	if sess, ok := s.sessions[userID]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		UserID:       userID,
		Username:     username,
		LastActivity: s.now(),
	}
	s.sessions[userID] = sess
	return sess
}
