/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	idBytes     = 3
	idAttempts  = 10
	maxIDLength = 32
)

// Session is one word cloud: a question, the number of connected
// participants, and the tally of every phrase submitted since the
// session was created or last reset.
type Session struct {
	ID           string
	Question     string
	Participants int
	Words        map[string]int

	// Round increases every time the question changes, so per-question
	// submission limits can be enforced without remembering the text.
	Round int

	CreatedAt  time.Time
	LastActive time.Time
}

func newSession(id, question string, now time.Time) *Session {
	return &Session{
		ID:         id,
		Question:   question,
		Words:      make(map[string]int),
		CreatedAt:  now,
		LastActive: now,
	}
}

// Snapshot returns a copy of the word map that is safe to hand to other
// goroutines.
func (s *Session) Snapshot() map[string]int {
	out := make(map[string]int, len(s.Words))
	for w, n := range s.Words {
		out[w] = n
	}
	return out
}

// Reset clears the word map.
func (s *Session) Reset() {
	s.Words = make(map[string]int)
}

// Store maps session IDs to sessions. It is not safe for concurrent use;
// the Hub owns it and only touches it from its event loop.
type Store struct {
	sessions map[string]*Session
	rand     io.Reader
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		rand:     rand.Reader,
		now:      time.Now,
	}
}

// Create inserts a fresh session under a random, unused ID.
func (s *Store) Create(question string) (*Session, error) {
	buf := make([]byte, idBytes)

	for range idAttempts {
		if _, err := io.ReadFull(s.rand, buf); err != nil {
			return nil, fmt.Errorf("reading random id: %w", err)
		}

		id := strings.ToUpper(hex.EncodeToString(buf))
		if _, exists := s.sessions[id]; exists {
			continue
		}

		session := newSession(id, question, s.now())
		s.sessions[id] = session

		return session, nil
	}

	return nil, ErrNoFreeID
}

func (s *Store) Get(id string) (*Session, bool) {
	session, ok := s.sessions[id]
	return session, ok
}

// GetOrCreate returns the session for id, creating an empty one if none
// exists. The boolean reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if session, ok := s.sessions[id]; ok {
		return session, false
	}

	session := newSession(id, "", s.now())
	s.sessions[id] = session

	return session, true
}

func (s *Store) Delete(id string) {
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	return len(s.sessions)
}

// Participants returns the sum of participants across all sessions.
func (s *Store) Participants() int {
	total := 0
	for _, session := range s.sessions {
		total += session.Participants
	}
	return total
}

// Sweep removes sessions nobody is connected to that have been idle since
// before cutoff, and returns their IDs.
func (s *Store) Sweep(cutoff time.Time) []string {
	var removed []string

	for id, session := range s.sessions {
		if session.Participants > 0 || !session.LastActive.Before(cutoff) {
			continue
		}

		delete(s.sessions, id)
		removed = append(removed, id)
	}

	return removed
}

func (s *Store) touch(session *Session) {
	session.LastActive = s.now()
}

// NormalizeID canonicalizes an untrusted session ID. IDs are case
// insensitive and limited to letters, digits, '-' and '_'.
func NormalizeID(raw string) (string, bool) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" || len(id) > maxIDLength {
		return "", false
	}

	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_':
		default:
			return "", false
		}
	}

	return id, true
}
