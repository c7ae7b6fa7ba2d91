package alert

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// CaptchaKeyBytes is the entropy of a challenge; the key is twice as many hex
// digits.
const CaptchaKeyBytes = 3

// State is the captcha state of one session.
type State int

const (
	StateNoChallenge State = iota
	StatePending
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConsumed:
		return "consumed"
	default:
		return "no_challenge"
	}
}

// Session is the per-user captcha state between page interactions.
type Session struct {
	State    State
	Key      string
	Result   CaptchaResult
	IssuedAt time.Time
}

// NewChallenge returns a random 6-hex-digit captcha key.
func NewChallenge() (string, error) {
	b := make([]byte, CaptchaKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate captcha: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewSessionID returns a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// SessionStore keeps captcha sessions in memory. Idle sessions expire after
// the TTL and fall back to StateNoChallenge.
type SessionStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewSessionStore creates a store whose entries expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the session for id, or a zero Session when none exists.
func (s *SessionStore) Get(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

// Issue starts a new challenge for id, replacing any previous state.
func (s *SessionStore) Issue(id string) (Session, error) {
	key, err := NewChallenge()
	if err != nil {
		return Session{}, err
	}
	sess := Session{State: StatePending, Key: key, IssuedAt: domain.Now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(id, sess, gocache.DefaultExpiration)
	return sess, nil
}

// Verify compares answer with the pending key using exact string equality
// and consumes the challenge either way. Without a pending challenge the
// answer cannot match.
func (s *SessionStore) Verify(id, answer string) CaptchaResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(id)
	result := CaptchaMismatch
	if sess.State == StatePending && answer == sess.Key {
		result = CaptchaMatch
	}
	s.cache.Set(id, Session{State: StateConsumed, Result: result, IssuedAt: sess.IssuedAt}, gocache.DefaultExpiration)
	return result
}

// Result is the captcha outcome to feed into Decide: the verification result
// once consumed, CaptchaNotAttempted otherwise.
func (s *SessionStore) Result(id string) CaptchaResult {
	sess := s.Get(id)
	if sess.State != StateConsumed {
		return CaptchaNotAttempted
	}
	return sess.Result
}

// Take returns the captcha outcome like Result and resets the session in the
// same critical section, so one verification feeds exactly one decision.
func (s *SessionStore) Take(id string) CaptchaResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(id)
	s.cache.Delete(id)
	if sess.State != StateConsumed {
		return CaptchaNotAttempted
	}
	return sess.Result
}

// Reset returns id to StateNoChallenge.
func (s *SessionStore) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(id)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}

func (s *SessionStore) get(id string) Session {
	v, ok := s.cache.Get(id)
	if !ok {
		return Session{}
	}
	return v.(Session)
}
