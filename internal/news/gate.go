package news

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadPassword   = errors.New("incorrect admin password")
	ErrAdminDisabled = errors.New("admin posting is not configured")
)

// Gate tracks which chat users have entered the admin password. Sessions
// live only as long as the process.
type Gate struct {
	hash []byte

	mu       sync.RWMutex
	sessions map[int64]bool
}

// NewGate takes a bcrypt hash; an empty hash disables admin access.
func NewGate(passwordHash string) *Gate {
	return &Gate{hash: []byte(passwordHash), sessions: make(map[int64]bool)}
}

func (g *Gate) Login(userID int64, password string) error {
	if len(g.hash) == 0 {
		return ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return ErrBadPassword
	}

	g.mu.Lock()
	g.sessions[userID] = true
	g.mu.Unlock()
	return nil
}

func (g *Gate) Logout(userID int64) {
	g.mu.Lock()
	delete(g.sessions, userID)
	g.mu.Unlock()
}

func (g *Gate) IsAdmin(userID int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sessions[userID]
}
