// Package session holds the in-memory transcript of one chat session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/netchat/internal/models"
)

// Transcript is the ordered list of turns exchanged during one session.
// It is never persisted; it lives as long as the process that created it.
type Transcript struct {
	ID        string
	StartedAt time.Time

	mu    sync.RWMutex
	turns []models.Turn
}

// New creates an empty transcript with a fresh session handle
func New() *Transcript {
	return &Transcript{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Append adds a turn to the end of the transcript
func (t *Transcript) Append(turn models.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

// Reset removes every turn. The session handle is kept.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
}

// Turns returns a copy of the turns in insertion order
func (t *Transcript) Turns() []models.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of recorded turns
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Last returns the most recent turn, or false when the transcript is empty
func (t *Transcript) Last() (models.Turn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.turns) == 0 {
		return models.Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// LastOf returns the most recent turn with the given role
func (t *Transcript) LastOf(role models.Role) (models.Turn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == role {
			return t.turns[i], true
		}
	}
	return models.Turn{}, false
}
