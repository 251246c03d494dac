// Package id provides entity id generation. Ids are opaque strings; the
// production generator uses random UUIDs rather than timestamps so rapid
// successive calls can never collide.
package id

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequence generates "p-1", "p-2", ... for a given prefix. Test double;
// its ids are stable across runs, which tests rely on.
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}
