// Package audit records an in-memory activity trail from bus events.
package audit

import (
	"sync"
	"time"
)

// DefaultCapacity is how many entries the trail keeps.
const DefaultCapacity = 500

// Entry kinds.
const (
	KindUserRegistered = "user_registered"
	KindUserUpdated    = "user_updated"
	KindEventCreated   = "event_created"
	KindEventDeleted   = "event_deleted"
)

// Entry is one recorded activity.
type Entry struct {
	Seq     uint64    `json:"seq"`
	Kind    string    `json:"kind"`
	UserID  uint      `json:"user_id"`
	Subject uint      `json:"subject_id,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Trail is a bounded ring of entries. Old entries are dropped once
// capacity is reached.
type Trail struct {
	mu       sync.RWMutex
	entries  []Entry
	next     int
	full     bool
	seq      uint64
	capacity int
}

// NewTrail creates a trail holding at most capacity entries.
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Trail{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Record appends e, assigning its sequence number.
func (t *Trail) Record(e Entry) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	e.Seq = t.seq
	if e.At.IsZero() {
		e.At = time.Now()
	}

	t.entries[t.next] = e
	t.next = (t.next + 1) % t.capacity
	if t.next == 0 {
		t.full = true
	}
	return e
}

// Recent returns up to limit entries, newest first.
// A non-positive limit returns everything retained.
func (t *Trail) Recent(limit int) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := t.next
	if t.full {
		size = t.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Entry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (t.next - 1 - i + t.capacity) % t.capacity
		out = append(out, t.entries[idx])
	}
	return out
}

// Len returns the number of retained entries.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.full {
		return t.capacity
	}
	return t.next
}
