package blog

import (
	"fmt"
	"sync"
)

// Action slot names for the in-flight guard. Deletes get one slot per post
// so deleting two different posts concurrently is allowed, while a
// double-submitted delete of the same post is not.
const (
	slotLogin  = "login"
	slotCreate = "create"
)

func slotDelete(id int64) string { return fmt.Sprintf("delete:%d", id) }

// inflight tracks which action categories currently have a network call
// outstanding. Re-entrant invocations of the same category are rejected so
// a double-click can never complete the same mutation twice.
type inflight struct {
	mu    sync.Mutex
	slots map[string]bool
}

func newInflight() *inflight {
	return &inflight{slots: make(map[string]bool)}
}

// begin claims the slot. It returns false when the slot is already taken.
func (f *inflight) begin(slot string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slots[slot] {
		return false
	}
	f.slots[slot] = true
	return true
}

// end releases the slot.
func (f *inflight) end(slot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.slots, slot)
}
