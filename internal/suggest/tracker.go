// Package suggest coalesces address keystrokes and discards suggestion
// responses that arrive after a newer request was issued.
package suggest

import "sync"

// Ticket identifies one issued request.
type Ticket struct {
	Seq   uint64
	Query string
}

// Tracker implements last-request-wins. Each Begin supersedes every
// earlier ticket; responses for superseded tickets should be dropped.
type Tracker struct {
	mu  sync.Mutex
	seq uint64
}

// Begin issues a new ticket for query.
func (t *Tracker) Begin(query string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return Ticket{Seq: t.seq, Query: query}
}

// Current reports whether tk is the most recently issued ticket.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk.Seq != 0 && tk.Seq == t.seq
}

// Cancel supersedes every outstanding ticket without issuing a new one.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
}
