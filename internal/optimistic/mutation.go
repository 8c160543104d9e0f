// Package optimistic implements the local-first mutation pattern used by
// favorites and blog upvotes: apply the change to the locally rendered
// state immediately, issue the remote write, and restore the snapshot if
// the write fails. The revert path lives in the state machine, not at
// each call site.
package optimistic

import "errors"

// ErrNotAuthenticated rejects a mutation before any local state changes.
// Callers redirect to sign-in.
var ErrNotAuthenticated = errors.New("authentication required")

// State of a single mutation.
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	}
	return "unknown"
}

// Mutation tracks one optimistic update from local apply to remote
// resolution. While Pending, local state may diverge from the server;
// only a successful Resolve confirms persistence.
type Mutation struct {
	state   State
	restore func()
}

// Begin applies the local change and captures the restore path. The
// returned mutation is Pending until resolved exactly once.
func Begin(apply, restore func()) *Mutation {
	apply()
	return &Mutation{state: Pending, restore: restore}
}

// Resolve finishes the mutation with the remote write's outcome. On
// error the snapshot is restored and the error passed through; resolving
// twice is a no-op.
func (m *Mutation) Resolve(err error) error {
	if m.state != Pending {
		return err
	}
	if err != nil {
		m.restore()
		m.state = RolledBack
		return err
	}
	m.state = Committed
	return nil
}

// State reports where the mutation is in its lifecycle.
func (m *Mutation) State() State {
	if m == nil {
		return Idle
	}
	return m.state
}
