package optimistic

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeFavoriteWriter struct {
	addErr    error
	removeErr error
	adds      []string
	removes   []string
}

func (f *fakeFavoriteWriter) AddFavorite(_ context.Context, id string) error {
	f.adds = append(f.adds, id)
	return f.addErr
}

func (f *fakeFavoriteWriter) RemoveFavorite(_ context.Context, id string) error {
	f.removes = append(f.removes, id)
	return f.removeErr
}

func TestMutation_Lifecycle(t *testing.T) {
	applied, restored := false, false
	m := Begin(func() { applied = true }, func() { restored = true })

	if !applied {
		t.Fatal("Begin must apply the local change immediately")
	}
	if m.State() != Pending {
		t.Fatalf("expected Pending, got %s", m.State())
	}

	if err := m.Resolve(nil); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if m.State() != Committed {
		t.Fatalf("expected Committed, got %s", m.State())
	}
	if restored {
		t.Fatal("restore must not run on success")
	}
}

func TestMutation_FailureRestoresSnapshot(t *testing.T) {
	restored := false
	m := Begin(func() {}, func() { restored = true })

	remoteErr := errors.New("remote write failed")
	if err := m.Resolve(remoteErr); !errors.Is(err, remoteErr) {
		t.Fatalf("expected the remote error back, got %v", err)
	}
	if !restored {
		t.Fatal("restore must run on failure")
	}
	if m.State() != RolledBack {
		t.Fatalf("expected RolledBack, got %s", m.State())
	}
}

func TestMutation_DoubleResolveIsNoOp(t *testing.T) {
	restores := 0
	m := Begin(func() {}, func() { restores++ })

	m.Resolve(errors.New("first"))
	m.Resolve(errors.New("second"))

	if restores != 1 {
		t.Fatalf("restore ran %d times, want 1", restores)
	}
	if m.State() != RolledBack {
		t.Fatalf("expected RolledBack, got %s", m.State())
	}
}

func TestMutation_NilStateIsIdle(t *testing.T) {
	var m *Mutation
	if m.State() != Idle {
		t.Fatalf("expected Idle for nil mutation, got %s", m.State())
	}
}

func TestFavoriteSet_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	remote := &fakeFavoriteWriter{}
	set := NewFavoriteSet(true, []string{"seed-1"})

	if err := set.Toggle(ctx, "opp-1", remote); err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !set.Contains("opp-1") {
		t.Fatal("expected opp-1 favorited after first toggle")
	}
	if err := set.Toggle(ctx, "opp-1", remote); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if set.Contains("opp-1") {
		t.Fatal("expected opp-1 removed after second toggle")
	}

	if !reflect.DeepEqual(set.IDs(), []string{"seed-1"}) {
		t.Fatalf("double toggle must land on the original set, got %v", set.IDs())
	}
	if len(remote.adds) != 1 || len(remote.removes) != 1 {
		t.Fatalf("expected one add and one remove, got %d/%d", len(remote.adds), len(remote.removes))
	}
}

func TestFavoriteSet_FailedToggleRestoresMembership(t *testing.T) {
	ctx := context.Background()
	remote := &fakeFavoriteWriter{addErr: errors.New("boom")}
	set := NewFavoriteSet(true, []string{"seed-1"})
	before := set.IDs()

	err := set.Toggle(ctx, "opp-1", remote)
	if err == nil {
		t.Fatal("expected the remote error to surface")
	}

	if !reflect.DeepEqual(set.IDs(), before) {
		t.Fatalf("membership after failed toggle = %v, want %v", set.IDs(), before)
	}
	if set.LastMutation().State() != RolledBack {
		t.Fatalf("expected RolledBack, got %s", set.LastMutation().State())
	}
}

func TestFavoriteSet_UnauthenticatedRejectedBeforeAnyChange(t *testing.T) {
	ctx := context.Background()
	remote := &fakeFavoriteWriter{}
	set := NewFavoriteSet(false, nil)

	if err := set.Toggle(ctx, "opp-1", remote); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if set.Contains("opp-1") {
		t.Fatal("local state changed despite rejection")
	}
	if len(remote.adds) != 0 {
		t.Fatal("remote write issued despite rejection")
	}
	if set.LastMutation().State() != Idle {
		t.Fatalf("expected Idle, got %s", set.LastMutation().State())
	}
}

type fakeUpvoteWriter struct {
	err   error
	calls int
}

func (f *fakeUpvoteWriter) ToggleUpvote(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.err == nil, f.err
}

func TestUpvoteState_CounterAndFlagMoveTogether(t *testing.T) {
	ctx := context.Background()
	remote := &fakeUpvoteWriter{}
	u := NewUpvoteState(true, "post-1", 10, false)

	if err := u.Toggle(ctx, remote); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if u.Upvotes() != 11 || !u.HasUpvoted() {
		t.Fatalf("after upvote: count=%d flag=%v, want 11/true", u.Upvotes(), u.HasUpvoted())
	}

	if err := u.Toggle(ctx, remote); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if u.Upvotes() != 10 || u.HasUpvoted() {
		t.Fatalf("after un-upvote: count=%d flag=%v, want 10/false", u.Upvotes(), u.HasUpvoted())
	}
}

func TestUpvoteState_FailureRestoresBothValues(t *testing.T) {
	ctx := context.Background()
	remote := &fakeUpvoteWriter{err: errors.New("boom")}
	u := NewUpvoteState(true, "post-1", 10, false)

	if err := u.Toggle(ctx, remote); err == nil {
		t.Fatal("expected the remote error to surface")
	}
	if u.Upvotes() != 10 || u.HasUpvoted() {
		t.Fatalf("after failed toggle: count=%d flag=%v, want 10/false", u.Upvotes(), u.HasUpvoted())
	}
	if u.LastMutation().State() != RolledBack {
		t.Fatalf("expected RolledBack, got %s", u.LastMutation().State())
	}
}

func TestUpvoteState_UnauthenticatedRejected(t *testing.T) {
	ctx := context.Background()
	remote := &fakeUpvoteWriter{}
	u := NewUpvoteState(false, "post-1", 5, false)

	if err := u.Toggle(ctx, remote); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if u.Upvotes() != 5 || remote.calls != 0 {
		t.Fatal("state changed or remote called despite rejection")
	}
}
