package optimistic

import "context"

// UpvoteWriter performs the server-side toggle: interaction upsert plus
// counter adjustment in one transaction. It reports the resulting flag.
type UpvoteWriter interface {
	ToggleUpvote(ctx context.Context, postID string) (upvoted bool, err error)
}

// UpvoteState mirrors one blog post's aggregate upvote counter together
// with the session user's own flag. The counter and the flag always move
// in the same local update, by exactly one.
type UpvoteState struct {
	authenticated bool
	postID        string
	upvotes       int
	hasUpvoted    bool
	last          *Mutation
}

// NewUpvoteState seeds the local view from the fetched post.
func NewUpvoteState(authenticated bool, postID string, upvotes int, hasUpvoted bool) *UpvoteState {
	return &UpvoteState{
		authenticated: authenticated,
		postID:        postID,
		upvotes:       upvotes,
		hasUpvoted:    hasUpvoted,
	}
}

// Upvotes is the locally rendered aggregate counter.
func (u *UpvoteState) Upvotes() int { return u.upvotes }

// HasUpvoted is the session user's locally rendered flag.
func (u *UpvoteState) HasUpvoted() bool { return u.hasUpvoted }

// Toggle flips the flag and moves the counter by ±1 in one local update,
// then issues the remote toggle. On failure both values are restored
// from the same snapshot, so the flag and the counter can never drift
// apart locally.
func (u *UpvoteState) Toggle(ctx context.Context, remote UpvoteWriter) error {
	if !u.authenticated {
		return ErrNotAuthenticated
	}

	prevCount, prevFlag := u.upvotes, u.hasUpvoted
	m := Begin(
		func() {
			if prevFlag {
				u.upvotes--
			} else {
				u.upvotes++
			}
			u.hasUpvoted = !prevFlag
		},
		func() {
			u.upvotes = prevCount
			u.hasUpvoted = prevFlag
		},
	)
	u.last = m

	_, err := remote.ToggleUpvote(ctx, u.postID)
	return m.Resolve(err)
}

// LastMutation exposes the most recent toggle's lifecycle.
func (u *UpvoteState) LastMutation() *Mutation {
	return u.last
}
