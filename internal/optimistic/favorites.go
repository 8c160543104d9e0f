package optimistic

import (
	"context"
	"sort"
)

// FavoriteWriter issues the authoritative add/remove against the
// interaction store.
type FavoriteWriter interface {
	AddFavorite(ctx context.Context, opportunityID string) error
	RemoveFavorite(ctx context.Context, opportunityID string) error
}

// FavoriteSet is the locally rendered favorite membership for one
// session. It is a cache of server state, never the authority.
type FavoriteSet struct {
	authenticated bool
	ids           map[string]bool
	last          *Mutation
}

// NewFavoriteSet seeds the set with the ids fetched at sign-in. An
// unauthenticated session gets an empty set that rejects every toggle.
func NewFavoriteSet(authenticated bool, ids []string) *FavoriteSet {
	s := &FavoriteSet{
		authenticated: authenticated,
		ids:           make(map[string]bool, len(ids)),
	}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

// Contains reports local membership. While a toggle is pending this may
// be ahead of the server.
func (s *FavoriteSet) Contains(id string) bool {
	return s.ids[id]
}

// IDs returns the current membership, sorted for stable rendering.
func (s *FavoriteSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id, ok := range s.ids {
		if ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Toggle flips membership locally, issues the matching remote write, and
// restores the previous membership if the write fails. Unauthenticated
// sessions are rejected before any state changes.
func (s *FavoriteSet) Toggle(ctx context.Context, id string, remote FavoriteWriter) error {
	if !s.authenticated {
		return ErrNotAuthenticated
	}

	was := s.ids[id]
	m := Begin(
		func() { s.ids[id] = !was },
		func() { s.ids[id] = was },
	)
	s.last = m

	var err error
	if was {
		err = remote.RemoveFavorite(ctx, id)
	} else {
		err = remote.AddFavorite(ctx, id)
	}
	return m.Resolve(err)
}

// LastMutation exposes the most recent toggle's lifecycle.
func (s *FavoriteSet) LastMutation() *Mutation {
	return s.last
}
