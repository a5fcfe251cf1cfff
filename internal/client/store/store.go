// Package store holds the client-side mirrors of server state: one store
// per API slice, each replacing its collection wholesale on fetch and
// patching single elements locally after mutations so a full refetch is
// avoided. The server stays the source of truth; no referential integrity
// is enforced between stores.
package store

import "context"

// ProfileRefresher is the slice of the session store that score- and
// team-changing actions call afterward. The refresh is best-effort and
// independent of the action that triggered it.
type ProfileRefresher interface {
	RefreshUserProfile(ctx context.Context)
}
