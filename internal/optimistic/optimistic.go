// Package optimistic implements the apply-locally, confirm-with-server,
// roll-back-on-failure pattern used for admin product edits and cart
// mutations that must survive a reload.
package optimistic

import "context"

// Mutation bundles the phases of one optimistic update over local state
// of type S.
//
// Snapshot captures the pre-mutation state and is only consulted when
// Rollback is set (a create/update that refreshes from the server needs
// no pre-image). Remote's error is propagated to the caller untouched so
// typed API errors survive; this coordinator never retries, and applies
// at most one rollback per failed attempt. OnSuccess, when set, runs
// after confirmation - typically a "products changed" broadcast so other
// open views refetch.
type Mutation[S any] struct {
	Snapshot  func() S
	Apply     func()
	Remote    func(ctx context.Context) error
	Rollback  func(snapshot S)
	OnSuccess func()
}

// Run executes the mutation. Two concurrent Runs against the same entity
// are not serialized here; the last confirmation wins, as it does in the
// storefront UI.
func Run[S any](ctx context.Context, m Mutation[S]) error {
	var snapshot S
	if m.Snapshot != nil && m.Rollback != nil {
		snapshot = m.Snapshot()
	}
	if m.Apply != nil {
		m.Apply()
	}
	if err := m.Remote(ctx); err != nil {
		if m.Rollback != nil {
			m.Rollback(snapshot)
		}
		return err
	}
	if m.OnSuccess != nil {
		m.OnSuccess()
	}
	return nil
}
