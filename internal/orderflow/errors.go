package orderflow

import "fmt"

// InvalidTransitionError is returned when a requested status is not in
// the allowed set for the order's current status. The order is never
// mutated when this is returned.
type InvalidTransitionError struct {
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.Current, e.Requested)
}

// NotifyError wraps a notifier failure after a transition has already
// been applied. The status change stands; only the notification failed.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("status changed but notification failed: %v", e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
