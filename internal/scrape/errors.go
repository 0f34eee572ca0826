package scrape

import "fmt"

// ResolutionError indicates the account handle could not be mapped to a user
// ID, either because the lookup call failed or the account does not exist.
type ResolutionError struct {
	Handle string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving @%s: %v", e.Handle, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// FetchError indicates the recent-tweets listing call failed.
type FetchError struct {
	Handle string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching tweets for @%s: %v", e.Handle, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
