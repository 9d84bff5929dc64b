package driven

import (
	"errors"
	"fmt"
)

// Degrade-path sentinels. Adapters wrap these so the application layer can
// classify a failure without knowing which upstream produced it.
var (
	// ErrMissingCredential means a required secret was not configured.
	ErrMissingCredential = errors.New("credential not configured")

	// ErrShapeMismatch means the upstream payload decoded but lacked expected fields.
	ErrShapeMismatch = errors.New("unexpected response shape")

	// ErrEmptyResult means the upstream answered with a valid but empty result set.
	ErrEmptyResult = errors.New("empty result")

	// ErrNothingPlaying means Spotify reported no active playback (204 or no item).
	ErrNothingPlaying = errors.New("nothing currently playing")
)

// StatusError reports a non-success HTTP status from an upstream endpoint.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.Status)
}
