package model

// EventKind classifies what happened during one step of a fetch.
type EventKind string

const (
	EventLive              EventKind = "live"
	EventMissingCredential EventKind = "missing_credential"
	EventTransportFailure  EventKind = "transport_failure"
	EventShapeMismatch     EventKind = "shape_mismatch"
	EventEmptyResult       EventKind = "empty_result"
	EventLadderTransition  EventKind = "ladder_transition"
)

// Integration names used in events and logs.
const (
	IntegrationGitHub     = "github"
	IntegrationSpotify    = "spotify"
	IntegrationMonkeytype = "monkeytype"
)

// FetchEvent is emitted to observers at each point where a fetch succeeds,
// degrades, or (for Spotify) moves between ladder states.
type FetchEvent struct {
	Kind         EventKind
	Integration  string
	Operation    string
	Target       string // Path, owner/repo, or ladder state; empty when not applicable.
	Err          error
	InvocationID string
	From, To     string // Ladder states for EventLadderTransition.
}
