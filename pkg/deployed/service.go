package deployed

import (
	"context"
	"time"
)

// State codes reported for user services.
const (
	StateActive     = "A"
	StateBlocked    = "B"
	StateCanceled   = "C"
	StateError      = "E"
	StateFinished   = "F"
	StateInactive   = "I"
	StateCanceling  = "K"
	StateLaunching  = "L"
	StateRemoving   = "M"
	StatePreparing  = "P"
	StateRemovable  = "R"
	StateRemoved    = "S"
	StateUsable     = "U"
	StateRunning    = "W"
	StateForExecute = "X"
)

// stateWaitingOS is the composite key of a usable service whose OS is still
// being prepared.
const stateWaitingOS = StateUsable + "/" + StatePreparing

// StateNames maps state codes to display names. It backs the dict column of
// the state field.
func StateNames() map[string]string {
	return map[string]string{
		StateActive:     "Active",
		StateBlocked:    "Blocked",
		StateCanceled:   "Canceled",
		StateError:      "Error",
		StateFinished:   "Finished",
		StateInactive:   "Inactive",
		StateCanceling:  "Canceling",
		StateLaunching:  "Launching",
		StateRemoving:   "Removing",
		StatePreparing:  "Preparing",
		StateRemovable:  "Removable",
		StateRemoved:    "Removed",
		StateUsable:     "Valid",
		StateRunning:    "Running",
		StateForExecute: "Waiting execution",
		stateWaitingOS:  "Waiting OS",
	}
}

// StateKey combines the service and OS states into the key looked up in
// StateNames.
func StateKey(state, osState string) string {
	if state == StateUsable && osState == StatePreparing {
		return stateWaitingOS
	}
	return state
}

// UserService is one user service of a deployed service. CacheLevel is only
// set for cached services; Owner and InUse only for assigned ones.
type UserService struct {
	ID           string
	UniqueID     string
	FriendlyName string
	Revision     string
	CreationDate time.Time
	State        string
	OSState      string
	StateDate    time.Time
	CacheLevel   string
	Owner        string
	InUse        bool
}

// Service is the collaborator the panel reads from and acts on.
type Service interface {
	Cached(ctx context.Context) ([]UserService, error)
	Assigned(ctx context.Context) ([]UserService, error)
	Remove(ctx context.Context, ids []string) error
	// Error returns the error report of a user service in error state.
	Error(ctx context.Context, id string) (string, error)
}
