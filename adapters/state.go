package adapters

// InitState is the network SDK initialization state for one adapter type.
//
// Uninitialized -> Initializing -> Initialized, or Initializing -> FailedInit. FailedInit may go
// back to Initializing on a later call. Initialized is terminal for the process.
type InitState int

const (
	StateUninitialized InitState = iota
	StateInitializing
	StateInitialized
	StateFailedInit
)

func (s InitState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateFailedInit:
		return "failed"
	}
	return "unknown"
}
