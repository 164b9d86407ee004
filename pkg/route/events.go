package route

import "github.com/copperline/copperline/pkg/board"

// Event is the closed set of messages a routing run emits over its channel.
// A run emits zero or more Progress events followed by exactly one terminal
// event: Complete on normal termination or Failed when the run is cancelled
// or hits a fatal error. The compiler-visible variant set replaces the
// stringly-typed payloads of a message-loop boundary.
type Event interface {
	isEvent()
}

// Progress reports the state of the run after each connection attempt.
type Progress struct {
	Fraction float64 // completed fraction of all connections, in [0,1]
	Routed   int     // connections routed so far
	Failed   int     // connections that could not be routed so far
}

// Complete is the terminal event of a successful run.
type Complete struct {
	Result Result
}

// Failed is the terminal event of a cancelled or fatally errored run.
type Failed struct {
	Err error
}

func (Progress) isEvent() {}
func (Complete) isEvent() {}
func (Failed) isEvent()   {}

// Result is the outcome of a routing run. Failed connections are counted,
// never fatal: a partially routed board is still a valid result.
type Result struct {
	Tracks []board.Track `json:"tracks"`
	Routed int           `json:"routed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}
