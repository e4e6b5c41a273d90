package domain

import "time"

// FailureKind classifies why an upstream fetch failed.
type FailureKind int

const (
	// FailureUpstream means the exchange was reachable but returned a
	// non-200 status or a body without a usable price.
	FailureUpstream FailureKind = iota
	// FailureInternal covers everything else: connect/request timeouts,
	// transport errors, malformed bodies that fail to parse at all.
	FailureInternal
)

// FetchError is the classified failure of one upstream fetch. Callers
// switch on Kind via errors.As rather than on concrete error types.
// Status, Latency and RawBody are only meaningful for FailureUpstream.
type FetchError struct {
	Kind    FailureKind
	Message string
	Status  int
	Latency time.Duration
	RawBody string
}

func (e *FetchError) Error() string { return e.Message }
