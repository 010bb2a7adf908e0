package graphlink

import (
	"context"
	"time"
)

// RequestEvent describes a call about to be dispatched.
type RequestEvent struct {
	ID            string
	Kind          string
	OperationName string
}

// ResponseEvent describes a finished call.
type ResponseEvent struct {
	ID            string
	Kind          string
	OperationName string
	Duration      time.Duration
	// ErrorCount is the number of GraphQL errors inside the result.
	// Transport-level failures set TransportError instead.
	ErrorCount     int
	TransportError bool
	FromCache      bool
	CacheWritten   bool
}

// Hooks receive lifecycle events from a Client. Nil callbacks are skipped.
// Hooks run synchronously on the calling goroutine, so keep them fast.
type Hooks struct {
	OnRequest  func(context.Context, RequestEvent)
	OnResponse func(context.Context, ResponseEvent)
}
