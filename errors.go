package graphlink

import (
	"errors"

	"github.com/perihelia/graphlink/transport"
)

// Construction failures are tagged with the stage that failed; the underlying
// cause is wrapped and reachable through errors.Is and errors.Unwrap.
var (
	// ErrCacheInit tags a failure building or adopting the cache store.
	ErrCacheInit = errors.New("graphlink: cache init")
	// ErrTransportInit tags a failure building the transport link, an
	// invalid endpoint URI included.
	ErrTransportInit = errors.New("graphlink: transport init")
	// ErrEngineBind tags a failure binding cache and transport into the
	// engine.
	ErrEngineBind = errors.New("graphlink: engine bind")
)

// Error and Errors are the GraphQL error shapes carried in results and, for
// transport-level failures, in returned errors.
type (
	Error  = transport.Error
	Errors = transport.Errors
)
