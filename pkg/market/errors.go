package market

import "errors"

// Sentinel error kinds, per §7. Propagated through the client handle and
// translated to gRPC status codes at the RPC boundary.
var (
	ErrInvalidConfiguration = errors.New("market: invalid configuration")
	ErrBootstrapFailed      = errors.New("market: bootstrap failed")
	ErrActorStopped         = errors.New("market: actor stopped")
	ErrUnavailable          = errors.New("market: unavailable")
	ErrUnknown              = errors.New("market: unknown")
	ErrInvalidArgument      = errors.New("market: invalid argument")
	ErrInternal             = errors.New("market: internal")
)
