// Package ucdef defines the use case contracts served by the transport layer.
package ucdef

import "context"

// UserAction is a synchronous operation requested by a client, such as creating a
// resident. The caller waits for its result; errors are returned to the client.
//
// I is the validated request and O the response.
type UserAction[I, O any] interface {
	// OperationID returns a unique identifier for the use case, e.g. "residents.create".
	OperationID() string

	// Execute executes the use case.
	Execute(ctx context.Context, in I) (O, error)
}

// WrapFunc decorates a UserAction with a cross-cutting concern.
type WrapFunc[I, O any] func(UserAction[I, O]) UserAction[I, O]

// Wrap applies wraps to ua. The first wrap is the outermost.
func Wrap[I, O any](ua UserAction[I, O], wraps ...WrapFunc[I, O]) UserAction[I, O] {
	for i := len(wraps) - 1; i >= 0; i-- {
		ua = wraps[i](ua)
	}
	return ua
}
