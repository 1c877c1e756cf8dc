package source

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed fetch. A successful fetch with zero rows is not
// an error.
type Kind int

const (
	NetworkFailure Kind = iota + 1
	ParseFailure
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ParseFailure:
		return "parse failure"
	default:
		return "unknown failure"
	}
}

type FetchError struct {
	Kind    Kind
	Backend string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a FetchError of kind k.
func IsKind(err error, k Kind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == k
}

type freshKey struct{}

// WithFresh marks ctx so cached getters go to the upstream instead of
// serving a stored payload.
func WithFresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func isFresh(ctx context.Context) bool {
	v, _ := ctx.Value(freshKey{}).(bool)
	return v
}
