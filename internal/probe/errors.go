package probe

import "errors"

// Kind classifies a failed probe run
type Kind int

const (
	// KindOperational means the initial connection could not be established.
	KindOperational Kind = iota + 1
	// KindGeneric covers every other failure during the run.
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindOperational:
		return "operational"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Error is the failure half of a probe result.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func operational(err error) *Error {
	return &Error{Kind: KindOperational, Err: err}
}

func generic(err error) *Error {
	return &Error{Kind: KindGeneric, Err: err}
}

// KindOf returns the kind of the probe error in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
