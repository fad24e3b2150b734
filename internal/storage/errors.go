package storage

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrConnect marks failures to establish a connection
var ErrConnect = errors.New("connection failed")

// ConnectReason is a coarse cause of a connection failure
type ConnectReason string

const (
	ReasonNetwork     ConnectReason = "network"
	ReasonTimeout     ConnectReason = "timeout"
	ReasonUnavailable ConnectReason = "unavailable"
	ReasonAuth        ConnectReason = "auth"
	ReasonDatabase    ConnectReason = "database"
	ReasonUnknown     ConnectReason = "unknown"
)

// ConnectError wraps a driver error raised while establishing a connection.
type ConnectError struct {
	Reason ConnectReason
	Err    error
}

// NewConnectError returns a ConnectError for err.
func NewConnectError(reason ConnectReason, err error) *ConnectError {
	return &ConnectError{Reason: reason, Err: err}
}

func (e *ConnectError) Error() string {
	return e.Err.Error()
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConnect) hold for every ConnectError.
func (e *ConnectError) Is(target error) bool {
	return target == ErrConnect
}

// IsConnectError returns true if the error is a connection establishment error
func IsConnectError(err error) bool {
	return errors.Is(err, ErrConnect)
}

// ReasonOf returns the reason recorded on a ConnectError in err's chain.
func ReasonOf(err error) ConnectReason {
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ReasonUnknown
}

// ClassifyNetError covers the transport failures every networked driver shares.
func ClassifyNetError(err error) (ConnectReason, bool) {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout, true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonUnavailable, true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonNetwork, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ReasonTimeout, true
		}
		return ReasonNetwork, true
	}
	return "", false
}
