package storage_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"dbprobe/internal/storage"
)

func TestConnectError(t *testing.T) {
	cause := errors.New("password authentication failed")
	err := fmt.Errorf("opening primary: %w", storage.NewConnectError(storage.ReasonAuth, cause))

	assert.True(t, storage.IsConnectError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, storage.ReasonAuth, storage.ReasonOf(err))
	assert.Equal(t, "opening primary: password authentication failed", err.Error())

	plain := errors.New("relation does not exist")
	assert.False(t, storage.IsConnectError(plain))
	assert.Equal(t, storage.ReasonUnknown, storage.ReasonOf(plain))
}

func TestClassifyNetError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   storage.ConnectReason
		wantOK bool
	}{
		{
			name:   "dns lookup",
			err:    &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "am.lan", IsNotFound: true}},
			want:   storage.ReasonNetwork,
			wantOK: true,
		},
		{
			name:   "connection refused",
			err:    &net.OpError{Op: "dial", Net: "tcp", Err: fmt.Errorf("connect: %w", syscall.ECONNREFUSED)},
			want:   storage.ReasonUnavailable,
			wantOK: true,
		},
		{
			name:   "deadline",
			err:    fmt.Errorf("pinging database: %w", context.DeadlineExceeded),
			want:   storage.ReasonTimeout,
			wantOK: true,
		},
		{
			name:   "not a network error",
			err:    errors.New("boom"),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := storage.ClassifyNetError(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
