package messaging

import (
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestNewNatsServer_Opts(t *testing.T) {
	tests := map[string]struct {
		opts       []NatsServerOpt
		expHost    string
		expPort    int
		expTimeout time.Duration
	}{
		"defaults": {
			expHost:    "127.0.0.1",
			expTimeout: 10 * time.Second,
		},
		"configured": {
			opts:       []NatsServerOpt{WithHost("0.0.0.0"), WithPort(-1), WithStartTimeout(time.Second)},
			expHost:    "0.0.0.0",
			expPort:    -1,
			expTimeout: time.Second,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := NewNatsServer(tt.opts...)
			if err != nil {
				t.Fatalf("creating server: %v", err)
			}

			testutil.AssertEqual(t, "host", s.host, tt.expHost)
			testutil.AssertEqual(t, "port", s.port, tt.expPort)
			testutil.AssertEqual(t, "timeout", s.startupTimeout, tt.expTimeout)
			testutil.AssertEqual(t, "publish before start", errors.Is(s.Publish("x", nil), ErrNotStarted), true)
		})
	}
}
