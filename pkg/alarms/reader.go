package alarms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is how long a single channel read may take.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a channel could not be read in time.
var ErrTimeout = errors.New("channel access timeout")

// A ChannelReader reads the value of a channel as a string.
type ChannelReader interface {
	Get(ctx context.Context, channel string) (string, error)
}

// CagetReader reads channels by running the EPICS caget command line client.
// Each read opens and clears its own connection, which keeps the load on the
// IOCs low.
type CagetReader struct {
	// Path to the caget executable; "caget" from PATH when empty.
	Path    string
	Timeout time.Duration
}

func (c CagetReader) Get(ctx context.Context, channel string) (string, error) {
	path := c.Path
	if path == "" {
		path = "caget"
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// caget enforces the timeout itself, the context only catches a client
	// that hangs.
	ctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-t", "-w", strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64), channel)
	cmd.Stderr = &stderr
	out, err := cmd.Output()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("reading %s: %w", channel, ErrTimeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// caget exits non-zero when the channel doesn't connect
			msg := strings.TrimSpace(stderr.String() + " " + string(out))
			return "", fmt.Errorf("reading %s: %s: %w", channel, msg, ErrTimeout)
		}
		return "", fmt.Errorf("running %s: %w", path, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// RLChannelReader is a rate limited ChannelReader.
type RLChannelReader struct {
	Reader      ChannelReader
	Ratelimiter *rate.Limiter
}

// Get waits for the rate limiter and reads the channel.
func (r *RLChannelReader) Get(ctx context.Context, channel string) (string, error) {
	if err := r.Ratelimiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.Reader.Get(ctx, channel)
}
