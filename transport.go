package ninep

import (
	"context"
	"net"
	"time"

	"aqwari.net/retry"
)

// dial resolves cfg.Host and connects to the first resolved address
// that accepts a TCP connection, per spec §6 ("dual-stack socket with
// IPV6_V6ONLY disabled... the first address that accepts a connection
// wins"). Go's net package resolves both A and AAAA records for a bare
// "tcp" network and a net.Dialer is dual-stack by default, so a single
// DialContext per candidate address is sufficient; the manual loop
// below tries the candidates in order, logging each one's failure, and
// returns only the last failure if none accepts, as spec §6 implies
// with "first ... wins".
func dial(ctx context.Context, cfg Config) (net.Conn, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, cfg.Host)
	if err != nil {
		return nil, &netError{op: "resolve", err: err}
	}
	if len(addrs) == 0 {
		return nil, &netError{op: "resolve", err: ErrConnectFailed}
	}

	d := net.Dialer{Timeout: cfg.Timeout}
	var lastErr error
	for _, addr := range addrs {
		conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(addr, cfg.service()))
		if err == nil {
			return conn, nil
		}
		lastErr = err
		cfg.logf("9p: connect to %s failed: %v", addr, err)
	}
	return nil, &netError{op: "connect", err: lastErr}
}

type netError struct {
	op  string
	err error
}

func (e *netError) Error() string { return "9p: " + e.op + ": " + e.err.Error() }
func (e *netError) Unwrap() error { return e.err }

// DialRetry behaves like Dial, but retries a failed initial connection
// with exponential backoff (1ms up to 1s, matching the teacher's
// Accept-retry loop in server.go) up to maxAttempts times before
// giving up. It supplements spec.md: the original 9p-dokany client
// retries its initial connect this way so a mount started just before
// the server is listening does not hard-fail (see SPEC_FULL.md,
// "Reconnect helper").
func DialRetry(ctx context.Context, cfg Config, maxAttempts int) (*Session, error) {
	backoff := retry.Exponential(time.Millisecond).Max(time.Second)
	var lastErr error
	for try := 0; try < maxAttempts; try++ {
		sess, err := Dial(ctx, cfg)
		if err == nil {
			return sess, nil
		}
		lastErr = err
		if try == maxAttempts-1 {
			break
		}
		wait := backoff(try + 1)
		cfg.logf("9p: dial attempt %d failed: %v; retrying in %v", try+1, err, wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}
