package webclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Fetch failure taxonomy. These cover network-level failures only: any HTTP
// status from a reachable server is a valid fetch result, not an error.
var (
	ErrConnectionRefused = errors.New("connection refused")
	ErrHostNotFound      = errors.New("host not found")
	ErrTimeout           = errors.New("request timed out")
)

// RemoteHTTPError is reserved for the case where no connection could be
// established at all after exhausting fallback, yet the failure carried an
// HTTP shape (e.g. a proxy answering for an unreachable upstream).
type RemoteHTTPError struct {
	Status     int
	StatusText string
}

func (e *RemoteHTTPError) Error() string {
	return fmt.Sprintf("remote http error: %d %s", e.Status, e.StatusText)
}

// ClassifyNetError maps a transport error onto the taxonomy, keeping the
// original message for diagnostics. errors.Is/As walk wrapped chains, so
// url.Error and net.OpError wrappers are handled transparently. Non-network
// errors pass through unchanged.
func ClassifyNetError(err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrHostNotFound, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %v", ErrConnectionRefused, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return err
}
