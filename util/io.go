package util

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
)

// CopyStats counts the bytes moved in each direction of a relayed
// session. A nil *CopyStats is a valid no-op receiver.
type CopyStats struct {
	received atomic.Int64 // relay → client
	sent     atomic.Int64 // client → relay
}

func (s *CopyStats) addReceived(n int64) {
	if s != nil {
		s.received.Add(n)
	}
}

func (s *CopyStats) addSent(n int64) {
	if s != nil {
		s.sent.Add(n)
	}
}

// Received returns total bytes copied from the remote side.
func (s *CopyStats) Received() int64 {
	if s == nil {
		return 0
	}
	return s.received.Load()
}

// Sent returns total bytes copied to the remote side.
func (s *CopyStats) Sent() int64 {
	if s == nil {
		return 0
	}
	return s.sent.Load()
}

// BidirectionalCopy shuttles data between a remote connection and a
// local reader/writer pair until one side reaches EOF or the context is
// cancelled. Byte totals are recorded in stats when non-nil.
func BidirectionalCopy(ctx context.Context, conn net.Conn, r io.Reader, w io.Writer, stats *CopyStats) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	// remote → local
	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := copyBuffered(w, conn)
		stats.addReceived(n)
		errCh <- err
		cancel()
	}()

	// local → remote
	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := copyBuffered(conn, r)
		stats.addSent(n)
		// Half-close the write side so the remote knows we are done
		// sending, but keep reading to drain whatever is left.
		if tc, ok := conn.(*net.TCPConn); ok {
			tc.CloseWrite() //nolint:errcheck
		}
		errCh <- err
		if err != nil {
			cancel()
		}
	}()

	<-ctx.Done()
	conn.Close() // unblock pending reads/writes
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil && !isHarmless(err) {
			return err
		}
	}
	return nil
}

func copyBuffered(dst io.Writer, src io.Reader) (int64, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)
	return io.CopyBuffer(dst, src, *buf)
}

// isHarmless reports errors that are expected during shutdown.
func isHarmless(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return false
}
