package session

import (
	"bufio"
	"context"
	"errors"
	"io"
)

// waitForEnter blocks until a line (or EOF) is read from in, or ctx is done.
// On ctx cancellation the reader goroutine stays blocked on in; the process
// is about to move on and never reads in again.
func waitForEnter(ctx context.Context, in io.Reader) error {
	lineRead := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(in).ReadString('\n')
		lineRead <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-lineRead:
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}
