package extractor

import (
	"fmt"
	"io"
	"time"
)

// stopTimeout bounds how long Stop waits for the indicator goroutine.
// A stalled indicator must never block run completion.
const stopTimeout = 2 * time.Second

// progress is a cosmetic spinner with no data dependency on the
// extraction itself.
type progress struct {
	stop chan struct{}
	done chan struct{}
}

// startProgress spins up the indicator goroutine. A nil writer yields
// an inert progress whose Stop is a no-op.
func startProgress(w io.Writer, label string, every time.Duration) *progress {
	p := &progress{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if w == nil {
		close(p.done)
		return p
	}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		frames := []string{"|", "/", "-", "\\"}
		i := 0
		for {
			select {
			case <-p.stop:
				fmt.Fprintf(w, "\r%s... done\n", label)
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s... %s", label, frames[i%len(frames)])
				i++
			}
		}
	}()
	return p
}

// Stop signals the goroutine and joins it with a bounded timeout.
func (p *progress) Stop() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	select {
	case <-p.done:
	case <-time.After(stopTimeout):
	}
}
