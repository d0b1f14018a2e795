package stream

import (
	"bufio"
	"fmt"
)

// WriteSSE renders one event in Server-Sent Events framing and flushes it,
// so deltas reach the client without waiting for the buffer to fill.
func WriteSSE(w *bufio.Writer, event Event) error {
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal sse event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "id: %d\ndata: %s\n\n", event.Seq, data); err != nil {
		return err
	}
	return w.Flush()
}

// WriteSSEDone writes the terminator frame clients use to tear down the
// EventSource cleanly.
func WriteSSEDone(w *bufio.Writer) error {
	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
