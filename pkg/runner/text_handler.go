package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// TextHandler implements the interactive terminal interface.
//
// Input comes either from its own reader, pumped in the background, or from
// FeedInput when something else (an interactive lifecycle router) owns the
// terminal.
type TextHandler struct {
	source      io.Reader
	interactive bool // reading a real terminal, where EOF may only mean an interrupted read
	external    bool // input arrives through FeedInput only
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithExternalInput disables the reader pump. Replies must be delivered
// with FeedInput.
func WithExternalInput() TextHandlerOption {
	return func(h *TextHandler) {
		h.external = true
	}
}

// NewTextHandler creates a handler for standard text IO. A terminal reader is
// upgraded through lifecycle so reads survive interrupt signals.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer:    w,
		inputChan: make(chan inputResult, 1),
		done:      make(chan struct{}),
	}
	h.source, h.interactive = resolveInputReader(r)
	h.Reader = bufio.NewReader(h.source)

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// resolveInputReader returns the platform terminal reader when r is a
// terminal, and r otherwise.
func resolveInputReader(r io.Reader) (io.Reader, bool) {
	if upgraded, err := lifecycle.UpgradeTerminal(r); err == nil && upgraded != r {
		return upgraded, true
	}
	return r, false
}

// initPump starts the reader goroutine once. Reads happen in the background
// so Input can return as soon as ctx is done.
func (h *TextHandler) initPump() {
	if h.external {
		return
	}
	h.startOnce.Do(func() {
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" && !h.send(inputResult{text: text}) {
			return
		}
		if err == nil {
			continue
		}
		if err == io.EOF && !h.interactive {
			// Every later Input sees EOF too, until Close.
			for h.send(inputResult{err: io.EOF}) {
			}
			return
		}
		if !h.send(inputResult{err: err}) {
			return
		}
		// An interrupted terminal read may report EOF repeatedly while Ctrl+C is held.
		time.Sleep(50 * time.Millisecond)
	}
}

// send delivers one result unless the handler was closed.
func (h *TextHandler) send(res inputResult) bool {
	select {
	case h.inputChan <- res:
		return true
	case <-h.done:
		return false
	}
}

// FeedInput delivers a reply as if it had been typed. A non-nil err is
// returned by the next Input call instead of a reply.
func (h *TextHandler) FeedInput(text string, err error) {
	h.send(inputResult{text: text, err: err})
}

// Close stops the reader pump. Pending and future FeedInput calls are dropped.
func (h *TextHandler) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

// Output renders the frame content and prints the prompt below it.
func (h *TextHandler) Output(ctx context.Context, frame Frame) error {
	output := frame.Content
	if h.Renderer != nil && frame.Content != "" {
		if rendered, err := h.Renderer(frame.Content); err == nil {
			output = rendered
		}
	}
	if output = strings.TrimRight(output, "\n"); output != "" {
		if _, err := fmt.Fprintln(h.Writer, output); err != nil {
			return err
		}
	}
	if frame.Prompt != "" {
		_, err := fmt.Fprintln(h.Writer, frame.Prompt)
		return err
	}
	return nil
}

// Input prints the "> " marker and waits for one sanitized line.
// Lines failing sanitization are reported and asked again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-h.done:
			return "", io.EOF
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-h.done:
			return "", io.EOF
		case res := <-h.inputChan:
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a notice on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n! %s\n", msg)
	return err
}
