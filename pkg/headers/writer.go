// Package headers implements the encoders used to write email header values:
// RFC 2047 encoded-words, RFC 2231 parameter continuations and RFC 822
// quoted-strings.
//
// Every encoder writes through a Writer, which keeps track of the length of
// the current line so that the output can be folded before it grows past
// MaxLineLen.
package headers

import (
	"errors"
)

// MaxLineLen is the line length the encoders keep to.
const MaxLineLen = 76

const crlf = "\r\n"

var ErrBreakpointPending = errors.New("an optional breakpoint is already pending")

// Sink is the destination of a Writer. It is satisfied by *strings.Builder,
// *bytes.Buffer and *bufio.Writer.
type Sink interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

// Writer writes header content to a Sink while tracking the length of the
// current line.
//
// Spaces and breakpoints are deferred: nothing is written for them until
// the next non-space write, so that a fold can take their place. Close must
// be called once the header value is complete to flush the spaces that are
// still pending.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	sink       Sink
	lineLen    int
	spaces     int
	breakpoint bool
	canFold    bool
}

// NewWriter returns a Writer appending to sink. lineLen is the number of
// bytes already present on the current line (the header name, usually).
// Folding is only allowed once the line holds some content.
func NewWriter(sink Sink, lineLen int) *Writer {
	return &Writer{
		sink:    sink,
		lineLen: lineLen,
		canFold: lineLen > 0,
	}
}

// WriteString writes s after flushing the pending spaces. A pending
// breakpoint is dropped since it was not needed.
func (w *Writer) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	if err := w.flushSpaces(); err != nil {
		return 0, err
	}

	w.breakpoint = false

	n, err := w.sink.WriteString(s)
	w.lineLen += n

	if err != nil {
		return n, err
	}

	w.canFold = true

	return n, nil
}

// WriteByte writes a single byte. A space is buffered like Space does.
func (w *Writer) WriteByte(c byte) error {
	if c == ' ' {
		w.Space()
		return nil
	}

	if err := w.flushSpaces(); err != nil {
		return err
	}

	w.breakpoint = false

	if err := w.sink.WriteByte(c); err != nil {
		return err
	}

	w.lineLen++
	w.canFold = true

	return nil
}

// Space buffers a space. It is written before the next content, either on
// this line or at the start of the next one if a fold happens first.
func (w *Writer) Space() {
	w.spaces++
}

// Breakpoint registers a place where the line may be folded. Nothing is
// written for it unless a fold happens there, in which case the new line
// starts with a single space.
func (w *Writer) Breakpoint() {
	if w.breakpoint {
		panic(ErrBreakpointPending)
	}

	w.breakpoint = true
}

// Fold ends the current line. Pending spaces and breakpoint are discarded
// and no further fold is allowed until some content is written.
func (w *Writer) Fold() error {
	if _, err := w.sink.WriteString(crlf); err != nil {
		return err
	}

	w.lineLen = 0
	w.canFold = false
	w.ForgetSpaces()

	return nil
}

// ForgetSpaces discards the pending spaces and breakpoint.
func (w *Writer) ForgetSpaces() {
	w.spaces = 0
	w.breakpoint = false
}

// LineLen returns the number of bytes written on the current line.
func (w *Writer) LineLen() int {
	return w.lineLen
}

// ProjectedLineLen returns the length the current line would have once the
// pending spaces and breakpoint are written out.
func (w *Writer) ProjectedLineLen() int {
	n := w.lineLen + w.spaces
	if w.breakpoint {
		n++
	}

	return n
}

// CanFold reports whether a fold may happen before the next write: the
// line must hold some content and there must be a pending space or
// breakpoint to fold at.
func (w *Writer) CanFold() bool {
	return w.canFold && (w.spaces > 0 || w.breakpoint)
}

// Folding returns a view of w that folds at spaces when a word would not fit
// on the current line.
func (w *Writer) Folding() *FoldingWriter {
	return &FoldingWriter{w: w}
}

// Close flushes the pending spaces. A pending breakpoint is dropped.
func (w *Writer) Close() error {
	w.breakpoint = false
	return w.flushSpaces()
}

// foldAtSeparator folds in place of the pending whitespace. The spaces are
// carried to the new line (at least one, so that the fold stays a valid
// folding whitespace), a lone breakpoint turns into a single space.
func (w *Writer) foldAtSeparator() error {
	spaces := max(w.spaces, 1)

	if err := w.Fold(); err != nil {
		return err
	}

	w.spaces = spaces

	return nil
}

func (w *Writer) flushSpaces() error {
	for w.spaces > 0 {
		if err := w.sink.WriteByte(' '); err != nil {
			return err
		}

		w.spaces--
		w.lineLen++
	}

	return nil
}
