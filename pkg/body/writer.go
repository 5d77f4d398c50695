package body

import (
	"fmt"
	"io"
	"mime/quotedprintable"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// NewWriter returns a writer applying enc to a text body written to it.
// Close must be called to flush the last line.
//
// 7bit and 8bit are written as is: they are only suitable for content the
// chooser accepted for them.
func NewWriter(enc Encoding, w io.Writer) (io.WriteCloser, error) {
	return newWriter(enc, w, false)
}

func newWriter(enc Encoding, w io.Writer, binary bool) (io.WriteCloser, error) {
	switch enc {
	case SevenBit, EightBit:
		return nopCloser{w}, nil
	case QuotedPrintable:
		qp := quotedprintable.NewWriter(w)
		qp.Binary = binary

		return qp, nil
	case Base64:
		return newBase64Writer(w), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
	}
}

// Encode writes c to w with the given encoding. Opaque bytes encoded as
// quoted-printable get their line breaks escaped too, so that they are
// restored exactly.
func Encode(enc Encoding, c Content, w io.Writer) error {
	if enc == Base64 {
		return EncodeBase64(c.data, w)
	}

	wc, err := newWriter(enc, w, !c.text)
	if err != nil {
		return err
	}

	if _, err := wc.Write(c.data); err != nil {
		return fmt.Errorf("writing %s body: %w", enc, err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("writing %s body: %w", enc, err)
	}

	return nil
}
