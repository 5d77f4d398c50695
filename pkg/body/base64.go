package body

import (
	"encoding/base64"
	"io"

	"github.com/emersion/go-textwrapper"
)

// MaxLineLen is the length of an encoded body line, CRLF excluded.
const MaxLineLen = 76

const crlfLen = len("\r\n")

// newBase64Writer encodes to w in base64, MaxLineLen characters per line.
// The line separator is only written when more data follows it.
func newBase64Writer(w io.Writer) io.WriteCloser {
	return base64.NewEncoder(base64.StdEncoding, textwrapper.New(w, "\r\n", MaxLineLen))
}

// EncodeBase64 writes b to w in base64, MaxLineLen characters per line.
// Lines are separated by CRLF, the last one is not terminated.
func EncodeBase64(b []byte, w io.Writer) error {
	wc := newBase64Writer(w)

	if _, err := wc.Write(b); err != nil {
		return err
	}

	return wc.Close()
}

// Base64EncodedLen returns the number of bytes EncodeBase64 writes for an
// input of n bytes.
func Base64EncodedLen(n int) int {
	encoded := base64.StdEncoding.EncodedLen(n)

	lines := encoded / MaxLineLen
	if lines > 0 && encoded%MaxLineLen == 0 {
		lines--
	}

	return encoded + lines*crlfLen
}
