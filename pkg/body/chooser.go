package body

import (
	"bytes"

	log "github.com/sirupsen/logrus"
)

// Report holds what the chooser looks at to pick an encoding.
type Report struct {
	Kind Kind
	// LineTooLong is set when a line, the last one included, has MaxLineLen
	// bytes or more, not counting the newline.
	LineTooLong bool
	// NeedEscaping is the number of bytes quoted-printable has to escape.
	NeedEscaping int
	Len          int
}

// Inspect scans c once for each property of the Report.
func Inspect(c Content) Report {
	return Report{
		Kind:         c.Kind(),
		LineTooLong:  lineTooLong(c.data),
		NeedEscaping: countNeedEscaping(c.data),
		Len:          len(c.data),
	}
}

// QuotedPrintableEfficient reports whether quoted-printable would be more
// compact than base64: at most a third of the bytes need escaping.
func (r Report) QuotedPrintableEfficient() bool {
	return r.NeedEscaping <= r.Len/3
}

// Choose applies the decision table to the report.
//
//	kind    long lines  smtputf8  encoding
//	ascii   no          any       7bit
//	ascii   yes         any       quoted-printable or base64
//	utf-8   no          yes       8bit
//	utf-8   yes         yes       quoted-printable or base64
//	utf-8   any         no        quoted-printable or base64
//	binary  any         any       base64
func (r Report) Choose(supportsUTF8 bool) Encoding {
	switch {
	case r.Kind == KindBinary:
		return Base64
	case r.Kind == KindASCII && !r.LineTooLong:
		return SevenBit
	case r.Kind == KindUTF8 && !r.LineTooLong && supportsUTF8:
		return EightBit
	case r.QuotedPrintableEfficient():
		return QuotedPrintable
	default:
		return Base64
	}
}

// Choose returns the most efficient encoding able to represent c. The 8bit
// encoding is only picked when supportsUTF8 is set, which should be the case
// only if the server announced the SMTPUTF8 extension.
func Choose(c Content, supportsUTF8 bool) Encoding {
	r := Inspect(c)
	enc := r.Choose(supportsUTF8)

	log.Tracef("body: %d bytes, kind %s, long lines %t, %d to escape, smtputf8 %t: %s",
		r.Len, r.Kind, r.LineTooLong, r.NeedEscaping, supportsUTF8, enc)

	return enc
}

func lineTooLong(b []byte) bool {
	for len(b) > 0 {
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line = b[:i]
			b = b[i+1:]
		} else {
			b = nil
		}

		if len(line) >= MaxLineLen {
			return true
		}
	}

	return false
}

func countNeedEscaping(b []byte) int {
	n := 0

	for _, c := range b {
		if c != '\t' && (c < ' ' || c > '~') {
			n++
		}
	}

	return n
}
