// Package body chooses and applies the Content-Transfer-Encoding of email
// message bodies.
package body

import (
	"unicode/utf8"
)

// Content is a message body given either as text or as opaque bytes. Bytes
// are never assumed to be UTF-8, even when they happen to be valid.
type Content struct {
	data []byte
	text bool
}

// Text returns the Content of a text body.
func Text(s string) Content {
	return Content{data: []byte(s), text: true}
}

// Bytes returns the Content of an opaque body. b is not copied.
func Bytes(b []byte) Content {
	return Content{data: b}
}

func (c Content) Data() []byte {
	return c.data
}

func (c Content) Len() int {
	return len(c.data)
}

func (c Content) IsText() bool {
	return c.text
}

// Kind classifies the bytes of a body.
type Kind int

const (
	KindASCII Kind = iota
	KindUTF8
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindASCII:
		return "ascii"
	case KindUTF8:
		return "utf-8"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Kind returns KindASCII if every byte is below 0x80. Otherwise text that is
// valid UTF-8 is KindUTF8 and anything else is KindBinary.
func (c Content) Kind() Kind {
	for _, b := range c.data {
		if b >= utf8.RuneSelf {
			if c.text && utf8.Valid(c.data) {
				return KindUTF8
			}

			return KindBinary
		}
	}

	return KindASCII
}
