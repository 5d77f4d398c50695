package body

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEncoding = errors.New("unknown transfer encoding")

// Encoding is a Content-Transfer-Encoding.
type Encoding int

const (
	SevenBit Encoding = iota
	EightBit
	QuotedPrintable
	Base64
)

// String returns the value of the Content-Transfer-Encoding header.
func (e Encoding) String() string {
	switch e {
	case SevenBit:
		return "7bit"
	case EightBit:
		return "8bit"
	case QuotedPrintable:
		return "quoted-printable"
	case Base64:
		return "base64"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding is the reverse of Encoding.String. Header values are case
// insensitive.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "7bit":
		return SevenBit, nil
	case "8bit":
		return EightBit, nil
	case "quoted-printable":
		return QuotedPrintable, nil
	case "base64":
		return Base64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}
