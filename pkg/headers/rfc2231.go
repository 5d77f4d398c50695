package headers

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

var (
	ErrInvalidParameterKey = errors.New("parameter key must only contain ASCII alphanumeric characters")
	ErrParameterKeyTooLong = errors.New("parameter key is too long to fit a continuation on a line")
)

// longestContinuationSyntax is the longest syntax a continuation adds
// around the key.
const longestContinuationSyntax = "*12*=utf-8'';"

// percentSegmentLimit is the line length after which a percent-encoded
// continuation is ended: past it, the next character and the trailing ';'
// might not fit.
const percentSegmentLimit = MaxLineLen - maxPercentEncodedLen - len(";"+crlf)

const charsetPrefix = "utf-8''"

type segmentMode int

const (
	segmentQuoted segmentMode = iota
	segmentPercent
)

// ParameterForm is the representation EncodeRFC2231 gives a parameter.
type ParameterForm int

const (
	// ParameterQuoted is a single key="value" on the current line.
	ParameterQuoted ParameterForm = iota
	// ParameterContinued is split in quoted key*N="..." continuations.
	ParameterContinued
	// ParameterPercent is split in key*N*=... continuations, percent-encoded
	// from the first one that holds a character outside the token set.
	ParameterPercent
)

func (f ParameterForm) String() string {
	switch f {
	case ParameterQuoted:
		return "quoted"
	case ParameterContinued:
		return "continuation"
	case ParameterPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// ChooseParameterForm returns the form EncodeRFC2231 uses to write key=value
// at the current position of w. Nothing is written.
func ChooseParameterForm(key string, value string, w *Writer) ParameterForm {
	if allBytes(value, isASCIIPrintable) &&
		w.ProjectedLineLen()+len(key)+len(`="`)+len(escapeQuoted(value))+len(`"`+crlf) <= MaxLineLen {
		return ParameterQuoted
	}

	if allBytes(value, isASCIIAlphanumericPlus) {
		return ParameterContinued
	}

	return ParameterPercent
}

// ValidateParameterKey checks that key can be given to EncodeRFC2231.
func ValidateParameterKey(key string) error {
	if key == "" || !allBytes(key, isASCIIAlphanumeric) {
		return fmt.Errorf("%w: %q", ErrInvalidParameterKey, key)
	}

	if len(key)+len(longestContinuationSyntax) >= MaxLineLen {
		return fmt.Errorf("%w: %q", ErrParameterKeyTooLong, key)
	}

	return nil
}

// EncodeRFC2231 writes the header parameter key=value.
//
// A printable ASCII value that fits on the current line is written as a
// single quoted-string. Otherwise the parameter is moved to a new line and
// split into RFC 2231 continuations (key*0, key*1, ...). Continuations are
// quoted while the rest of the value only holds token characters, and
// percent-encoded from then on, with the charset declared on key*0*.
//
// key must pass ValidateParameterKey, EncodeRFC2231 panics otherwise.
func EncodeRFC2231(key string, value string, w *Writer) error {
	if err := ValidateParameterKey(key); err != nil {
		panic(err)
	}

	if ChooseParameterForm(key, value, w) == ParameterQuoted {
		_, err := w.WriteString(key + `="` + escapeQuoted(value) + `"`)
		return err
	}

	if err := w.Fold(); err != nil {
		return err
	}

	mode := segmentQuoted

	for i := 0; ; i++ {
		if mode == segmentQuoted && !allBytes(value, isASCIIAlphanumericPlus) {
			mode = segmentPercent
		}

		w.Space()

		var err error

		switch mode {
		case segmentQuoted:
			value, err = writeQuotedSegment(w, key, i, value)
		case segmentPercent:
			value, err = writePercentSegment(w, key, i, value)
		}

		if err != nil {
			return err
		}

		if value == "" {
			return nil
		}

		if err := w.WriteByte(';'); err != nil {
			return err
		}

		if err := w.Fold(); err != nil {
			return err
		}
	}
}

// writeQuotedSegment writes key*i="..." with as much of value as fits and
// returns what is left. value must only hold token characters.
func writeQuotedSegment(w *Writer, key string, i int, value string) (string, error) {
	if _, err := w.WriteString(key + "*" + strconv.Itoa(i) + `="`); err != nil {
		return "", err
	}

	room := max(MaxLineLen-w.LineLen()-len(`"`+crlf), 1)
	chunk := value[:min(room, len(value))]

	if _, err := w.WriteString(chunk); err != nil {
		return "", err
	}

	if err := w.WriteByte('"'); err != nil {
		return "", err
	}

	return value[len(chunk):], nil
}

// writePercentSegment writes key*i*=... with whole percent-encoded
// characters until the line is full and returns what is left. At least one
// character is written so that the encoding always progresses.
func writePercentSegment(w *Writer, key string, i int, value string) (string, error) {
	head := key + "*" + strconv.Itoa(i) + "*="
	if i == 0 {
		head += charsetPrefix
	}

	if _, err := w.WriteString(head); err != nil {
		return "", err
	}

	for written := false; value != "" && (!written || w.LineLen() < percentSegmentLimit); written = true {
		_, size := utf8.DecodeRuneInString(value)

		if err := percentEncode(w, value[:size]); err != nil {
			return "", err
		}

		value = value[size:]
	}

	return value, nil
}
