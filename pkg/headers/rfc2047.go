package headers

import (
	"encoding/base64"
	"unicode/utf8"
)

const (
	encodedWordPrefix = "=?utf-8?b?"
	encodedWordSuffix = "?="
)

// EncodeRFC2047 writes s as a sequence of base64 RFC 2047 encoded-words.
//
// Each encoded-word takes as much of the input as fits on the current line
// without splitting a UTF-8 sequence. Consecutive encoded-words are
// separated by a space, which is where the line gets folded when the next
// word does not fit. When the line holding earlier content has no room left
// for a word, it is folded before the first word too.
func EncodeRFC2047(s string, w *Writer) error {
	for s != "" {
		word := truncateToRuneBoundary(s, min(encodedWordCapacity(w), len(s)))

		if word == "" {
			// a word never touches text already on the line: it moves to
			// a new line, even without pending whitespace
			if w.CanFold() || w.LineLen() > 0 {
				if err := w.foldAtSeparator(); err != nil {
					return err
				}

				continue
			}

			// only spaces on this line: take one character even if it overflows
			_, size := utf8.DecodeRuneInString(s)
			word = s[:size]
		}

		if err := writeEncodedWord(w, word); err != nil {
			return err
		}

		s = s[len(word):]

		if s != "" {
			w.Space()
		}
	}

	return nil
}

// encodedWordCapacity returns how many input bytes fit in an encoded-word
// written at the current position.
func encodedWordCapacity(w *Writer) int {
	used := w.ProjectedLineLen() + len(encodedWordPrefix) + len(encodedWordSuffix) + len(crlf)
	if used >= MaxLineLen {
		return 0
	}

	// base64 output comes in 4 byte quanta, each holding 3 input bytes
	return (MaxLineLen - used) / 4 * 3
}

func writeEncodedWord(w *Writer, word string) error {
	if _, err := w.WriteString(encodedWordPrefix); err != nil {
		return err
	}

	if _, err := w.WriteString(base64.StdEncoding.EncodeToString([]byte(word))); err != nil {
		return err
	}

	_, err := w.WriteString(encodedWordSuffix)

	return err
}
