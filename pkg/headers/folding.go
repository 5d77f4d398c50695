package headers

import "strings"

// FoldingWriter treats every space as a fold opportunity: before writing a
// word that would push the line past MaxLineLen, it moves to a new line. A
// word is never split, so a single word longer than the line budget is
// written as is.
type FoldingWriter struct {
	w *Writer
}

func (f *FoldingWriter) WriteString(s string) (int, error) {
	n := 0

	for s != "" {
		if s[0] == ' ' {
			f.w.Space()
			s = s[1:]
			n++

			continue
		}

		word := s
		if i := strings.IndexByte(s, ' '); i >= 0 {
			word = s[:i]
		}

		if f.w.CanFold() && f.w.ProjectedLineLen()+len(word) > MaxLineLen {
			if err := f.w.foldAtSeparator(); err != nil {
				return n, err
			}
		}

		written, err := f.w.WriteString(word)
		n += written

		if err != nil {
			return n, err
		}

		s = s[len(word):]
	}

	return n, nil
}

func (f *FoldingWriter) WriteByte(c byte) error {
	_, err := f.WriteString(string(c))
	return err
}
