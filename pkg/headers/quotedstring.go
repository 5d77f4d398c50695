package headers

// Strategy is the representation chosen by EncodeQuotedString. Strategies
// are ordered from the least to the most restrictive.
type Strategy int

const (
	// StrategyPlain writes the value as is.
	StrategyPlain Strategy = iota
	// StrategyQuoted wraps the value in double quotes.
	StrategyQuoted
	// StrategyQuotedEscaped wraps the value in double quotes and escapes
	// backslashes and double quotes.
	StrategyQuotedEscaped
	// StrategyRFC2047 writes the value as RFC 2047 encoded-words.
	StrategyRFC2047
)

func (s Strategy) String() string {
	switch s {
	case StrategyPlain:
		return "plain"
	case StrategyQuoted:
		return "quoted"
	case StrategyQuotedEscaped:
		return "quoted-escaped"
	case StrategyRFC2047:
		return "rfc2047"
	default:
		return "unknown"
	}
}

// byteStrategy returns the least restrictive strategy able to represent c.
func byteStrategy(c byte) Strategy {
	switch {
	case isASCIIAlphanumericPlus(c):
		return StrategyPlain
	case c == '\\' || c == '"':
		return StrategyQuotedEscaped
	case isASCIIPrintable(c):
		return StrategyQuoted
	default:
		return StrategyRFC2047
	}
}

// Escalate returns the strategy needed once c is part of the value. It
// never returns a strategy less restrictive than s.
func (s Strategy) Escalate(c byte) Strategy {
	return max(s, byteStrategy(c))
}

// ChooseStrategy scans value once and returns the least restrictive
// strategy able to represent all of it.
func ChooseStrategy(value string) Strategy {
	s := StrategyPlain

	for i := 0; i < len(value) && s < StrategyRFC2047; i++ {
		s = s.Escalate(value[i])
	}

	return s
}

// EncodeQuotedString writes value as a plain token, a quoted-string or RFC
// 2047 encoded-words, whichever is the least intrusive.
//
//	John        -> John
//	John Smith  -> "John Smith"
//	Rogue " One -> "Rogue \" One"
//	Adrián      -> =?utf-8?b?QWRyacOhbg==?=
func EncodeQuotedString(value string, w *Writer) error {
	switch ChooseStrategy(value) {
	case StrategyPlain:
		_, err := w.WriteString(value)
		return err
	case StrategyQuoted:
		return writeQuoted(w, value)
	case StrategyQuotedEscaped:
		return writeQuoted(w, escapeQuoted(value))
	default:
		return EncodeRFC2047(value, w)
	}
}

func writeQuoted(w *Writer, s string) error {
	if err := w.WriteByte('"'); err != nil {
		return err
	}

	if _, err := w.Folding().WriteString(s); err != nil {
		return err
	}

	return w.WriteByte('"')
}
