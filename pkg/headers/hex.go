package headers

const hexChars = "0123456789ABCDEF"

func encodeHexByte(b byte) [2]byte {
	return [2]byte{hexChars[b>>4], hexChars[b&0x0f]}
}

// maxPercentEncodedLen is the size of the longest percent-encoded
// character: four UTF-8 bytes, three output bytes each.
const maxPercentEncodedLen = len("%XX%XX%XX%XX")

// percentEncode writes one character, given as its raw bytes. Token-safe
// ASCII is written as is, anything else becomes one %XX triplet per byte.
func percentEncode(w *Writer, char string) error {
	if len(char) == 1 && isASCIIAlphanumericPlus(char[0]) {
		return w.WriteByte(char[0])
	}

	var buf [maxPercentEncodedLen]byte

	n := 0

	for i := range len(char) {
		hex := encodeHexByte(char[i])
		buf[n] = '%'
		buf[n+1] = hex[0]
		buf[n+2] = hex[1]
		n += 3
	}

	_, err := w.WriteString(string(buf[:n]))

	return err
}
