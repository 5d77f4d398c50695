package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsecurity/go-cs-lib/cstest"

	"github.com/crowdsecurity/mailenc/pkg/body"
	"github.com/crowdsecurity/mailenc/pkg/headers"
)

// runCmd executes mailenc with the given arguments. The commands set up the
// global logger, it's restored once the test is over.
func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	std := logrus.StandardLogger()
	out, formatter, level := std.Out, std.Formatter, std.GetLevel()

	t.Cleanup(func() {
		std.SetOutput(out)
		std.SetFormatter(formatter)
		std.SetLevel(level)
	})

	var stdout, stderr bytes.Buffer

	cmd := newCliRoot().NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestHeaderQuotedString(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "plain",
			args:     []string{"header", "quoted-string", "-p", "From:", "John"},
			expected: "From: John\n",
		},
		{
			name:     "quoted",
			args:     []string{"header", "quoted-string", "--prefix", "From:", "Doe, John"},
			expected: "From: \"Doe, John\"\n",
		},
		{
			name:     "escaped",
			args:     []string{"header", "quoted-string", "-p", "From:", `John "Jack" Doe`},
			expected: "From: \"John \\\"Jack\\\" Doe\"\n",
		},
		{
			name:     "encoded",
			args:     []string{"header", "quoted-string", "-p", "From:", "Jérôme"},
			expected: "From: =?utf-8?b?SsOpcsO0bWU=?=\n",
		},
		{
			name:     "no prefix",
			args:     []string{"header", "quoted-string", "Doe, John"},
			expected: "\"Doe, John\"\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, err := runCmd(t, "", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stdout)
		})
	}
}

func TestHeaderRFC2047(t *testing.T) {
	stdout, _, err := runCmd(t, "", "header", "rfc2047", "-p", "Subject:", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?utf-8?b?YWJjZGVm?=\n", stdout)

	long := strings.Repeat("é", 60)

	stdout, _, err = runCmd(t, "", "header", "rfc2047", "-p", "Subject:", long)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\r\n")
	require.Greater(t, len(lines), 1)

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), headers.MaxLineLen)
	}
}

func TestHeaderRFC2231(t *testing.T) {
	stdout, _, err := runCmd(t, "", "header", "rfc2231", "-p", "Content-Disposition: attachment;", "filename", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Content-Disposition: attachment; filename=\"report.pdf\"\n", stdout)

	stdout, _, err = runCmd(t, "", "header", "rfc2231", "-p", "Content-Disposition: attachment;", "filename", "Übersicht.pdf")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\r\n filename*0*=utf-8''%C3%9Cbersicht.pdf")

	_, _, err = runCmd(t, "", "header", "rfc2231", "file-name", "x")
	cstest.RequireErrorContains(t, err, `parameter key must only contain ASCII alphanumeric characters: "file-name"`)
}

func TestHeaderOffsetFromConfig(t *testing.T) {
	cfgPath := writeFile(t, "mailenc.yaml", "header_offset: 70\n")

	stdout, _, err := runCmd(t, "", "-c", cfgPath, "header", "quoted-string", "Doe, John")
	require.NoError(t, err)
	assert.Equal(t, "\"Doe,\r\n John\"\n", stdout)

	// no room for an encoded-word after the header name: it starts a new line
	stdout, _, err = runCmd(t, "", "-c", cfgPath, "header", "rfc2047", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "\r\n =?utf-8?b?YWJjZGVm?=\n", stdout)
}

func TestHeaderArgs(t *testing.T) {
	stdout, _, err := runCmd(t, "", "header", "rfc2047")
	cstest.RequireErrorContains(t, err, "accepts 1 arg(s), received 0")
	assert.Contains(t, stdout, "Usage:")

	_, _, err = runCmd(t, "", "header", "rfc2231", "filename")
	cstest.RequireErrorContains(t, err, "accepts 2 arg(s), received 1")
}

func TestBodyChoose(t *testing.T) {
	// relative names keep the table rows on one line
	t.Chdir(t.TempDir())

	ascii := "ascii.txt"
	utf8 := "utf8.txt"
	binary := "logo.bin"

	require.NoError(t, os.WriteFile(ascii, []byte("Hello,\nworld\n"), 0o600))
	require.NoError(t, os.WriteFile(utf8, []byte("Grüße aus Köln, bis bald\n"), 0o600))
	require.NoError(t, os.WriteFile(binary, []byte("\x00\x01\x02\xff"), 0o600))

	stdout, _, err := runCmd(t, "", "--color", "no", "body", "choose", ascii, utf8, binary)
	require.NoError(t, err)

	lines := strings.Split(stdout, "\n")

	var asciiRow, utf8Row, binaryRow string

	for _, line := range lines {
		switch {
		case strings.Contains(line, "ascii.txt"):
			asciiRow = line
		case strings.Contains(line, "utf8.txt"):
			utf8Row = line
		case strings.Contains(line, "logo.bin"):
			binaryRow = line
		}
	}

	assert.Contains(t, asciiRow, "7bit")
	assert.Contains(t, utf8Row, "quoted-printable")
	assert.Contains(t, binaryRow, "base64")

	stdout, _, err = runCmd(t, "", "--color", "no", "body", "choose", "--smtputf8", utf8)
	require.NoError(t, err)
	assert.Contains(t, stdout, "8bit")

	stdout, _, err = runCmd(t, "\xff\x00", "--color", "no", "body", "choose", "--binary", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "binary")
	assert.Contains(t, stdout, "base64")

	// opaque bytes that happen to be ascii are still ascii
	stdout, _, err = runCmd(t, "Hello\n", "--color", "no", "body", "choose", "--binary", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ascii")
	assert.Contains(t, stdout, "7bit")
	assert.NotContains(t, stdout, "base64")

	_, _, err = runCmd(t, "", "body", "choose")
	cstest.RequireErrorContains(t, err, "requires at least 1 arg(s), only received 0")

	_, _, err = runCmd(t, "", "body", "choose", "missing.txt")
	cstest.RequireErrorContains(t, err, "unable to open body")
}

func TestBodyEncode(t *testing.T) {
	stdout, _, err := runCmd(t, "Hello\n", "body", "encode", "--header", "-")
	require.NoError(t, err)
	assert.Equal(t, "Content-Transfer-Encoding: 7bit\r\n\r\nHello\n", stdout)

	stdout, _, err = runCmd(t, "Hello\n", "body", "encode", "-e", "base64", "-")
	require.NoError(t, err)
	assert.Equal(t, "SGVsbG8K", stdout)

	stdout, _, err = runCmd(t, "\xff\x00\x01", "body", "encode", "--binary", "--header", "-")
	require.NoError(t, err)
	assert.Equal(t, "Content-Transfer-Encoding: base64\r\n\r\n/wAB", stdout)

	stdout, _, err = runCmd(t, "\x00\x01\x02", "body", "encode", "--binary", "--header", "-")
	require.NoError(t, err)
	assert.Equal(t, "Content-Transfer-Encoding: 7bit\r\n\r\n\x00\x01\x02", stdout)

	stdout, _, err = runCmd(t, "café\n", "body", "encode", "-e", "quoted-printable", "-")
	require.NoError(t, err)
	assert.Equal(t, "caf=C3=A9\r\n", stdout)

	_, _, err = runCmd(t, "Hello\n", "body", "encode", "-e", "uuencode", "-")
	cstest.RequireErrorContains(t, err, `unknown transfer encoding: "uuencode"`)
}

func TestBodyEncodeStream(t *testing.T) {
	content := strings.Repeat("0123456789", 100)
	path := writeFile(t, "body.bin", content)

	streamed, _, err := runCmd(t, "", "body", "encode", "--stream", "-e", "base64", path)
	require.NoError(t, err)

	oneShot, _, err := runCmd(t, "", "body", "encode", "-e", "base64", path)
	require.NoError(t, err)

	assert.Equal(t, oneShot, streamed)
	assert.Len(t, streamed, body.Base64EncodedLen(len(content)))

	_, _, err = runCmd(t, "", "body", "encode", "--stream", path)
	require.ErrorIs(t, err, errStreamNeedsEncoding)
}

func TestBodyBase64Len(t *testing.T) {
	stdout, _, err := runCmd(t, "", "body", "base64-len", "0", "57", "58")
	require.NoError(t, err)
	assert.Equal(t, "0\t0\n57\t76\n58\t82\n", stdout)

	_, _, err = runCmd(t, "", "body", "base64-len", "--", "-1")
	cstest.RequireErrorContains(t, err, `invalid size "-1"`)

	_, _, err = runCmd(t, "", "body", "base64-len", "many")
	cstest.RequireErrorContains(t, err, `invalid size "many"`)
}

func TestConfigShow(t *testing.T) {
	cfgPath := writeFile(t, "mailenc.yaml", "smtputf8: true\nheader_offset: 9\n")

	stdout, _, err := runCmd(t, "", "-c", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "smtputf8: true")
	assert.Contains(t, stdout, "header_offset: 9")

	_, _, err = runCmd(t, "", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "config", "show")
	cstest.RequireErrorContains(t, err, "failed to read config file")

	_, _, err = runCmd(t, "", "--color", "sometimes", "config", "show")
	cstest.RequireErrorContains(t, err, `color must be one of yes, no, auto: "sometimes"`)
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCmd(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version: ")
	assert.Contains(t, stdout, "GoVersion: ")
}

func TestShowMetrics(t *testing.T) {
	stdout, stderr, err := runCmd(t, "", "--color", "no", "--metrics", "header", "rfc2047", "-p", "Subject:", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Subject: =?utf-8?b?YWJj?=\n", stdout)
	assert.Contains(t, stderr, "mailenc_header_encoder_total")
	assert.Contains(t, stderr, "encoder=rfc2047")
	assert.Contains(t, stderr, "mailenc_info")

	// the value looks like a continuation, but it's written as one quoted token
	stdout, stderr, err = runCmd(t, "", "--color", "no", "--metrics", "header", "rfc2231",
		"-p", "Content-Disposition: attachment;", "filename", "a filename*0= b")
	require.NoError(t, err)
	assert.Equal(t, "Content-Disposition: attachment; filename=\"a filename*0= b\"\n", stdout)
	assert.Contains(t, stderr, "encoder=rfc2231,strategy=quoted")

	stdout, stderr, err = runCmd(t, "", "--color", "no", "--metrics", "header", "rfc2231",
		"-p", "Content-Disposition: attachment;", "filename", "é.txt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "filename*0*=utf-8''%C3%A9.txt")
	assert.Contains(t, stderr, "encoder=rfc2231,strategy=percent")

	cfgPath := writeFile(t, "mailenc.yaml", "metrics_level: none\n")

	_, stderr, err = runCmd(t, "", "-c", cfgPath, "--metrics", "body", "base64-len", "1")
	require.NoError(t, err)
	assert.Equal(t, "No metrics recorded.\n", stderr)
}

func TestFormatLabels(t *testing.T) {
	assert.Empty(t, formatLabels(nil))
	assert.Equal(t, "encoder=rfc2047,strategy=encoded-word",
		formatLabels(map[string]string{"strategy": "encoded-word", "encoder": "rfc2047"}))
}
