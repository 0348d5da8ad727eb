package google

import (
	"encoding/base64"
	"strings"
)

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// BuildMessage renders a plain-text RFC 2822 message. Recipients keep their
// input order and are each wrapped in angle brackets. CR and LF are stripped
// from header values so a subject cannot inject headers.
func BuildMessage(recipients []string, subject, body string) string {
	to := make([]string, len(recipients))
	for i, r := range recipients {
		to[i] = "<" + headerSanitizer.Replace(strings.TrimSpace(r)) + ">"
	}

	lines := []string{
		"To: " + strings.Join(to, ", "),
		"Subject: " + headerSanitizer.Replace(subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}
	return strings.Join(lines, "\r\n")
}

// EncodeMessage applies URL-safe base64 with padding, the form Gmail's raw
// field accepts.
func EncodeMessage(msg string) string {
	return base64.URLEncoding.EncodeToString([]byte(msg))
}
