package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cookieprobe/cookieprobe/pkg/sanitizer"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "Tracks ad conversions", "Tracks ad conversions"},
		{"script tag stripped", "<script>alert(1)</script>Tracks conversions", "Tracks conversions"},
		{"nested tags stripped", "<p>First <strong>party</strong> analytics</p>", "First party analytics"},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"surrounding whitespace trimmed", "  Session identifier  ", "Session identifier"},
		{"attribute injection stripped", `<img src=x onerror=alert(1)>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, sanitizer.Text(tt.input))
		})
	}
}

func TestDescriptor(t *testing.T) {
	vendor, purpose, notes := sanitizer.Descriptor(
		"<b>Google</b>",
		"Analytics<script>evil()</script>",
		"  notes  ",
	)
	require.Equal(t, "Google", vendor)
	require.Equal(t, "Analytics", purpose)
	require.Equal(t, "notes", notes)
}
