package ocrclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"noise glyphs", "PO• 1234 ® total", "PO 1234 total"},
		{"whitespace collapse", "a   b\t\tc", "a b c"},
		{"crlf", "line1\r\nline2\rline3", "line1\nline2\nline3"},
		{"blank lines", "a\n\n\n\n\nb", "a\n\nb"},
		{"trims lines", "  AJ1323 - BLACK  \n  EUR 280 ", "AJ1323 - BLACK\nEUR 280"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"PO•  1234\r\n\r\n\r\nWholesale:  EUR  280 ¦",
		"  spaced   out  \n\n\n\n tokens ",
		"39 40 41\nBLACK BLACK 2 3 1",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "input %q", in)
	}
}
