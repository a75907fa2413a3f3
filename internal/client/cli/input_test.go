package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var w bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  Tower A  \nnext\n")), "Venture name", &w)
	require.NoError(t, err)
	assert.Equal(t, "Tower A", got)
	assert.Equal(t, "Venture name\n> ", w.String())
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("last")), "p", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "last", got)
}

func TestGetSimpleText_EmptyEOF(t *testing.T) {
	_, err := GetSimpleText(bufio.NewReader(strings.NewReader("")), "p", io.Discard)
	require.ErrorIs(t, err, io.EOF)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.in), func(t *testing.T) {
			var w bytes.Buffer
			got := Confirm(bufio.NewReader(strings.NewReader(tt.in)), "Delete?", &w)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Delete? [y/N] ", w.String())
		})
	}
}
