package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want Range
	}{
		{in: "12", want: cursor(11, 0)},
		{in: "12:5", want: cursor(11, 4)},
		{in: "12:5-14:3", want: Range{Start: Position{11, 4}, End: Position{13, 2}}},
		{in: "1-3", want: Range{Start: Position{0, 0}, End: Position{2, 0}}},
		{in: " 2:1 - 2:4 ", want: Range{Start: Position{1, 0}, End: Position{1, 3}}},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRange_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "3:0", "5-2", "2:4-2:1", "1:x", "-3"} {
		_, err := ParseRange(in)
		assert.ErrorIs(t, err, ErrInvalidRange, "input %q", in)
	}
}
