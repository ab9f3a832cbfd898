package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRange parses a 1-based position or range as typed on a command line:
//
//	"12"          cursor at the start of line 12
//	"12:5"        cursor at line 12, column 5
//	"12:5-14:3"   selection from 12:5 up to 14:3
//	"12-14"       lines 12 through 13, from column 1 to column 1
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty", ErrInvalidRange)
	}

	startStr, endStr, isSpan := strings.Cut(s, "-")
	start, err := parsePosition(startStr)
	if err != nil {
		return Range{}, err
	}
	if !isSpan {
		return Range{Start: start, End: start}, nil
	}

	end, err := parsePosition(endStr)
	if err != nil {
		return Range{}, err
	}
	r := Range{Start: start, End: end}
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: %q ends before it starts", ErrInvalidRange, s)
	}
	return r, nil
}

func parsePosition(s string) (Position, error) {
	lineStr, colStr, hasCol := strings.Cut(strings.TrimSpace(s), ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return Position{}, fmt.Errorf("%w: bad line %q", ErrInvalidRange, lineStr)
	}
	col := 1
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil || col < 1 {
			return Position{}, fmt.Errorf("%w: bad column %q", ErrInvalidRange, colStr)
		}
	}
	return Position{Line: line - 1, Col: col - 1}, nil
}
