package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// rangeInputModel is the single-line prompt for selecting an inclusive
// word-id range.
type rangeInputModel struct {
	input textinput.Model
}

func newRangeInput() rangeInputModel {
	ti := textinput.New()
	ti.Placeholder = "start-end, e.g. 12-40"
	ti.Prompt = promptStyle.Render("range: ")
	ti.CharLimit = 16
	return rangeInputModel{input: ti}
}

func (r *rangeInputModel) open(start, end int) {
	if start > 0 || end > 0 {
		r.input.SetValue(fmt.Sprintf("%d-%d", start, end))
	} else {
		r.input.SetValue("")
	}
	r.input.CursorEnd()
	r.input.Focus()
}

func (r *rangeInputModel) close() {
	r.input.Blur()
	r.input.SetValue("")
}

func (r rangeInputModel) view() string {
	return r.input.View()
}

// parseRange parses "12-40" (also "12:40" or "12 40") into an inclusive id
// range. A single number selects that one id.
func parseRange(s string) (start, end int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty range")
	}

	sep := func(r rune) bool {
		return r == '-' || r == ':' || r == ' ' || r == ','
	}
	parts := strings.FieldsFunc(s, sep)

	switch len(parts) {
	case 1:
		start, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("not a number: %q", parts[0])
		}
		return start, start, nil
	case 2:
		start, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("not a number: %q", parts[0])
		}
		end, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("not a number: %q", parts[1])
		}
		return start, end, nil
	default:
		return 0, 0, fmt.Errorf("expected start-end, got %q", s)
	}
}
