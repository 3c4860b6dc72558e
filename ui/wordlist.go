package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"

	"github.com/yamanq/mufradat/drill"
)

// wordListModel is the queue overview modal: the full active queue with a
// fuzzy filter, used to jump straight to a word.
type wordListModel struct {
	input    textinput.Model
	items    []wordItem
	filtered []wordItem
	selected int
}

// wordItem pairs a queue entry with its queue position and the string the
// fuzzy filter matches against.
type wordItem struct {
	index       int
	word        drill.Word
	filterValue string
}

func newWordList() wordListModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = promptStyle.Render("/ ")
	ti.CharLimit = 64
	return wordListModel{input: ti}
}

// open fills the modal from the active queue and focuses the filter.
func (wl *wordListModel) open(queue []drill.Word, cursor int) {
	wl.items = make([]wordItem, 0, len(queue))
	for i, w := range queue {
		wl.items = append(wl.items, wordItem{
			index:       i,
			word:        w,
			filterValue: fmt.Sprintf("%d %s %s %s", w.ID, w.Display(), w.MeaningEN, w.MeaningCN),
		})
	}
	wl.filtered = wl.items
	wl.selected = cursor
	if wl.selected >= len(wl.filtered) {
		wl.selected = 0
	}
	wl.input.SetValue("")
	wl.input.Focus()
}

func (wl *wordListModel) close() {
	wl.input.Blur()
	wl.items = nil
	wl.filtered = nil
}

// filter re-runs the fuzzy match against the current input value.
func (wl *wordListModel) filter() {
	pattern := strings.TrimSpace(wl.input.Value())
	if pattern == "" {
		wl.filtered = wl.items
		wl.clampSelection()
		return
	}

	targets := make([]string, len(wl.items))
	for i, it := range wl.items {
		targets[i] = it.filterValue
	}

	matches := fuzzy.Find(pattern, targets)
	filtered := make([]wordItem, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, wl.items[m.Index])
	}
	wl.filtered = filtered
	wl.clampSelection()
}

func (wl *wordListModel) clampSelection() {
	if wl.selected >= len(wl.filtered) {
		wl.selected = len(wl.filtered) - 1
	}
	if wl.selected < 0 {
		wl.selected = 0
	}
}

func (wl *wordListModel) moveSelection(delta int) {
	if len(wl.filtered) == 0 {
		return
	}
	wl.selected += delta
	if wl.selected < 0 {
		wl.selected = 0
	}
	if wl.selected >= len(wl.filtered) {
		wl.selected = len(wl.filtered) - 1
	}
}

// choice returns the queue index of the selected entry.
func (wl wordListModel) choice() (int, bool) {
	if len(wl.filtered) == 0 {
		return 0, false
	}
	return wl.filtered[wl.selected].index, true
}

func (wl wordListModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(wl.input.View())
	b.WriteString("\n\n")

	visible := height - 4
	if visible < 1 {
		visible = 1
	}

	// Keep the selection inside the visible window.
	top := 0
	if wl.selected >= visible {
		top = wl.selected - visible + 1
	}
	bottom := top + visible
	if bottom > len(wl.filtered) {
		bottom = len(wl.filtered)
	}

	if len(wl.filtered) == 0 {
		b.WriteString(subtleStyle.Render("  nothing matches"))
		return b.String()
	}

	for i := top; i < bottom; i++ {
		it := wl.filtered[i]
		line := fmt.Sprintf("%4d  %s", it.word.ID, it.word.Display())
		if it.word.MeaningEN != "" {
			line += subtleStyle.Render("  " + it.word.MeaningEN)
		}
		line = truncate.StringWithTail(line, uint(max(width-4, 10)), ellipsis) //nolint:gosec

		if i == wl.selected {
			b.WriteString(selectedItemStyle.Render("> ") + selectedItemStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %d/%d  enter: jump  esc: close", len(wl.filtered), len(wl.items))))
	return b.String()
}
