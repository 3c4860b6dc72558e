package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/yamanq/mufradat/drill"
)

// cardFields controls which word fields the card shows. Toggled with the
// number keys 1-7.
type cardFields struct {
	Headword   bool
	Diacritics bool
	IPA        bool
	MeaningCN  bool
	MeaningEN  bool
	CEFR       bool
	Freq       bool
}

func defaultCardFields() cardFields {
	return cardFields{
		Headword:   true,
		Diacritics: true,
		IPA:        true,
		MeaningCN:  true,
		MeaningEN:  true,
		CEFR:       true,
		Freq:       true,
	}
}

// toggle flips the field bound to the given number key.
func (f *cardFields) toggle(n int) {
	switch n {
	case 1:
		f.Headword = !f.Headword
	case 2:
		f.Diacritics = !f.Diacritics
	case 3:
		f.IPA = !f.IPA
	case 4:
		f.MeaningCN = !f.MeaningCN
	case 5:
		f.MeaningEN = !f.MeaningEN
	case 6:
		f.CEFR = !f.CEFR
	case 7:
		f.Freq = !f.Freq
	}
}

// renderCard renders the current word with the enabled fields, wrapped to
// the given width.
func renderCard(w drill.Word, fields cardFields, width int) string {
	if width < 10 {
		width = 10
	}

	var lines []string

	if fields.Headword {
		head := w.Word
		if fields.Diacritics && w.WordDiac != "" {
			head = w.WordDiac
		}
		lines = append(lines, headwordStyle.Render(head))
	}

	if fields.IPA && w.IPA != "" {
		lines = append(lines, ipaStyle.Render("/"+w.IPA+"/"))
	}

	var meta []string
	if fields.CEFR && w.CEFR != "" {
		meta = append(meta, cefrStyle.Render(w.CEFR))
	}
	if fields.Freq && w.Freq > 0 {
		meta = append(meta, fieldLabelStyle.Render(fmt.Sprintf("freq %.2f", w.Freq)))
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, fieldLabelStyle.Render(" · ")))
	}

	if fields.MeaningEN && w.MeaningEN != "" {
		lines = append(lines, "", fieldLabelStyle.Render("en ")+meaningStyle.Render(wordwrap.String(w.MeaningEN, width-3)))
	}
	if fields.MeaningCN && w.MeaningCN != "" {
		lines = append(lines, fieldLabelStyle.Render("cn ")+meaningStyle.Render(wordwrap.String(w.MeaningCN, width-3)))
	}

	if len(lines) == 0 {
		return subtleStyle.Render("(all fields hidden)")
	}
	return strings.Join(lines, "\n")
}
