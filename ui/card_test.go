package ui

import (
	"strings"
	"testing"

	"github.com/yamanq/mufradat/drill"
)

var cardWord = drill.Word{
	ID:        42,
	Word:      "كتاب",
	WordDiac:  "كِتَاب",
	IPA:       "kitaːb",
	MeaningCN: "书",
	MeaningEN: "book",
	CEFR:      "A1",
	Freq:      812.5,
}

func TestRenderCardShowsEnabledFields(t *testing.T) {
	out := renderCard(cardWord, defaultCardFields(), 60)

	for _, want := range []string{"كِتَاب", "kitaːb", "书", "book", "A1", "812.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCardHidesToggledFields(t *testing.T) {
	fields := defaultCardFields()
	fields.toggle(3) // IPA off
	fields.toggle(4) // Chinese gloss off

	out := renderCard(cardWord, fields, 60)
	if strings.Contains(out, "kitaːb") {
		t.Error("IPA shown while toggled off")
	}
	if strings.Contains(out, "书") {
		t.Error("Chinese gloss shown while toggled off")
	}
	if !strings.Contains(out, "book") {
		t.Error("English gloss lost")
	}
}

func TestRenderCardDiacriticsToggle(t *testing.T) {
	fields := defaultCardFields()
	fields.toggle(2)

	out := renderCard(cardWord, fields, 60)
	if strings.Contains(out, "كِتَاب") {
		t.Error("diacritized form shown while toggled off")
	}
	if !strings.Contains(out, "كتاب") {
		t.Error("bare headword missing")
	}
}

func TestRenderCardAllHidden(t *testing.T) {
	out := renderCard(cardWord, cardFields{}, 60)
	if !strings.Contains(out, "all fields hidden") {
		t.Errorf("unexpected output for empty card: %q", out)
	}
}

func TestFieldToggleRoundTrips(t *testing.T) {
	fields := defaultCardFields()
	for n := 1; n <= 7; n++ {
		fields.toggle(n)
	}
	if fields != (cardFields{}) {
		t.Errorf("toggling every field once left %+v", fields)
	}
	for n := 1; n <= 7; n++ {
		fields.toggle(n)
	}
	if fields != defaultCardFields() {
		t.Errorf("toggling twice is not an identity: %+v", fields)
	}
}
