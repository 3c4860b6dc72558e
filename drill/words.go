package drill

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Word is a single vocabulary entry. Words are immutable once loaded.
type Word struct {
	ID        int     // unique identifier, used for range selection and audio lookup
	Word      string  // orthographic form
	WordDiac  string  // diacritized form, preferred for display when present
	IPA       string  // phonemic transcription
	MeaningCN string  // Chinese gloss
	MeaningEN string  // English gloss
	CEFR      string  // difficulty tag
	Freq      float64 // frequency score
}

// Display returns the preferred orthographic form.
func (w Word) Display() string {
	if w.WordDiac != "" {
		return w.WordDiac
	}
	return w.Word
}

// Required header columns for a word list file.
var requiredColumns = []string{"id", "word"}

// LoadWordFile reads a word list from a CSV file. A missing or unreadable
// file is an error; the caller decides whether to continue with an empty
// store.
func LoadWordFile(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open word list: %w", err)
	}
	defer f.Close() //nolint:errcheck
	words, err := ParseWords(f)
	if err != nil {
		return nil, fmt.Errorf("unable to parse word list %s: %w", path, err)
	}
	return words, nil
}

// ParseWords reads CSV word records. The first row must be a header naming
// at least the id and word columns; unknown columns are ignored. Rows with
// a non-numeric id are skipped with a warning rather than failing the load.
func ParseWords(r io.Reader) ([]Word, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidWordList, name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var words []Word
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, err := strconv.Atoi(field(row, "id"))
		if err != nil {
			log.Warn("Skipping word row with bad id", "line", line, "id", field(row, "id"))
			continue
		}

		freq, _ := strconv.ParseFloat(field(row, "freq"), 64)
		words = append(words, Word{
			ID:        id,
			Word:      field(row, "word"),
			WordDiac:  field(row, "word_diac"),
			IPA:       field(row, "ipa"),
			MeaningCN: field(row, "meaning_cn"),
			MeaningEN: field(row, "meaning_en"),
			CEFR:      field(row, "cefr"),
			Freq:      freq,
		})
	}

	return words, nil
}
