package retrieval

import (
	"fmt"
	"strings"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Phrases that signal "same product as before, different variant". The
// widget serves Slovak and Czech customers, but the phrasebook keeps a
// few English entries for mixed-language sessions.
var continuationPhrases = []string{
	"v inej farbe",
	"v jiné barvě",
	"ine farby",
	"iné farby",
	"ake farby",
	"aké farby",
	"jake barvy",
	"jaké barvy",
	"v inom prevedeni",
	"v inom prevedení",
	"ina velkost",
	"iná veľkosť",
	"in another color",
	"in another colour",
	"in a different color",
	"what colors does it come in",
	"other colors",
}

// IsContinuation reports whether the question is a follow-up about the
// product discussed in the previous turn.
func IsContinuation(question string) bool {
	q := strings.ToLower(question)
	for _, phrase := range continuationPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

// ComposeQuery builds the text that gets embedded. A detected continuation
// with a named top document from the previous turn pins the query to that
// product; otherwise the question is used as-is with the mode's search
// hint prefixed.
func ComposeQuery(question string, mode domain.Mode, last domain.Turn, continuation bool) string {
	if continuation && len(last.RetrievedDocs) > 0 && last.RetrievedDocs[0].Name != "" {
		return fmt.Sprintf("Produkt: %s. Otazka: %s", last.RetrievedDocs[0].Name, question)
	}

	if hint := SearchHint(mode); hint != "" {
		return hint + "\n" + question
	}
	return question
}
