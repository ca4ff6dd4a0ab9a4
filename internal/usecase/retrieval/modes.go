package retrieval

import (
	"strings"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Keyword families for guessing the mode when the widget did not send one.
// The lists carry both diacritic and diacritic-free spellings because
// customers type either.
var (
	orderKeywords = []string{
		"objednavk", "objednávk",
		"cislo objednavky", "číslo objednávky",
		"dorucen", "doručen",
		"doprava", "dodanie",
		"faktura", "faktúra",
		"reklamaci", "reklamáci",
		"vratenie", "vrátenie", "vratka",
	}

	techKeywords = []string{
		"nefunguje", "nejde",
		"spojit", "spojiť",
		"parovat", "párovať", "parovanie", "párovanie",
		"bluetooth",
		"nabija", "nabíja", "nenabija", "nenabíja",
		"display", "displej",
		"problem", "problém",
		"manual", "manuál",
	}

	productKeywords = []string{
		"hodink",
		"naramok", "náramok",
		"prsten", "prsteň",
		"gps",
		"vyber", "výber",
		"chcem hodinky",
		"aku by ste odporucili", "akú by ste odporučili",
		"remienok",
		"nahradny", "náhradný",
	}
)

// DetectMode resolves the effective mode for a request. A valid explicit
// mode wins; otherwise the question text is matched against the keyword
// families in order > tech > product precedence, defaulting to product.
func DetectMode(question string, hint domain.Mode) domain.Mode {
	if hint != domain.ModeNone && hint.Valid() {
		return hint
	}

	q := strings.ToLower(question)
	switch {
	case containsAny(q, orderKeywords):
		return domain.ModeOrder
	case containsAny(q, techKeywords):
		return domain.ModeTech
	case containsAny(q, productKeywords):
		return domain.ModeProduct
	default:
		return domain.ModeProduct
	}
}

// SearchHint returns the topic prefix prepended to the embedded query for
// a mode, steering the vector search toward the right part of the index.
func SearchHint(m domain.Mode) string {
	switch m {
	case domain.ModeProduct:
		return "Vyber produktu Carneo, pouzi produktovy index."
	case domain.ModeOrder:
		return "Tema: objednavky, dorucenie, reklamacie, vratky."
	case domain.ModeTech:
		return "Tema: technicke dotazy a navody k produktom Carneo."
	default:
		return ""
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
