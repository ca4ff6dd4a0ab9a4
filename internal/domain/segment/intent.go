package segment

import "strings"

// Intent are the category constraints inferred from a question. At most one
// of the segment wants gets acted on by the lockdown filter, in fixed
// priority order men > women > kids > pet; GPS composes with whichever
// segment applied.
type Intent struct {
	WantsMen     bool
	WantsWomen   bool
	WantsKids    bool
	WantsPet     bool
	GPSRequired  bool
	Continuation bool
}

// DetectIntent applies the segment vocabulary to the raw question text.
// The continuation flag is computed separately by the retrieval pipeline
// from session state.
func DetectIntent(question string) Intent {
	q := strings.ToLower(question)

	// Questions carry no URL, so only the token branches of the rules apply.
	m := matchAll(q, "")
	return Intent{
		WantsMen:    m[TagMen],
		WantsWomen:  m[TagWomen],
		WantsKids:   m[TagKids],
		WantsPet:    m[TagPet],
		GPSRequired: m[TagGPS],
	}
}

// Segment returns the single segment tag the lockdown filter should act on,
// or -1 when the question names none.
func (i Intent) Segment() Tag {
	switch {
	case i.WantsMen:
		return TagMen
	case i.WantsWomen:
		return TagWomen
	case i.WantsKids:
		return TagKids
	case i.WantsPet:
		return TagPet
	}
	return Tag(-1)
}
