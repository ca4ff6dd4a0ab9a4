package segment

import "github.com/carneosk-source/carneo-ai-bot/internal/domain"

// Lockdown narrows ranked hits to the intent's segment constraints.
//
// A strict filter that would empty the result leaves its input unchanged.
// The GPS stage falls back to the post-segment state, not the fully
// unfiltered input. Ordering is always inherited from the input ranking,
// filtering never re-sorts.
func Lockdown(hits []domain.Hit, intent Intent) []domain.Hit {
	if len(hits) == 0 {
		return hits
	}

	tags := make([]Tags, len(hits))
	for i, h := range hits {
		tags[i] = Classify(h.Document)
	}

	seg := intent.Segment()
	if seg >= 0 {
		hits, tags = strictFilter(hits, tags, seg)
	}

	// Men-only veto pass: a loosely-tagged women's/kids'/pet entry must not
	// ride along on a men's query unless it is also tagged men's.
	if seg == TagMen {
		hits, tags = vetoNonMen(hits, tags)
	}

	if intent.GPSRequired {
		hits, _ = strictFilter(hits, tags, TagGPS)
	}

	return hits
}

// strictFilter keeps hits whose tag for seg is set; when none qualify it
// returns the input unchanged.
func strictFilter(hits []domain.Hit, tags []Tags, seg Tag) ([]domain.Hit, []Tags) {
	var outHits []domain.Hit
	var outTags []Tags
	for i, h := range hits {
		if tags[i].has(seg) {
			outHits = append(outHits, h)
			outTags = append(outTags, tags[i])
		}
	}
	if len(outHits) == 0 {
		return hits, tags
	}
	return outHits, outTags
}

func vetoNonMen(hits []domain.Hit, tags []Tags) ([]domain.Hit, []Tags) {
	outHits := hits[:0:0]
	outTags := tags[:0:0]
	for i, h := range hits {
		t := tags[i]
		if (t.Women || t.Kids || t.Pet) && !t.Men {
			continue
		}
		outHits = append(outHits, h)
		outTags = append(outTags, t)
	}
	if len(outHits) == 0 {
		return hits, tags
	}
	return outHits, outTags
}

func (t Tags) has(seg Tag) bool {
	switch seg {
	case TagMen:
		return t.Men
	case TagWomen:
		return t.Women
	case TagKids:
		return t.Kids
	case TagPet:
		return t.Pet
	case TagGPS:
		return t.GPS
	}
	return false
}
