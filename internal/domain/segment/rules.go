// Package segment derives category tags for catalog documents and category
// constraints for customer questions from one shared rule vocabulary, and
// applies the lockdown filter that keeps mis-targeted products out of
// recommendations.
package segment

import (
	"regexp"
	"strings"
)

// Tag identifies one rule family of the segment vocabulary.
type Tag int

const (
	TagMen Tag = iota
	TagWomen
	TagKids
	TagPet
	TagGPS
)

// rule binds a tag to its evidence: substring tokens matched against a
// lowercase text blob, URL path patterns, and tokens whose presence vetoes
// the token branch (the men's rule is vetoed by explicit women's wording).
// A rule matches when the URL matches, or a token matches and no veto
// token does.
type rule struct {
	tag        Tag
	tokens     []string
	vetoTokens []string
	urlPattern *regexp.Regexp
}

// The vocabulary mirrors the shop's catalog wording, Slovak with and without
// diacritics. Adding a segment means adding one rule here; ranking and
// filtering stay untouched.
var rules = []rule{
	{
		tag:        TagMen,
		tokens:     []string{"pánsk", "pansk"},
		vetoTokens: []string{"dámsk", "damsk"},
		urlPattern: regexp.MustCompile(`/pansk|/panske-`),
	},
	{
		tag:        TagWomen,
		tokens:     []string{"dámsk", "damsk"},
		urlPattern: regexp.MustCompile(`/damsk|/damske-`),
	},
	{
		tag: TagKids,
		tokens: []string{
			"guardkid", "tiny", "ultra", "detské", "detske", "pre deti", "dieťa", "dieta",
		},
		urlPattern: regexp.MustCompile(`/detsk|/pre-deti`),
	},
	{
		tag: TagPet,
		tokens: []string{
			"dogsafe", "lokátor", "lokator", "zvierat", "zviera",
			"pes", "psa", "pre psov", "psovi", "psom", "psík", "psik",
		},
		urlPattern: regexp.MustCompile(`/dogsafe|/pre-psov`),
	},
	{
		tag:    TagGPS,
		tokens: []string{"gps"},
	},
}

// match evaluates one rule against a lowercase blob and URL.
func (r rule) match(blob, url string) bool {
	if r.urlPattern != nil && url != "" && r.urlPattern.MatchString(url) {
		return true
	}
	for _, v := range r.vetoTokens {
		if strings.Contains(blob, v) {
			return false
		}
	}
	for _, t := range r.tokens {
		if strings.Contains(blob, t) {
			return true
		}
	}
	return false
}

// matchAll runs the whole rule table over one blob/url pair.
func matchAll(blob, url string) map[Tag]bool {
	out := make(map[Tag]bool, len(rules))
	for _, r := range rules {
		out[r.tag] = r.match(blob, url)
	}
	return out
}
