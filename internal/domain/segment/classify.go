package segment

import (
	"strings"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Tags are the per-document category flags. Derived per query, never stored.
type Tags struct {
	Men   bool
	Women bool
	Kids  bool
	Pet   bool
	GPS   bool
}

// Classify derives category tags for a document from its name, URL and
// category metadata. The flags are independent booleans; inconsistent
// metadata may set more than one segment, and the lockdown filter is the
// one that arbitrates.
func Classify(doc domain.Document) Tags {
	name := doc.Meta.Name()
	url := strings.ToLower(doc.Meta.URL())
	blob := strings.ToLower(name + " " + url + " " + doc.Meta.Category())

	m := matchAll(blob, url)
	return Tags{
		Men:   m[TagMen],
		Women: m[TagWomen],
		Kids:  m[TagKids],
		Pet:   m[TagPet],
		GPS:   m[TagGPS],
	}
}
