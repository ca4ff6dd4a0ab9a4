package domain

// Domain is a named knowledge partition with its own vector collection.
type Domain string

const (
	DomainGeneral  Domain = "general"
	DomainProducts Domain = "products"
	DomainTech     Domain = "tech"
)

// Metadata holds the free-form document metadata carried alongside the text
// (name, url, image, price, category, sourceType and whatever else the
// ingestion side recorded). Values are kept as decoded JSON.
type Metadata map[string]any

// Str returns the metadata value for key as a string, or "" when absent
// or not a string.
func (m Metadata) Str(key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// Name returns the document display name, falling back to the source file name.
func (m Metadata) Name() string {
	if n := m.Str("name"); n != "" {
		return n
	}
	return m.Str("file")
}

func (m Metadata) URL() string      { return m.Str("url") }
func (m Metadata) Image() string    { return m.Str("image") }
func (m Metadata) Category() string { return m.Str("category") }

// Document is one embedded passage in a collection. Immutable once loaded;
// owned exclusively by its Collection.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Meta      Metadata  `json:"meta"`
}

// Collection is a domain-tagged set of embedded documents. Created on first
// access per domain, never mutated after load, so concurrent readers always
// see a stable snapshot.
type Collection struct {
	Domain    Domain
	Documents []Document
}

// Empty reports whether the collection holds no documents.
func (c Collection) Empty() bool { return len(c.Documents) == 0 }

// Hit is a single ranked search result.
type Hit struct {
	Document Document
	Score    float64
}

// RetrievalResult is the output of one pipeline run: ranked, filtered hits
// plus the routing metadata the generation step needs.
type RetrievalResult struct {
	Hits          []Hit
	EffectiveMode Mode
	Domain        Domain
	Query         string // the text that was actually embedded
}
