package domain

// RetrievedDoc is the logged projection of one search hit, enough for the
// admin view and for continuation rewriting.
type RetrievedDoc struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	URL   string  `json:"url,omitempty"`
	Score float64 `json:"score"`
}

// Turn is one logged question/answer/retrieval exchange. Records are
// append-only and immutable once written; the answer handler is the sole
// writer.
type Turn struct {
	Timestamp      string         `json:"ts"`
	SessionID      string         `json:"sessionId"`
	Question       string         `json:"question"`
	Answer         string         `json:"answer,omitempty"`
	ModeFromClient Mode           `json:"modeFromClient,omitempty"`
	EffectiveMode  Mode           `json:"effectiveMode,omitempty"`
	Domain         Domain         `json:"domain,omitempty"`
	RetrievedDocs  []RetrievedDoc `json:"ragHits,omitempty"`
	Error          string         `json:"error,omitempty"`

	// Joined from the rating sub-stream for the admin listing, never persisted
	// on the turn record itself.
	AdminRating string `json:"adminRating,omitempty"`
	AdminNote   string `json:"adminNote,omitempty"`
}

// Rating is a manual review record. Ratings share the session log file with
// turns as a separate sub-stream, distinguished by the type field.
type Rating struct {
	Type      string `json:"type"` // always "rating"
	Timestamp string `json:"ts"`
	SessionID string `json:"sessionId"`
	TargetTS  string `json:"targetTs"`
	Rating    string `json:"rating"` // "good" | "bad"
	Note      string `json:"note,omitempty"`
}

// RatingKind is the type discriminator for rating records in the session log.
const RatingKind = "rating"
