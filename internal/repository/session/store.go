// Package session persists the chat history as an append-only JSONL log and
// answers "latest turn for this session" lookups from an in-memory index.
//
// The file stays the source of truth: every completed exchange is one
// atomic line appended to it, and the admin listing re-reads it in full.
// The index only exists to keep the per-request continuity lookup O(1)
// instead of a scan over the whole log.
package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Store is the session log store. The answer handler is the sole writer;
// the retrieval pipeline reads via LastTurn.
type Store struct {
	path   string
	keep   int // most recent turns indexed per session
	logger *zap.Logger

	mu    sync.Mutex
	index map[string][]domain.Turn
}

// New opens (or prepares) the log at path and hydrates the session index by
// scanning whatever records already exist. Malformed lines are skipped.
func New(path string, keep int, logger *zap.Logger) (*Store, error) {
	if keep <= 0 {
		keep = 20
	}
	s := &Store{
		path:   path,
		keep:   keep,
		logger: logger,
		index:  make(map[string][]domain.Turn),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create session log dir: %w", err)
	}
	s.hydrate()
	return s, nil
}

func (s *Store) hydrate() {
	turns, _, err := s.scan()
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Cannot hydrate session index", zap.Error(err))
		}
		return
	}
	for _, t := range turns {
		s.remember(t)
	}
	s.logger.Info("Session index hydrated",
		zap.Int("sessions", len(s.index)), zap.Int("turns", len(turns)))
}

// AppendTurn writes one completed exchange as a single line and updates the
// index. Each write is one atomic append, so concurrent requests interleave
// whole records, never fragments.
func (s *Store) AppendTurn(turn domain.Turn) error {
	// The joined admin fields never go to disk.
	turn.AdminRating = ""
	turn.AdminNote = ""

	if err := s.appendLine(turn); err != nil {
		return err
	}

	s.mu.Lock()
	s.remember(turn)
	s.mu.Unlock()
	return nil
}

// AppendRating writes a manual review record into the same log as a
// separate sub-stream. Ratings never enter the continuity index.
func (s *Store) AppendRating(r domain.Rating) error {
	if r.Rating != "good" && r.Rating != "bad" {
		return fmt.Errorf("%q: %w", r.Rating, domain.ErrInvalidRating)
	}
	r.Type = domain.RatingKind
	return s.appendLine(r)
}

// LastTurn returns the most recent turn recorded for a session, if any.
func (s *Store) LastTurn(sessionID string) (domain.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.index[sessionID]
	if len(turns) == 0 {
		return domain.Turn{}, false
	}
	return turns[len(turns)-1], true
}

func (s *Store) remember(turn domain.Turn) {
	if turn.SessionID == "" {
		return
	}
	turns := append(s.index[turn.SessionID], turn)
	if len(turns) > s.keep {
		turns = turns[len(turns)-s.keep:]
	}
	s.index[turn.SessionID] = turns
}

func (s *Store) appendLine(record any) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append session record: %w", err)
	}
	return nil
}

// ListOptions filters the admin listing.
type ListOptions struct {
	Mode   domain.Mode // match effective or client mode when set
	Search string      // case-insensitive substring over question+answer+error
	Limit  int
}

// List returns logged turns newest first with ratings joined, re-reading
// the whole file so the admin view never misses records written by another
// process sharing the log.
func (s *Store) List(opts ListOptions) ([]domain.Turn, error) {
	turns, ratings, err := s.scan()
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Turn{}, nil
		}
		return nil, err
	}

	for i := range turns {
		key := turns[i].SessionID + "|" + turns[i].Timestamp
		if r, ok := ratings[key]; ok {
			turns[i].AdminRating = r.Rating
			turns[i].AdminNote = r.Note
		}
	}

	out := turns[:0]
	needle := strings.ToLower(opts.Search)
	for _, t := range turns {
		if opts.Mode != domain.ModeNone &&
			t.EffectiveMode != opts.Mode && t.ModeFromClient != opts.Mode {
			continue
		}
		if needle != "" {
			blob := strings.ToLower(t.Question + "\n" + t.Answer + "\n" + t.Error)
			if !strings.Contains(blob, needle) {
				continue
			}
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})

	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Stats aggregates turn counts by effective mode over the whole log.
func (s *Store) Stats() (Stats, error) {
	turns, _, err := s.scan()
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{ByMode: map[string]int{}}, nil
		}
		return Stats{}, err
	}

	st := Stats{Total: len(turns), ByMode: make(map[string]int)}
	for _, t := range turns {
		m := string(t.EffectiveMode)
		if m == "" {
			m = string(t.ModeFromClient)
		}
		if m == "" {
			m = "unknown"
		}
		st.ByMode[m]++
	}
	return st, nil
}

// Stats is the admin statistics summary.
type Stats struct {
	Total  int            `json:"total"`
	ByMode map[string]int `json:"byMode"`
}

// scan reads the entire log, splitting turns from the rating sub-stream.
// Ratings are keyed by sessionId|targetTs for the admin join.
func (s *Store) scan() ([]domain.Turn, map[string]domain.Rating, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var turns []domain.Turn
	ratings := make(map[string]domain.Rating)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			continue // broken line, ignore
		}

		if probe.Type == domain.RatingKind {
			var r domain.Rating
			if err := json.Unmarshal(line, &r); err != nil {
				continue
			}
			ratings[r.SessionID+"|"+r.TargetTS] = r
			continue
		}

		var t domain.Turn
		if err := json.Unmarshal(line, &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan session log: %w", err)
	}
	return turns, ratings, nil
}
