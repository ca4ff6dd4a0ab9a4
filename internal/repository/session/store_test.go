package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "chat-logs.jsonl"), 3, zap.NewNop())
	require.NoError(t, err)
	return s
}

func turn(sessionID, ts, question string) domain.Turn {
	return domain.Turn{
		SessionID:     sessionID,
		Timestamp:     ts,
		Question:      question,
		Answer:        "odpoveď",
		EffectiveMode: domain.ModeProduct,
	}
}

func TestLastTurn_LatestWins(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendTurn(turn("sess-1", "2026-08-01T10:00:00Z", "prvá")))
	require.NoError(t, s.AppendTurn(turn("sess-2", "2026-08-01T10:01:00Z", "iná session")))
	require.NoError(t, s.AppendTurn(turn("sess-1", "2026-08-01T10:02:00Z", "druhá")))

	last, ok := s.LastTurn("sess-1")
	require.True(t, ok)
	require.Equal(t, "druhá", last.Question)

	_, ok = s.LastTurn("unknown")
	require.False(t, ok)
}

func TestLastTurn_SkipsRatingRecords(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendTurn(turn("sess-1", "2026-08-01T10:00:00Z", "otázka")))
	require.NoError(t, s.AppendRating(domain.Rating{
		SessionID: "sess-1",
		Timestamp: "2026-08-01T10:05:00Z",
		TargetTS:  "2026-08-01T10:00:00Z",
		Rating:    "good",
	}))

	last, ok := s.LastTurn("sess-1")
	require.True(t, ok)
	require.Equal(t, "otázka", last.Question)
}

func TestHydrate_RebuildsIndexFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat-logs.jsonl")

	content := `{"ts":"2026-08-01T10:00:00Z","sessionId":"sess-1","question":"stará"}
broken line
{"type":"rating","ts":"t","sessionId":"sess-1","targetTs":"x","rating":"bad"}
{"ts":"2026-08-01T10:02:00Z","sessionId":"sess-1","question":"novšia"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := New(path, 10, zap.NewNop())
	require.NoError(t, err)

	last, ok := s.LastTurn("sess-1")
	require.True(t, ok)
	require.Equal(t, "novšia", last.Question)
}

func TestIndex_KeepsMostRecentN(t *testing.T) {
	s := newTestStore(t) // keep = 3

	for _, ts := range []string{"t1", "t2", "t3", "t4", "t5"} {
		require.NoError(t, s.AppendTurn(turn("sess-1", ts, "q-"+ts)))
	}

	last, ok := s.LastTurn("sess-1")
	require.True(t, ok)
	require.Equal(t, "q-t5", last.Question)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.index["sess-1"], 3)
}

func TestList_JoinsRatingsAndFilters(t *testing.T) {
	s := newTestStore(t)

	tProduct := turn("sess-1", "2026-08-01T10:00:00Z", "aké hodinky odporúčate")
	require.NoError(t, s.AppendTurn(tProduct))

	tOrder := turn("sess-2", "2026-08-01T11:00:00Z", "kde je moja objednávka")
	tOrder.EffectiveMode = domain.ModeOrder
	require.NoError(t, s.AppendTurn(tOrder))

	require.NoError(t, s.AppendRating(domain.Rating{
		SessionID: "sess-1",
		TargetTS:  "2026-08-01T10:00:00Z",
		Rating:    "good",
		Note:      "pekná odpoveď",
	}))

	all, err := s.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	require.Equal(t, "sess-2", all[0].SessionID)
	require.Equal(t, "good", all[1].AdminRating)
	require.Equal(t, "pekná odpoveď", all[1].AdminNote)

	orders, err := s.List(ListOptions{Mode: domain.ModeOrder})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	found, err := s.List(ListOptions{Search: "OBJEDNÁVKA"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "sess-2", found[0].SessionID)
}

func TestStats_CountsByMode(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendTurn(turn("a", "t1", "q")))
	require.NoError(t, s.AppendTurn(turn("b", "t2", "q")))
	to := turn("c", "t3", "q")
	to.EffectiveMode = domain.ModeOrder
	require.NoError(t, s.AppendTurn(to))

	st, err := s.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, st.Total)
	require.Equal(t, 2, st.ByMode["product"])
	require.Equal(t, 1, st.ByMode["order"])
}

func TestList_EmptyLogIsNotAnError(t *testing.T) {
	s := newTestStore(t)

	all, err := s.List(ListOptions{})
	require.NoError(t, err)
	require.Empty(t, all)

	st, err := s.Stats()
	require.NoError(t, err)
	require.Zero(t, st.Total)
}

func TestAppendRating_RejectsUnknownValue(t *testing.T) {
	s := newTestStore(t)

	err := s.AppendRating(domain.Rating{
		SessionID: "sess-1",
		TargetTS:  "2026-08-01T10:00:00Z",
		Rating:    "excellent",
	})
	require.ErrorIs(t, err, domain.ErrInvalidRating)
}
