package usecase

import (
	"moodmic/internal/domain"
)

// SessionState is the explicit mood state owned by the transcript router.
// Updates are expressed as pure reducers (old state + event -> new state) so
// the last-write-wins and accumulation behaviors are independently testable.
type SessionState struct {
	// Entries is the ordered log of finalized transcript segments.
	Entries []domain.TranscriptEntry
	// Interim holds at most one live provisional transcript.
	Interim string
	// Sentiment is the most recently resolved result, in resolution order.
	Sentiment    domain.SentimentResult
	HasSentiment bool
	// Keywords grows monotonically for the session; exact-string dedup.
	Keywords []string
}

// applyTranscript folds one transcript event into the state. The returned
// flag reports whether a final entry was appended (and therefore needs a
// sentiment request).
func applyTranscript(state SessionState, event domain.TranscriptEvent) (SessionState, bool) {
	if !event.IsFinal {
		state.Interim = event.Text
		return state, false
	}

	entry := domain.TranscriptEntry{
		Text:        event.Text,
		TimestampMS: event.TimestampMS,
		IsFinal:     true,
	}
	entries := make([]domain.TranscriptEntry, len(state.Entries), len(state.Entries)+1)
	copy(entries, state.Entries)
	state.Entries = append(entries, entry)
	state.Interim = ""
	return state, true
}

// applySentiment folds one resolved sentiment result into the state.
// Results overwrite the current sentiment in resolution order; keywords are
// merged in and never removed.
func applySentiment(state SessionState, result domain.SentimentResult) SessionState {
	state.Sentiment = result
	state.HasSentiment = true
	state.Keywords = mergeKeywords(state.Keywords, result.Keywords)
	return state
}

func mergeKeywords(existing []string, incoming []string) []string {
	merged := make([]string, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	seen := make(map[string]struct{}, len(merged))
	for _, keyword := range merged {
		seen[keyword] = struct{}{}
	}
	for _, keyword := range incoming {
		if keyword == "" {
			continue
		}
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		merged = append(merged, keyword)
	}
	return merged
}

// snapshot returns a defensive copy safe to hand outside the router's lock.
func (s SessionState) snapshot() SessionState {
	out := s
	out.Entries = append([]domain.TranscriptEntry(nil), s.Entries...)
	out.Keywords = append([]string(nil), s.Keywords...)
	return out
}
