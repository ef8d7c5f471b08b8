package usecase

import (
	"reflect"
	"testing"

	"moodmic/internal/domain"
)

func TestApplyTranscriptInterimReplacesSlotOnly(t *testing.T) {
	t.Parallel()

	state := SessionState{Interim: "old"}
	next, finalized := applyTranscript(state, domain.TranscriptEvent{Text: "hel", IsFinal: false})
	if finalized {
		t.Fatalf("interim event must not finalize")
	}
	if len(next.Entries) != 0 {
		t.Fatalf("interim event must not grow the log")
	}
	if next.Interim != "hel" {
		t.Fatalf("interim slot not replaced: %q", next.Interim)
	}
}

func TestApplyTranscriptFinalAppendsAndClearsInterim(t *testing.T) {
	t.Parallel()

	state := SessionState{Interim: "hello wor"}
	next, finalized := applyTranscript(state, domain.TranscriptEvent{Text: "hello world", TimestampMS: 42, IsFinal: true})
	if !finalized {
		t.Fatalf("final event must finalize")
	}
	if len(next.Entries) != 1 {
		t.Fatalf("expected log length 1, got %d", len(next.Entries))
	}
	if next.Entries[0].Text != "hello world" || next.Entries[0].TimestampMS != 42 || !next.Entries[0].IsFinal {
		t.Fatalf("unexpected entry: %+v", next.Entries[0])
	}
	if next.Interim != "" {
		t.Fatalf("interim slot not cleared")
	}
	if len(state.Entries) != 0 {
		t.Fatalf("reducer mutated its input")
	}
}

func TestApplySentimentLastWriteWins(t *testing.T) {
	t.Parallel()

	state := SessionState{}
	state = applySentiment(state, domain.SentimentResult{Score: 0.9, Label: domain.SentimentPositive, Mood: "happy", Keywords: []string{"happy"}})
	state = applySentiment(state, domain.SentimentResult{Score: 0.2, Label: domain.SentimentNegative, Mood: "gloomy", Keywords: []string{"gloomy"}})

	if state.Sentiment.Mood != "gloomy" || state.Sentiment.Score != 0.2 {
		t.Fatalf("expected last result to win, got %+v", state.Sentiment)
	}
	if !reflect.DeepEqual(state.Keywords, []string{"happy", "gloomy"}) {
		t.Fatalf("keywords must accumulate across results: %v", state.Keywords)
	}
}

func TestMergeKeywordsIsIdempotent(t *testing.T) {
	t.Parallel()

	merged := mergeKeywords([]string{"happy", "today"}, []string{"happy", "great", "", "today"})
	if !reflect.DeepEqual(merged, []string{"happy", "today", "great"}) {
		t.Fatalf("unexpected merge result: %v", merged)
	}
}
