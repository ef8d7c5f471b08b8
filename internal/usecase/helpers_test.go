package usecase

import (
	"testing"
	"time"
)

// pollDeadline gives async assertions a bounded spin-wait.
type pollDeadline struct {
	t     *testing.T
	until time.Time
}

func newDeadline(t *testing.T) *pollDeadline {
	t.Helper()
	return &pollDeadline{t: t, until: time.Now().Add(2 * time.Second)}
}

func (d *pollDeadline) tick(msg string) {
	d.t.Helper()
	if time.Now().After(d.until) {
		d.t.Fatalf("timed out: %s", msg)
	}
	time.Sleep(5 * time.Millisecond)
}
