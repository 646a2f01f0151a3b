package sequence

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type stubStore struct {
	codes []string
	err   error
}

func (s stubStore) CodesLike(_ context.Context, _ string) ([]string, error) {
	return s.codes, s.err
}

func fixedClock() time.Time {
	return time.Date(2025, time.November, 14, 10, 0, 0, 0, time.UTC)
}

func newTestGenerator(store Store) *Generator {
	return NewGenerator(store, slog.Default()).WithClock(fixedClock)
}

func TestNextStartsSeriesAtOne(t *testing.T) {
	g := newTestGenerator(stubStore{})
	got := g.Next(context.Background(), PrefixFor("IM"))
	if got != "GAN-IM-25/11/001" {
		t.Fatalf("got %q", got)
	}
}

func TestNextUsesMaxPlusOne(t *testing.T) {
	g := newTestGenerator(stubStore{codes: []string{
		"GAN-IM-25/11/001",
		"GAN-IM-25/11/003",
	}})
	got := g.Next(context.Background(), PrefixFor("IM"))
	if got != "GAN-IM-25/11/004" {
		t.Fatalf("gap should not be reused, got %q", got)
	}
}

func TestNextSkipsMalformedSuffixes(t *testing.T) {
	g := newTestGenerator(stubStore{codes: []string{
		"GAN-EA-25/11/002",
		"GAN-EA-25/11/borrador",
	}})
	got := g.Next(context.Background(), PrefixFor("EA"))
	if got != "GAN-EA-25/11/003" {
		t.Fatalf("got %q", got)
	}
}

func TestNextWidensPastThreeDigits(t *testing.T) {
	g := newTestGenerator(stubStore{codes: []string{"GAN-OP-25/11/999"}})
	got := g.Next(context.Background(), OperationPrefix)
	if got != "GAN-OP-25/11/1000" {
		t.Fatalf("got %q", got)
	}
}

func TestNextFallsBackOnStoreError(t *testing.T) {
	g := newTestGenerator(stubStore{err: errors.New("connection refused")})
	got := g.Next(context.Background(), PrefixFor("IM"))
	if got != "GAN-IM-25/11/001" {
		t.Fatalf("store outage must still yield a code, got %q", got)
	}
}

func TestPrefixFor(t *testing.T) {
	cases := map[string]string{
		"IA": "GAN-IA",
		"IM": "GAN-IM",
		"EA": "GAN-EA",
		"EM": "GAN-EM",
		"IT": "GAN-IT",
		"ET": "GAN-ET",
		"MC": "GAN-MC",
		"CO": "GAN-CO",
		"ZZ": "GAN-XX",
		"":   "GAN-XX",
	}
	for opType, want := range cases {
		if got := PrefixFor(opType); got != want {
			t.Errorf("PrefixFor(%q) = %q, want %q", opType, got, want)
		}
	}
}
