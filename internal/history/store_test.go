package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/smcclab/video-stitcher/internal/history"
	"github.com/smcclab/video-stitcher/internal/testsupport"
)

func TestStoreAddAndRecent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	started := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)

	records := []history.Record{
		{RunID: "run-1", Session: "S1", Items: 3, Skipped: 1, OutputPath: "/out/video_S1.mp4", Status: history.StatusRendered, StartedAt: started, FinishedAt: started.Add(30 * time.Second)},
		{RunID: "run-1", Session: "S2", Status: history.StatusFailed, ErrorText: "no renderable items", StartedAt: started, FinishedAt: started.Add(time.Second)},
		{RunID: "run-2", Session: "S1", Items: 3, Status: history.StatusFresh, OutputPath: "/out/video_S1.mp4", StartedAt: started.Add(time.Minute), FinishedAt: started.Add(61 * time.Second)},
	}
	for _, rec := range records {
		if err := store.Add(ctx, rec); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recent))
	}
	// Newest first.
	if recent[0].RunID != "run-2" || recent[0].Status != history.StatusFresh {
		t.Fatalf("unexpected newest record: %+v", recent[0])
	}
	if recent[2].Session != "S1" || recent[2].Items != 3 || recent[2].Skipped != 1 {
		t.Fatalf("unexpected oldest record: %+v", recent[2])
	}
	if !recent[2].StartedAt.Equal(started) {
		t.Fatalf("timestamp roundtrip: got %v want %v", recent[2].StartedAt, started)
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 5; i++ {
		rec := history.Record{RunID: "run", Session: "S", Status: history.StatusRendered, StartedAt: now, FinishedAt: now}
		if err := store.Add(ctx, rec); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
}

func TestOpenTwiceReusesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	path := store.Path()
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = history.Open(cfg)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("path changed between opens: %q vs %q", store.Path(), path)
	}
}
