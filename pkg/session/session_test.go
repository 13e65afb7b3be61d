package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/flockview/flockview/pkg/layout"
	"github.com/flockview/flockview/pkg/view"
)

func testParams() view.Params {
	return view.Params{
		SubgraphSize: 25,
		Seeds:        []string{"visakanv"},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close()

	// Missing session
	if _, err := store.Get(ctx, "tpot-core"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get of missing session should return ErrNotFound, got %v", err)
	}

	// Store a recorded frame
	sess := New("tpot-core", testParams(), "neato")
	sess.SnapshotPath = "snapshots/tpot.json"
	sess.Record(layout.PositionMap{"a": {X: 1, Y: 2}, "b": {X: -3, Y: 0.5}}, "hash123")
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Read it back
	got, err := store.Get(ctx, "tpot-core")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "tpot-core" {
		t.Errorf("Name = %q, want tpot-core", got.Name)
	}
	if got.Engine != "neato" {
		t.Errorf("Engine = %q, want neato", got.Engine)
	}
	if got.SnapshotPath != "snapshots/tpot.json" {
		t.Errorf("SnapshotPath = %q", got.SnapshotPath)
	}
	if got.Frames != 1 {
		t.Errorf("Frames = %d, want 1", got.Frames)
	}
	if got.ViewHash != "hash123" {
		t.Errorf("ViewHash = %q, want hash123", got.ViewHash)
	}
	if !reflect.DeepEqual(got.Positions, sess.Positions) {
		t.Errorf("Positions = %v, want %v", got.Positions, sess.Positions)
	}
	if !reflect.DeepEqual(got.Params.Seeds, []string{"visakanv"}) {
		t.Errorf("Params.Seeds = %v", got.Params.Seeds)
	}
}

func TestFileStoreRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close()

	for _, name := range []string{"", "../escape", "a/b", ".hidden", "null\x00byte"} {
		if _, err := store.Get(ctx, name); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) should reject the name, got %v", name, err)
		}
		if err := store.Set(ctx, New(name, testParams(), "")); err == nil {
			t.Errorf("Set(%q) should reject the name", name)
		}
		if err := store.Delete(ctx, name); err == nil {
			t.Errorf("Delete(%q) should reject the name", name)
		}
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close()

	// Empty store lists nothing
	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Empty store should list nothing, got %v", names)
	}

	for _, name := range []string{"beta", "alpha", "gamma"} {
		if err := store.Set(ctx, New(name, testParams(), "")); err != nil {
			t.Fatalf("Set(%q) error: %v", name, err)
		}
	}

	// Names come back sorted
	names, err = store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, New("doomed", testParams(), "")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete should return ErrNotFound, got %v", err)
	}

	// Deleting a missing session is not an error
	if err := store.Delete(ctx, "doomed"); err != nil {
		t.Errorf("Delete of missing session should not error: %v", err)
	}
}

func TestSessionRecord(t *testing.T) {
	sess := New("s", testParams(), "fdp")

	if sess.Frames != 0 {
		t.Errorf("New session Frames = %d, want 0", sess.Frames)
	}

	first := layout.PositionMap{"a": {X: 1, Y: 1}}
	sess.Record(first, "h1")
	if sess.Frames != 1 || sess.ViewHash != "h1" {
		t.Errorf("After first Record: frames %d hash %q", sess.Frames, sess.ViewHash)
	}

	second := layout.PositionMap{"a": {X: 2, Y: 2}, "b": {X: 0, Y: 0}}
	sess.Record(second, "h2")
	if sess.Frames != 2 || sess.ViewHash != "h2" {
		t.Errorf("After second Record: frames %d hash %q", sess.Frames, sess.ViewHash)
	}
	if !reflect.DeepEqual(sess.Positions, second) {
		t.Errorf("Positions should be replaced, got %v", sess.Positions)
	}
	if sess.UpdatedAt.Before(sess.CreatedAt) {
		t.Error("UpdatedAt should not precede CreatedAt")
	}
}
