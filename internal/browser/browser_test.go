package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"Zebra", "albums", ".hidden"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, file := range []string{"b.mp3", "A.flac", "cover.jpg", ".secret.mp3", "albums/one.ogg"} {
		if err := os.WriteFile(filepath.Join(root, file), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestListing(t *testing.T) {
	b, err := New(setupTree(t))
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"albums", "Zebra", "A.flac", "b.mp3"}
	got := names(b.Entries())
	if len(got) != len(expected) {
		t.Fatalf("entries = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("entry %d = %q, expected %q", i, got[i], expected[i])
		}
	}

	entries := b.Entries()
	if !entries[0].IsDir || entries[0].IsAudio {
		t.Errorf("albums should be a directory: %+v", entries[0])
	}
	if entries[2].IsDir || !entries[2].IsAudio {
		t.Errorf("A.flac should be audio: %+v", entries[2])
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing start directory")
	}
}

func TestMoveClamps(t *testing.T) {
	b, _ := New(setupTree(t))

	b.MoveUp()
	if b.SelectedIndex() != 0 {
		t.Errorf("MoveUp at top: %d", b.SelectedIndex())
	}
	for i := 0; i < 10; i++ {
		b.MoveDown()
	}
	if b.SelectedIndex() != 3 {
		t.Errorf("MoveDown past end: %d, expected 3", b.SelectedIndex())
	}
}

func TestEnterSelectedDirectoryAndGoUp(t *testing.T) {
	root := setupTree(t)
	b, _ := New(root)

	intent, err := b.EnterSelected()
	if err != nil {
		t.Fatal(err)
	}
	if intent.Kind != IntentNone {
		t.Errorf("entering a directory should not produce a play intent: %+v", intent)
	}
	if b.CurrentPath() != filepath.Join(root, "albums") {
		t.Errorf("CurrentPath = %q", b.CurrentPath())
	}
	if got := names(b.Entries()); len(got) != 1 || got[0] != "one.ogg" {
		t.Errorf("entries = %v", got)
	}

	if err := b.GoUp(); err != nil {
		t.Fatal(err)
	}
	if b.CurrentPath() != root {
		t.Errorf("CurrentPath after GoUp = %q", b.CurrentPath())
	}
	if entry, _ := b.Selected(); entry.Name != "albums" {
		t.Errorf("GoUp should reselect the directory we left, got %q", entry.Name)
	}
}

func TestEnterSelectedFile(t *testing.T) {
	root := setupTree(t)
	b, _ := New(root)
	b.MoveDown()
	b.MoveDown()

	intent, err := b.EnterSelected()
	if err != nil {
		t.Fatal(err)
	}
	if intent.Kind != IntentPlayFile || intent.Path != filepath.Join(root, "A.flac") {
		t.Errorf("intent = %+v", intent)
	}
	if b.CurrentPath() != root {
		t.Error("playing a file should not change directory")
	}
}

func TestEnterUnreadableDirectoryStaysPut(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := setupTree(t)
	locked := filepath.Join(root, "albums")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(locked, 0755)

	b, _ := New(root)
	if _, err := b.EnterSelected(); err == nil {
		t.Fatal("expected error entering unreadable directory")
	}
	if b.CurrentPath() != root {
		t.Errorf("CurrentPath = %q, expected to stay at %q", b.CurrentPath(), root)
	}
}

func TestPlaySelectedFolder(t *testing.T) {
	root := setupTree(t)
	b, _ := New(root)

	intent := b.PlaySelectedFolder()
	if intent.Kind != IntentPlayFolder || intent.Path != filepath.Join(root, "albums") {
		t.Errorf("on a directory: %+v", intent)
	}

	b.MoveDown()
	b.MoveDown()
	intent = b.PlaySelectedFolder()
	if intent.Kind != IntentPlayFolder || intent.Path != root {
		t.Errorf("on a file: %+v", intent)
	}
}

func TestEmptyDirectory(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Selected(); ok {
		t.Error("empty directory should have no selection")
	}
	intent, err := b.EnterSelected()
	if err != nil || intent.Kind != IntentNone {
		t.Errorf("EnterSelected on empty = %+v, %v", intent, err)
	}
	if b.VisibleEntries() != nil {
		t.Error("expected no visible entries")
	}
}

func TestViewportFollowsSelection(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"1.mp3", "2.mp3", "3.mp3", "4.mp3", "5.mp3"} {
		os.WriteFile(filepath.Join(root, n), []byte("x"), 0644)
	}
	b, _ := New(root)
	b.SetViewportHeight(2)

	for i := 0; i < 3; i++ {
		b.MoveDown()
	}
	visible := names(b.VisibleEntries())
	if len(visible) != 2 || visible[0] != "3.mp3" || visible[1] != "4.mp3" {
		t.Errorf("visible = %v", visible)
	}
	if b.VisibleSelectedIndex() != 1 {
		t.Errorf("VisibleSelectedIndex = %d, expected 1", b.VisibleSelectedIndex())
	}

	for i := 0; i < 3; i++ {
		b.MoveUp()
	}
	if visible := names(b.VisibleEntries()); visible[0] != "1.mp3" {
		t.Errorf("visible after scrolling back = %v", visible)
	}
}

func TestRefreshKeepsSelection(t *testing.T) {
	root := setupTree(t)
	b, _ := New(root)
	b.MoveDown()
	b.MoveDown()
	b.MoveDown()

	if err := os.WriteFile(filepath.Join(root, "0.wav"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := b.Refresh(); err != nil {
		t.Fatal(err)
	}
	if entry, _ := b.Selected(); entry.Name != "b.mp3" {
		t.Errorf("selection after refresh = %q, expected b.mp3", entry.Name)
	}
}

func TestWatcherReportsNewFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := w.Watch(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "new.mp3"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
