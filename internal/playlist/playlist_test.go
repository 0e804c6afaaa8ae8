package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

// writeFiles creates empty files with the given names in a fresh temp
// directory and returns it.
func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func acceptAll(string) bool { return true }

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/music/a.mp3", true},
		{"/music/a.MP3", true},
		{"/music/a.wav", true},
		{"/music/a.ogg", true},
		{"/music/a.flac", true},
		{"/music/a.m4a", false},
		{"/music/a.txt", false},
		{"/music/noext", false},
	}
	for _, tt := range tests {
		if got := SupportedExtension(tt.path); got != tt.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	p := New()

	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
	if p.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", p.CurrentIndex())
	}
	if p.Current() != nil {
		t.Error("Current() should be nil on an empty playlist")
	}
}

func TestPlaylist_LoadDirectory(t *testing.T) {
	dir := writeFiles(t, "b.mp3", "a.flac", "c.ogg", "notes.txt", "d.wav")

	p := New()
	loaded, failed, err := p.LoadDirectory(dir, acceptAll)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if loaded != 4 {
		t.Errorf("loaded = %d, want 4", loaded)
	}
	if len(failed) != 0 {
		t.Errorf("failed = %v, want none", failed)
	}

	// Lexicographic order, non-audio files filtered out.
	want := []string{"a.flac", "b.mp3", "c.ogg", "d.wav"}
	tracks := p.Tracks()
	for i, name := range want {
		if filepath.Base(tracks[i].Path) != name {
			t.Errorf("tracks[%d] = %q, want %q", i, filepath.Base(tracks[i].Path), name)
		}
	}
}

func TestPlaylist_LoadDirectory_PartitionsFailedFiles(t *testing.T) {
	dir := writeFiles(t, "good1.mp3", "bad.mp3", "good2.mp3")

	p := New()
	validate := func(path string) bool {
		return filepath.Base(path) != "bad.mp3"
	}
	loaded, failed, err := p.LoadDirectory(dir, validate)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if loaded != 2 {
		t.Errorf("loaded = %d, want 2", loaded)
	}
	if len(failed) != 1 || filepath.Base(failed[0]) != "bad.mp3" {
		t.Errorf("failed = %v, want [bad.mp3]", failed)
	}
}

func TestPlaylist_LoadDirectory_ReplacesAndResetsCursor(t *testing.T) {
	dir1 := writeFiles(t, "a.mp3", "b.mp3")
	dir2 := writeFiles(t, "c.mp3")

	p := New()
	if _, _, err := p.LoadDirectory(dir1, acceptAll); err != nil {
		t.Fatal(err)
	}
	p.SetCurrent(1)

	loaded, _, err := p.LoadDirectory(dir2, acceptAll)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != 1 {
		t.Errorf("loaded = %d, want 1", loaded)
	}
	if p.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1 after replace", p.CurrentIndex())
	}
}

func TestPlaylist_LoadDirectory_EmptyDirectory(t *testing.T) {
	p := New()
	loaded, failed, err := p.LoadDirectory(t.TempDir(), acceptAll)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if loaded != 0 || len(failed) != 0 {
		t.Errorf("loaded, failed = %d, %v, want 0, none", loaded, failed)
	}
}

func TestPlaylist_LoadDirectory_NotADirectory(t *testing.T) {
	dir := writeFiles(t, "a.mp3")

	p := New()
	tests := []string{
		filepath.Join(dir, "a.mp3"), // a file
		filepath.Join(dir, "missing"),
	}
	for _, target := range tests {
		_, _, err := p.LoadDirectory(target, acceptAll)
		if !errors.Is(err, ErrNotADirectory) {
			t.Errorf("LoadDirectory(%q) error = %v, want ErrNotADirectory", target, err)
		}
	}
}

func TestPlaylist_AddFile(t *testing.T) {
	dir := writeFiles(t, "a.mp3")
	path := filepath.Join(dir, "a.mp3")

	p := New()
	if err := p.AddFile(path, acceptAll); err != nil {
		t.Fatalf("AddFile() error = %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
	if p.Track(0).Path != path {
		t.Errorf("Track(0).Path = %q, want %q", p.Track(0).Path, path)
	}
}

func TestPlaylist_AddFile_Errors(t *testing.T) {
	dir := writeFiles(t, "a.mp3", "b.txt")

	tests := []struct {
		name     string
		path     string
		validate Validator
		wantErr  error
	}{
		{"missing file", filepath.Join(dir, "missing.mp3"), acceptAll, ErrNotAFile},
		{"directory", dir, acceptAll, ErrNotAFile},
		{"unsupported extension", filepath.Join(dir, "b.txt"), acceptAll, ErrUnsupportedFormat},
		{"validation failure", filepath.Join(dir, "a.mp3"), func(string) bool { return false }, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			err := p.AddFile(tt.path, tt.validate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddFile() error = %v, want %v", err, tt.wantErr)
			}
			if p.Len() != 0 {
				t.Errorf("Len() = %d, want 0 (no mutation on error)", p.Len())
			}
		})
	}
}

func TestPlaylist_SetCurrent(t *testing.T) {
	dir := writeFiles(t, "a.mp3", "b.mp3")
	p := New()
	if _, _, err := p.LoadDirectory(dir, acceptAll); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		index int
		want  bool
	}{
		{0, true},
		{1, true},
		{2, false},
		{-1, false},
	}
	for _, tt := range tests {
		if got := p.SetCurrent(tt.index); got != tt.want {
			t.Errorf("SetCurrent(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestPlaylist_Tracks_ReturnsCopy(t *testing.T) {
	dir := writeFiles(t, "a.mp3")
	p := New()
	if _, _, err := p.LoadDirectory(dir, acceptAll); err != nil {
		t.Fatal(err)
	}

	snapshot := p.Tracks()
	snapshot[0].Path = "/mutated"

	if p.Track(0).Path == "/mutated" {
		t.Error("mutating the snapshot must not affect the playlist")
	}
}

func TestTrack_DisplayName(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{"title set", Track{Path: "/m/a.mp3", Title: "Song"}, "Song"},
		{"no title", Track{Path: "/m/a.mp3"}, "a.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
