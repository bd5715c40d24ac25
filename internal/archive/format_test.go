package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/manifest"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{`assets\texture\grass.png`, "assets/texture/grass.png"},
		{"./manifest.json", "manifest.json"},
		{"/assets/audio/click.wav", "assets/audio/click.wav"},
		{"thumbnails/a1.png", "thumbnails/a1.png"},
	}
	for _, c := range cases {
		if got := archive.NormalizePath(c.in); got != c.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAssetPath(t *testing.T) {
	got := archive.AssetPath(manifest.TypeTexture, "grass.png")
	if got != "assets/texture/grass.png" {
		t.Errorf("AssetPath = %q", got)
	}
	if got := archive.ThumbnailPath("a1.png"); got != "thumbnails/a1.png" {
		t.Errorf("ThumbnailPath = %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Grass Tile.PNG", "grass-tile.png"},
		{"  weird//name  .wav", "weird-name.wav"},
		{"héllo.png", "hllo.png"},
		{"___", "___"},
		{"???", "asset"},
		{"UPPER.FBX", "upper.fbx"},
	}
	for _, c := range cases {
		if got := archive.SanitizeFileName(c.in); got != c.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want archive.Level
	}{
		{"store", archive.LevelStore},
		{"fastest", archive.LevelFastest},
		{"default", archive.LevelDefault},
		{"", archive.LevelDefault},
		{"MAX", archive.LevelMax},
	}
	for _, c := range cases {
		got, err := archive.ParseLevel(c.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", c.in, got, c.want)
		}
	}
	if _, err := archive.ParseLevel("turbo"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestValidateLibraryFile(t *testing.T) {
	dir := t.TempDir()

	if err := archive.ValidateLibraryFile(""); err == nil {
		t.Error("empty path should fail")
	}
	if err := archive.ValidateLibraryFile(filepath.Join(dir, "x.txt")); err == nil {
		t.Error("wrong extension should fail")
	}
	if err := archive.ValidateLibraryFile(filepath.Join(dir, "missing.crate")); err == nil {
		t.Error("missing file should fail")
	}

	notZip := filepath.Join(dir, "fake.crate")
	if err := os.WriteFile(notZip, []byte("plain text"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := archive.ValidateLibraryFile(notZip); err == nil {
		t.Error("non-zip content should fail")
	}

	real := filepath.Join(dir, "real.crate")
	if err := archive.Create(real, "Demo", archive.DefaultPolicy()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := archive.ValidateLibraryFile(real); err != nil {
		t.Errorf("valid archive rejected: %v", err)
	}
}

func TestIsLibraryPath(t *testing.T) {
	if !archive.IsLibraryPath("lib.crate") || !archive.IsLibraryPath("lib.ZIP") {
		t.Error("expected .crate and .zip to be accepted")
	}
	if archive.IsLibraryPath("lib.tar.gz") {
		t.Error(".tar.gz should be rejected")
	}
}
