package library

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/driftline/cratectl/internal/archive"
	"github.com/driftline/cratectl/internal/logging"
	"github.com/driftline/cratectl/internal/manifest"
)

func newLibraryFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "lib.crate")
	if err := archive.Create(p, name, archive.DefaultPolicy()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func add(t *testing.T, p string, opts archive.AddOptions, payload []byte) *manifest.Asset {
	t.Helper()
	m, err := archive.LoadManifest(p, logging.Nop())
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	a, err := archive.AddAsset(p, m, payload, opts, archive.DefaultPolicy())
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	return a
}

// forceExtracted swaps the loader onto the extraction strategy for
// the same archive, bypassing the lazy attempt.
func forceExtracted(t *testing.T, l *Loader, path string) {
	t.Helper()
	ex, err := archive.OpenExtracted(path, logging.Nop())
	if err != nil {
		t.Fatalf("OpenExtracted: %v", err)
	}
	m, err := ex.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	l.mu.Lock()
	l.unloadLocked()
	l.install(path, StrategyExtracted, ex, m)
	l.mu.Unlock()
}

// --- empty state ---

func TestUnloaded_QueriesAreNoOps(t *testing.T) {
	l := New(logging.Nop())

	if l.Loaded() {
		t.Error("fresh loader reports loaded")
	}
	if got := l.Assets(); len(got) != 0 {
		t.Errorf("Assets = %v", got)
	}
	if _, ok := l.Asset("x"); ok {
		t.Error("Asset found on empty loader")
	}
	if got := l.Search("anything"); len(got) != 0 {
		t.Errorf("Search = %v", got)
	}
	if got := l.Types(); len(got) != 0 {
		t.Errorf("Types = %v", got)
	}
	if info := l.Info(); info.AssetCount != 0 || info.Name != "" {
		t.Errorf("Info = %+v", info)
	}
	if thumb := l.AssetThumbnail(manifest.Asset{}); thumb != nil {
		t.Error("AssetThumbnail non-nil on empty loader")
	}

	// Unload on nothing must be a no-op, repeatedly.
	l.Unload()
	l.Unload()
}

// --- load / unload ---

func TestLoad_LazyStrategy(t *testing.T) {
	p := newLibraryFile(t, "Demo")
	l := New(logging.Nop())
	if err := l.Load(p); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer l.Unload()

	if l.Strategy() != StrategyLazy {
		t.Errorf("Strategy = %q, want lazy", l.Strategy())
	}
	info := l.Info()
	if info.Name != "Demo" || info.AssetCount != 0 {
		t.Errorf("Info = %+v", info)
	}
	if info.Strategy != StrategyLazy {
		t.Errorf("Info.Strategy = %q", info.Strategy)
	}
}

func TestLoad_InvalidPathFailsFast(t *testing.T) {
	l := New(logging.Nop())
	if err := l.Load(filepath.Join(t.TempDir(), "missing.crate")); err == nil {
		t.Error("Load of missing file should fail")
	}
	if l.Loaded() {
		t.Error("loader should remain unloaded after failure")
	}
	if err := l.Load("notanarchive.txt"); err == nil {
		t.Error("Load of wrong extension should fail")
	}
}

func TestLoad_ArchiveWithoutManifestFails(t *testing.T) {
	// A valid zip that is not a library: lazy fails (no manifest
	// entry), extraction fails parsing, loader ends Unloaded with
	// nothing held.
	p := filepath.Join(t.TempDir(), "hollow.crate")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	ew, _ := zw.Create("assets/orphan.bin")
	_, _ = ew.Write([]byte("no manifest"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	l := New(logging.Nop())
	if err := l.Load(p); err == nil {
		t.Error("Load should fail on archive without manifest")
	}
	if l.Loaded() || l.Strategy() != StrategyNone {
		t.Error("loader not fully unloaded after failed load")
	}
}

func TestLoad_ReplacesPreviousSession(t *testing.T) {
	p1 := newLibraryFile(t, "First")
	p2 := filepath.Join(t.TempDir(), "second.crate")
	if err := archive.Create(p2, "Second", archive.DefaultPolicy()); err != nil {
		t.Fatal(err)
	}

	l := New(logging.Nop())
	if err := l.Load(p1); err != nil {
		t.Fatal(err)
	}
	if err := l.Load(p2); err != nil {
		t.Fatal(err)
	}
	defer l.Unload()
	if l.Info().Name != "Second" {
		t.Errorf("active library = %q, want Second", l.Info().Name)
	}
}

func TestUnload_ReleasesScratchDir(t *testing.T) {
	p := newLibraryFile(t, "Demo")
	l := New(logging.Nop())
	forceExtracted(t, l, p)

	ex, ok := l.src.(*archive.Extracted)
	if !ok {
		t.Fatalf("src is %T, want *archive.Extracted", l.src)
	}
	dir := ex.ScratchDir()
	l.Unload()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("scratch dir survives Unload")
	}
}

// --- strategy transparency ---

func TestStrategies_AgreeOnRecordsAndBytes(t *testing.T) {
	p := newLibraryFile(t, "Demo")
	payload := bytes.Repeat([]byte{1, 2, 3, 4}, 256)
	add(t, p, archive.AddOptions{SourceName: "grass.png", Tags: []string{"ui"}}, payload)
	add(t, p, archive.AddOptions{SourceName: "click.wav", Group: "SFX"}, []byte("audio"))

	lazy := New(logging.Nop())
	if err := lazy.Load(p); err != nil {
		t.Fatal(err)
	}
	defer lazy.Unload()
	if lazy.Strategy() != StrategyLazy {
		t.Fatalf("expected lazy strategy, got %q", lazy.Strategy())
	}

	extracted := New(logging.Nop())
	forceExtracted(t, extracted, p)
	defer extracted.Unload()

	la, ea := lazy.Assets(), extracted.Assets()
	if len(la) != len(ea) {
		t.Fatalf("asset counts differ: %d vs %d", len(la), len(ea))
	}
	ids := func(assets []manifest.Asset) []string {
		out := make([]string, len(assets))
		for i, a := range assets {
			out[i] = a.ID
		}
		sort.Strings(out)
		return out
	}
	li, ei := ids(la), ids(ea)
	for i := range li {
		if li[i] != ei[i] {
			t.Fatalf("record sets differ: %v vs %v", li, ei)
		}
	}

	for _, a := range la {
		lb, err := lazy.AssetFile(a)
		if err != nil {
			t.Fatalf("lazy AssetFile(%s): %v", a.ID, err)
		}
		eb, err := extracted.AssetFile(a)
		if err != nil {
			t.Fatalf("extracted AssetFile(%s): %v", a.ID, err)
		}
		if !bytes.Equal(lb, eb) {
			t.Errorf("strategies disagree on bytes for %s", a.ID)
		}
	}
}

// --- queries ---

func TestQueries_FiltersAndDistinctSets(t *testing.T) {
	p := newLibraryFile(t, "Demo")
	add(t, p, archive.AddOptions{SourceName: "grass.png", Tags: []string{"Ground", "ui"}, Group: "Environment"}, []byte("g"))
	add(t, p, archive.AddOptions{SourceName: "click.wav", Tags: []string{"UI"}, Group: "SFX"}, []byte("c"))
	add(t, p, archive.AddOptions{SourceName: "hero.fbx"}, []byte("h"))

	l := New(logging.Nop())
	if err := l.Load(p); err != nil {
		t.Fatal(err)
	}
	defer l.Unload()

	if got := l.Search("GRASS"); len(got) != 1 {
		t.Errorf("Search(GRASS) = %d results", len(got))
	}
	if got := l.FilterBy(manifest.Filter{Tag: "ui"}); len(got) != 2 {
		t.Errorf("Tag ui = %d results, want 2", len(got))
	}
	if got := l.FilterBy(manifest.Filter{Group: "sfx"}); len(got) != 1 {
		t.Errorf("Group sfx = %d results, want 1", len(got))
	}
	if got := l.FilterBy(manifest.Filter{Group: ""}); len(got) != 3 {
		t.Errorf("empty group filter = %d results, want all 3", len(got))
	}

	wantTypes := []string{"audio", "model", "texture"}
	gotTypes := l.Types()
	if len(gotTypes) != len(wantTypes) {
		t.Fatalf("Types = %v", gotTypes)
	}
	for i := range wantTypes {
		if gotTypes[i] != wantTypes[i] {
			t.Errorf("Types[%d] = %q, want %q", i, gotTypes[i], wantTypes[i])
		}
	}

	gotTags := l.Tags()
	if len(gotTags) != 2 || gotTags[0] != "ground" || gotTags[1] != "ui" {
		t.Errorf("Tags = %v, want [ground ui]", gotTags)
	}
	if gotGroups := l.Groups(); len(gotGroups) != 2 {
		t.Errorf("Groups = %v", gotGroups)
	}
}

func TestAssetThumbnail_Fallbacks(t *testing.T) {
	p := newLibraryFile(t, "Demo")
	texPayload := []byte("image payload")
	tex := add(t, p, archive.AddOptions{SourceName: "grass.png"}, texPayload)
	snd := add(t, p, archive.AddOptions{SourceName: "click.wav"}, []byte("audio"))
	withThumb := add(t, p, archive.AddOptions{
		SourceName: "hero.fbx", Thumbnail: []byte("hero preview"), ThumbnailName: "hero.png",
	}, []byte("model"))

	l := New(logging.Nop())
	if err := l.Load(p); err != nil {
		t.Fatal(err)
	}
	defer l.Unload()

	a, _ := l.Asset(withThumb.ID)
	if got := l.AssetThumbnail(a); string(got) != "hero preview" {
		t.Errorf("explicit thumbnail = %q", got)
	}

	// Image asset without a thumbnail serves its own payload.
	a, _ = l.Asset(tex.ID)
	if got := l.AssetThumbnail(a); !bytes.Equal(got, texPayload) {
		t.Errorf("texture self-thumbnail = %q", got)
	}

	// Non-image asset without a thumbnail has none, not an error.
	a, _ = l.Asset(snd.ID)
	if got := l.AssetThumbnail(a); got != nil {
		t.Errorf("audio thumbnail = %q, want nil", got)
	}

	// Dangling thumbnail path resolves to nil, never an error.
	a.ThumbnailPath = "thumbnails/ghost.png"
	if got := l.AssetThumbnail(a); got != nil {
		t.Errorf("missing thumbnail entry = %q, want nil", got)
	}
}

// --- end-to-end scenario ---

func TestScenario_DemoLibraryLifecycle(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "demo.crate")
	pol := archive.DefaultPolicy()

	if err := archive.Create(p, "Demo", pol); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l := New(logging.Nop())
	if err := l.Load(p); err != nil {
		t.Fatal(err)
	}
	defer l.Unload()
	if l.Info().AssetCount != 0 {
		t.Fatalf("new library asset count = %d", l.Info().AssetCount)
	}

	m, err := archive.LoadManifest(p, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}
	a, err := archive.AddAsset(p, m, []byte("texture bytes"), archive.AddOptions{
		SourceName: "button.png", Tags: []string{"ui"},
	}, pol)
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}

	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if l.Info().AssetCount != 1 {
		t.Fatalf("asset count after add = %d", l.Info().AssetCount)
	}
	byTag := l.FilterBy(manifest.Filter{Tag: "ui"})
	if len(byTag) != 1 || byTag[0].ID != a.ID {
		t.Fatalf("GetAssetsByTag(ui) = %+v", byTag)
	}

	group := "UI Elements"
	if _, err := archive.UpdateAsset(p, m, a.ID, archive.UpdateFields{Group: &group}, pol); err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if got := l.FilterBy(manifest.Filter{Group: "UI Elements"}); len(got) != 1 {
		t.Fatalf("group filter after update = %+v", got)
	}
	if got := l.FilterBy(manifest.Filter{Group: ""}); len(got) != 1 {
		t.Fatalf("empty group filter should not filter, got %d", len(got))
	}

	oldRel := a.RelativePath
	if _, err := archive.DeleteAsset(p, m, a.ID, pol); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if err := l.Reload(); err != nil {
		t.Fatal(err)
	}
	if l.Info().AssetCount != 0 {
		t.Fatalf("asset count after delete = %d", l.Info().AssetCount)
	}

	r, err := archive.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.FileExists(oldRel) {
		t.Error("deleted payload path still present in archive")
	}
}
