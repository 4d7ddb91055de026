package ranker

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"image-ranker/internal"
	"image-ranker/internal/logging"
	"image-ranker/internal/model"
	"image-ranker/internal/source"
)

var (
	red    = color.NRGBA{R: 255, A: 255}
	blue   = color.NRGBA{B: 255, A: 255}
	purple = color.NRGBA{R: 255, B: 255, A: 255}
)

func writePNG(t *testing.T, dir, name string, w, h int, fill func(x, y int) color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill(x, y))
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeSolid(t *testing.T, dir, name string, w, h int, c color.Color) {
	writePNG(t, dir, name, w, h, func(int, int) color.Color { return c })
}

// redBlueFolder is A (red), B (red, other size), C (blue).
func redBlueFolder(t *testing.T) string {
	dir := t.TempDir()
	writeSolid(t, dir, "A.png", 16, 16, red)
	writeSolid(t, dir, "B.png", 40, 24, red)
	writeSolid(t, dir, "C.png", 16, 16, blue)
	return dir
}

func newRanker(workers int) (*Ranker, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(internal.Config{Workers: workers}, logging.NewWriter(&buf)), &buf
}

func names(ms []model.Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestFindTopKRedBlue(t *testing.T) {
	dir := redBlueFolder(t)
	r, _ := newRanker(2)

	got, err := r.FindTopK(context.Background(), source.NewDir(dir), "A.png", 2)
	if err != nil {
		t.Fatalf("FindTopK() error = %v", err)
	}
	if want := []string{"B.png", "C.png"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("FindTopK() = %v, want %v", names(got), want)
	}
	if math.Abs(got[0].Score-1) > 1e-6 {
		t.Errorf("score of B = %v, want ~1", got[0].Score)
	}
	if got[1].Score >= 1 {
		t.Errorf("score of C = %v, want < 1", got[1].Score)
	}
}

func TestFindTopKReferenceByPath(t *testing.T) {
	dir := redBlueFolder(t)
	r, _ := newRanker(1)

	got, err := r.FindTopK(context.Background(), source.NewDir(dir), filepath.Join(dir, "A.png"), 5)
	if err != nil {
		t.Fatalf("FindTopK() error = %v", err)
	}
	if want := []string{"B.png", "C.png"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("FindTopK() = %v, want %v", names(got), want)
	}
}

func TestFindTopKReferenceOutsideFolder(t *testing.T) {
	dir := redBlueFolder(t)
	other := t.TempDir()
	writeSolid(t, other, "A.png", 8, 8, red)
	r, _ := newRanker(1)

	got, err := r.FindTopK(context.Background(), source.NewDir(dir), filepath.Join(other, "A.png"), 5)
	if err != nil {
		t.Fatalf("FindTopK() error = %v", err)
	}
	// Only an entry of the folder itself is excluded.
	if want := []string{"A.png", "B.png", "C.png"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("FindTopK() = %v, want %v", names(got), want)
	}
}

func TestFindTopKLength(t *testing.T) {
	dir := redBlueFolder(t)
	r, _ := newRanker(3)

	for _, tt := range []struct{ k, want int }{{0, 0}, {1, 1}, {2, 2}, {5, 2}, {-3, 0}} {
		got, err := r.FindTopK(context.Background(), source.NewDir(dir), "C.png", tt.k)
		if err != nil {
			t.Fatalf("FindTopK(k=%d) error = %v", tt.k, err)
		}
		if len(got) != tt.want {
			t.Errorf("len(FindTopK(k=%d)) = %d, want %d", tt.k, len(got), tt.want)
		}
		if got == nil {
			t.Errorf("FindTopK(k=%d) returned nil slice", tt.k)
		}
	}
}

func TestFindTopKOnlyReference(t *testing.T) {
	dir := t.TempDir()
	writeSolid(t, dir, "A.png", 4, 4, red)
	r, logs := newRanker(1)

	got, err := r.FindTopK(context.Background(), source.NewDir(dir), "A.png", 5)
	if err != nil {
		t.Fatalf("FindTopK() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindTopK() = %v, want empty", got)
	}
	if !strings.Contains(logs.String(), "no comparable candidates") {
		t.Errorf("expected a warning, logs: %q", logs.String())
	}
}

func TestFindTopKSkipsUndecodable(t *testing.T) {
	dir := redBlueFolder(t)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empty.jpg"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		t.Fatal(err)
	}
	r, logs := newRanker(4)

	ranking, err := r.Rank(context.Background(), source.NewDir(dir), "A.png", 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if want := []string{"B.png", "C.png"}; !reflect.DeepEqual(names(ranking.Matches), want) {
		t.Errorf("matches = %v, want %v", names(ranking.Matches), want)
	}
	var skipped []string
	for _, s := range ranking.Skipped {
		skipped = append(skipped, s.Name)
	}
	if want := []string{"empty.jpg", "notes.txt"}; !reflect.DeepEqual(skipped, want) {
		t.Errorf("skipped = %v, want %v", skipped, want)
	}
	if n := strings.Count(logs.String(), "WARN "); n != 2 {
		t.Errorf("got %d warnings, want one per skipped file: %q", n, logs.String())
	}
	if ranking.Reference != "A.png" || ranking.Folder != dir {
		t.Errorf("ranking header = %q, %q", ranking.Reference, ranking.Folder)
	}
}

func TestFindTopKFatalErrors(t *testing.T) {
	dir := redBlueFolder(t)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, _ := newRanker(1)

	tests := []struct {
		name   string
		folder string
		ref    string
		want   error
	}{
		{"missing reference", dir, "nope.png", model.ErrNotFound},
		{"missing folder", filepath.Join(dir, "nope"), filepath.Join(dir, "A.png"), model.ErrNotFound},
		{"undecodable reference", dir, "notes.txt", model.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.FindTopK(context.Background(), source.NewDir(tt.folder), tt.ref, 5)
			if !errors.Is(err, tt.want) {
				t.Errorf("FindTopK() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFindTopKProperties(t *testing.T) {
	dir := t.TempDir()
	fills := map[string]func(x, y int) color.Color{
		"ref.png":   func(x, y int) color.Color { return color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 90, A: 255} },
		"red.png":   func(int, int) color.Color { return red },
		"blue.png":  func(int, int) color.Color { return blue },
		"mix.png":   func(x, _ int) color.Color { return []color.Color{red, purple}[x%2] },
		"grad.png":  func(x, y int) color.Color { return color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 90, A: 255} },
		"grad2.png": func(x, y int) color.Color { return color.NRGBA{R: uint8(y * 8), G: uint8(x * 8), B: 200, A: 255} },
		"dup.png":   func(x, y int) color.Color { return color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 90, A: 255} },
	}
	for name, fill := range fills {
		writePNG(t, dir, name, 32, 32, fill)
	}

	seq, _ := newRanker(1)
	par, _ := newRanker(8)
	src := source.NewDir(dir)

	first, err := seq.FindTopK(context.Background(), src, "ref.png", 4)
	if err != nil {
		t.Fatalf("FindTopK() error = %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("len = %d, want 4", len(first))
	}
	if first[0].Name != "dup.png" {
		t.Errorf("best match = %s, want dup.png", first[0].Name)
	}
	for i, m := range first {
		if m.Name == "ref.png" {
			t.Errorf("reference returned as a match")
		}
		if i > 0 && m.Score > first[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %v > %v", i, m.Score, first[i-1].Score)
		}
	}

	again, err := seq.FindTopK(context.Background(), src, "ref.png", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Errorf("second run differs: %v vs %v", again, first)
	}

	parallel, err := par.FindTopK(context.Background(), src, "ref.png", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, parallel) {
		t.Errorf("parallel run differs: %v vs %v", parallel, first)
	}
}

func TestFindTopKTiesKeepListingOrder(t *testing.T) {
	dir := t.TempDir()
	writeSolid(t, dir, "a.png", 4, 4, blue)
	for _, name := range []string{"t1.png", "t2.png", "t3.png", "t4.png"} {
		writeSolid(t, dir, name, 4, 4, red)
	}
	r, _ := newRanker(4)

	got, err := r.FindTopK(context.Background(), source.NewDir(dir), "a.png", 4)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"t1.png", "t2.png", "t3.png", "t4.png"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("FindTopK() = %v, want %v", names(got), want)
	}
}

func TestNearDuplicateFlag(t *testing.T) {
	// images4 also compares proportions, so the copy keeps the aspect ratio.
	dir := t.TempDir()
	writeSolid(t, dir, "A.png", 16, 16, red)
	writeSolid(t, dir, "B.png", 48, 48, red)
	writeSolid(t, dir, "C.png", 16, 16, blue)
	r := New(internal.Config{Workers: 2, MarkDuplicates: true}, nil)

	got, err := r.FindTopK(context.Background(), source.NewDir(dir), "A.png", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].NearDuplicate || got[1].NearDuplicate {
		t.Errorf("near-duplicate flags = %v, %v; want true, false", got[0].NearDuplicate, got[1].NearDuplicate)
	}
}

func TestProgressAndCancel(t *testing.T) {
	dir := redBlueFolder(t)
	r, _ := newRanker(2)

	var calls atomic.Int32
	r.OnProgress = func(done, total int) {
		calls.Add(1)
		if total != 2 || done < 1 || done > 2 {
			t.Errorf("progress(%d, %d)", done, total)
		}
	}
	if _, err := r.FindTopK(context.Background(), source.NewDir(dir), "A.png", 5); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("progress called %d times, want 2", calls.Load())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.FindTopK(ctx, source.NewDir(dir), "A.png", 5); !errors.Is(err, context.Canceled) {
		t.Errorf("FindTopK() with cancelled ctx error = %v", err)
	}
}
