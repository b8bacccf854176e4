package services

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/kerbaras/comicenc/pkg/data"
)

func TestNewController(t *testing.T) {
	controller := NewController(nil, nil)

	if controller == nil {
		t.Fatal("NewController() returned nil")
	}
	if controller.logger == nil {
		t.Error("Controller logger not initialized")
	}

	history, err := controller.History(10)
	if err != nil || history != nil {
		t.Errorf("History() = %v, %v, want nothing without a repository", history, err)
	}
	if _, err := controller.ForgetVolume("any"); !errors.Is(err, data.ErrRecordNotFound) {
		t.Errorf("ForgetVolume() error = %v, want %v", err, data.ErrRecordNotFound)
	}
	if err := controller.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestControllerPlan(t *testing.T) {
	root := t.TempDir()
	createChapters(t, root, []string{"c1", "c2", "c3", "c4"}, 1)

	t.Run("defaults output to the chapters directory", func(t *testing.T) {
		req := &EncodeRequest{Input: root, Method: data.Compile{ChaptersPerVolume: 3}}
		plan, err := NewController(nil, nil).Plan(req)
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		if req.Options.OutputDir != root {
			t.Errorf("OutputDir = %s, want %s", req.Options.OutputDir, root)
		}
		if len(plan.Volumes) != 2 {
			t.Errorf("planned %d volumes, want 2", len(plan.Volumes))
		}
	})

	t.Run("defaults single output next to the chapters directory", func(t *testing.T) {
		req := &EncodeRequest{Input: root + string(filepath.Separator), Method: data.Single{}}
		if _, err := NewController(nil, nil).Plan(req); err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		single := req.Method.(data.Single)
		if want := filepath.Clean(root) + ".cbz"; single.Output != want {
			t.Errorf("Output = %s, want %s", single.Output, want)
		}
	})

	t.Run("missing output directory", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "volumes")
		req := &EncodeRequest{Input: root, Method: data.Each{}, Options: EncodeOptions{OutputDir: out}}
		if _, err := NewController(nil, nil).Plan(req); !errors.Is(err, data.ErrOutputDirNotFound) {
			t.Errorf("Plan() error = %v, want %v", err, data.ErrOutputDirNotFound)
		}

		req.CreateOutputDir = true
		if _, err := NewController(nil, nil).Plan(req); err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		if info, err := os.Stat(out); err != nil || !info.IsDir() {
			t.Errorf("output directory not created: %v", err)
		}
	})

	t.Run("range is validated before any lookup", func(t *testing.T) {
		req := &EncodeRequest{
			Input:  filepath.Join(root, "missing"),
			Method: data.Each{},
			Range:  data.Range{Start: intPtr(4), End: intPtr(2)},
		}
		if _, err := NewController(nil, nil).Plan(req); !errors.Is(err, data.ErrStartAfterEnd) {
			t.Errorf("Plan() error = %v, want %v", err, data.ErrStartAfterEnd)
		}
	})
}

func TestControllerEncode(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	createChapters(t, root, []string{"c1", "c2", "c3", "c4", "c5"}, 2)

	controller := NewController(nil, nil)
	var completed []int
	controller.OnProgress(func(p VolumeProgress) {
		if p.Status == "complete" {
			completed = append(completed, p.Volume)
		}
	})

	produced, err := controller.Encode(&EncodeRequest{
		Input:   root,
		Method:  data.Compile{ChaptersPerVolume: 2},
		Range:   data.Range{Start: intPtr(2)},
		Options: EncodeOptions{OutputDir: out},
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := []string{filepath.Join(out, "Volume-1.cbz"), filepath.Join(out, "Volume-2.cbz")}
	if !slices.Equal(produced, want) {
		t.Errorf("produced = %v, want %v", produced, want)
	}
	if !slices.Equal(completed, []int{1, 2}) {
		t.Errorf("completed = %v, want [1 2]", completed)
	}
}

func TestControllerEncode_ConflictingOptions(t *testing.T) {
	root := t.TempDir()
	createChapters(t, root, []string{"c1"}, 1)

	_, err := NewController(nil, nil).Encode(&EncodeRequest{
		Input:   root,
		Method:  data.Compile{ChaptersPerVolume: 1, SkipExisting: true},
		Options: EncodeOptions{AppendPageCount: true},
	})
	if !errors.Is(err, data.ErrConflictingOptions) {
		t.Fatalf("Encode() error = %v, want %v", err, data.ErrConflictingOptions)
	}

	if matches, _ := filepath.Glob(filepath.Join(root, "*.cbz")); len(matches) != 0 {
		t.Errorf("no volume should be written, found %v", matches)
	}
}

func TestControllerHistory(t *testing.T) {
	repo, err := data.NewDuckDBRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}

	root := t.TempDir()
	createChapters(t, root, []string{"Alpha", "Beta"}, 3)

	controller := NewController(nil, repo)
	defer controller.Close()

	if _, err := controller.Encode(&EncodeRequest{Input: root, Method: data.Each{}}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	history, err := controller.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History() returned %d records, want 2", len(history))
	}

	var paths []string
	for _, v := range history {
		paths = append(paths, filepath.Base(v.Path))
		if v.Method != "each" || v.Pages != 3 {
			t.Errorf("record = %+v", v)
		}
	}
	slices.Sort(paths)
	if !slices.Equal(paths, []string{"Alpha.cbz", "Beta.cbz"}) {
		t.Errorf("paths = %v", paths)
	}

	forgotten, err := controller.ForgetVolume(history[0].ID)
	if err != nil {
		t.Fatalf("ForgetVolume() error = %v", err)
	}
	if forgotten.Path != history[0].Path {
		t.Errorf("ForgetVolume() = %s, want %s", forgotten.Path, history[0].Path)
	}
	if _, err := os.Stat(forgotten.Path); err != nil {
		t.Errorf("archive should be kept: %v", err)
	}

	remaining, err := controller.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != history[1].ID {
		t.Errorf("History() after forget = %+v", remaining)
	}

	if _, err := controller.ForgetVolume(history[0].ID); !errors.Is(err, data.ErrRecordNotFound) {
		t.Errorf("ForgetVolume() twice error = %v, want %v", err, data.ErrRecordNotFound)
	}
}

func TestControllerDecodeAndRebuild(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.zip")
	createRebuildInput(t, input)

	controller := NewController(nil, nil)

	var last int
	output, files, err := controller.Decode(input, DecodeOptions{}, func(done, total int) { last = done })
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if output != filepath.Join(dir, "scan") || len(files) != 3 || last != 3 {
		t.Errorf("Decode() = %s, %v (progress %d)", output, files, last)
	}

	rebuilt, err := controller.Rebuild(input, RebuildOptions{TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if rebuilt != filepath.Join(dir, "scan.cbz") {
		t.Errorf("Rebuild() = %s", rebuilt)
	}
}
