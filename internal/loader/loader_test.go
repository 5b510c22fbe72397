package loader_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"equalizer/internal/loader"
	"equalizer/internal/pipeline"
	"equalizer/internal/testsupport"
)

type fakeCameras struct {
	order      []string
	configured map[string]loader.Sequence
}

func newFakeCameras() *fakeCameras {
	return &fakeCameras{configured: map[string]loader.Sequence{}}
}

func (f *fakeCameras) Create(name string) (string, error) {
	assigned := name
	for i := 1; contains(f.order, assigned); i++ {
		assigned = fmt.Sprintf("%s_%d", name, i)
	}
	f.order = append(f.order, assigned)
	return assigned, nil
}

func (f *fakeCameras) Names() ([]string, error) {
	return append([]string(nil), f.order...), nil
}

func (f *fakeCameras) Configure(name string, seq loader.Sequence) error {
	f.configured[name] = seq
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func TestFrameRange(t *testing.T) {
	tests := []struct {
		name       string
		attrs      map[string]any
		start, end int
		wantErr    bool
	}{
		{"handles", map[string]any{"frameStart": 1001, "frameEnd": 1100, "handleStart": 8, "handleEnd": 8}, 993, 1108, false},
		{"no handles", map[string]any{"frameStart": json.Number("1"), "frameEnd": json.Number("50")}, 1, 50, false},
		{"floats", map[string]any{"frameStart": 1001.0, "frameEnd": "1010"}, 1001, 1010, false},
		{"missing end", map[string]any{"frameStart": 1}, 0, 0, true},
		{"bad type", map[string]any{"frameStart": true, "frameEnd": 2}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := loader.FrameRange(tt.attrs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FrameRange: %v", err)
			}
			if start != tt.start || end != tt.end {
				t.Fatalf("got %d-%d want %d-%d", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	dir := t.TempDir()
	first := testsupport.WriteSequence(t, dir, "plate.%04d.exr", 1001, 1003)

	got, err := loader.FormatPath(first, "1001")
	if err != nil {
		t.Fatalf("FormatPath: %v", err)
	}
	want := filepath.ToSlash(filepath.Join(dir, "plate.####.exr"))
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	single, err := loader.FormatPath(first, "")
	if err != nil {
		t.Fatalf("FormatPath single: %v", err)
	}
	if single != filepath.ToSlash(first) {
		t.Fatalf("single image path changed: %q", single)
	}

	if _, err := loader.FormatPath(filepath.Join(dir, "missing.1001.exr"), "1001"); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestLoadAndUpdatePlate(t *testing.T) {
	dir := t.TempDir()
	v1 := testsupport.WriteSequence(t, filepath.Join(dir, "v001"), "plate.%04d.exr", 1001, 1002)
	v2 := testsupport.WriteSequence(t, filepath.Join(dir, "v002"), "plate.%04d.exr", 1001, 1002)

	reg, _ := testsupport.NewMemoryRegistry(t, "")
	cams := newFakeCameras()
	plate := loader.NewPlate(reg, cams, nil)

	ctx := loader.Context{
		ProductType:    "plate",
		Representation: loader.Representation{ID: "rep-1", Path: v1, Context: map[string]any{"frame": "1001"}},
		Version:        loader.Version{Version: 1, Attributes: map[string]any{"frameStart": 1001, "frameEnd": 1002, "handleStart": 1, "fps": 24}},
	}
	c, err := plate.Load(ctx, "plateMain")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Namespace != "plateMain" || c.Loader != loader.LoaderName || c.Version != "1" || c.Timestamp == 0 {
		t.Fatalf("unexpected container %#v", c)
	}
	seq := cams.configured["plateMain"]
	if seq.Start != 1000 || seq.End != 1002 || seq.Offset != 1000 || seq.FPS != 24 || !strings.HasSuffix(seq.Path, "v001/plate.####.exr") {
		t.Fatalf("unexpected sequence %#v", seq)
	}

	// a second load with the same name lands on a new camera
	second, err := plate.Load(ctx, "plateMain")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if second.Namespace != "plateMain_1" {
		t.Fatalf("unexpected namespace %q", second.Namespace)
	}

	ctx.Representation = loader.Representation{ID: "rep-2", Path: v2, Context: map[string]any{"frame": "1001"}}
	ctx.Version.Version = 2
	updated, err := plate.Update(c, ctx)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Representation != "rep-2" || updated.Version != "2" {
		t.Fatalf("unexpected updated container %#v", updated)
	}

	containers, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(containers) != 2 || containers[1].Namespace != "plateMain" || containers[1].Representation != "rep-2" {
		t.Fatalf("unexpected containers %#v", containers)
	}
	if !strings.HasSuffix(cams.configured["plateMain"].Path, "v002/plate.####.exr") {
		t.Fatalf("camera not re-pointed: %#v", cams.configured["plateMain"])
	}
}

func TestUpdateMissingCamera(t *testing.T) {
	reg, _ := testsupport.NewMemoryRegistry(t, "")
	plate := loader.NewPlate(reg, newFakeCameras(), nil)

	c := pipeline.NewContainer("plateMain", "ghostCamera")
	c.Loader = loader.LoaderName
	_, err := plate.Update(c, loader.Context{})
	if !errors.Is(err, loader.ErrCameraNotFound) {
		t.Fatalf("expected ErrCameraNotFound, got %v", err)
	}
}

func TestLoadRejectsUnsupportedProduct(t *testing.T) {
	reg, _ := testsupport.NewMemoryRegistry(t, "")
	plate := loader.NewPlate(reg, newFakeCameras(), nil)

	_, err := plate.Load(loader.Context{ProductType: "model", Representation: loader.Representation{Path: "/x/model.abc"}}, "m")
	if err == nil {
		t.Fatal("expected error for unsupported product")
	}
	if !loader.Accepts("render", ".EXR") || loader.Accepts("render", "mov") {
		t.Fatal("unexpected Accepts result")
	}
}
