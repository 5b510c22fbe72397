package pipeline_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"equalizer/internal/host"
	"equalizer/internal/metadata"
	"equalizer/internal/pipeline"
)

func newRegistry(t *testing.T, notes string) (*pipeline.Registry, *host.Memory) {
	t.Helper()
	h := host.NewMemory(notes)
	return pipeline.NewRegistry(metadata.NewNotesStore(h, nil), nil), h
}

func TestContainerUpsertScenario(t *testing.T) {
	reg, _ := newRegistry(t, "")

	first := pipeline.NewContainer("test", "A")
	first.Representation = "v1"
	if err := reg.AddContainer(first); err != nil {
		t.Fatalf("AddContainer v1: %v", err)
	}
	got, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 1 || got[0].Representation != "v1" || got[0].ID != pipeline.ContainerID {
		t.Fatalf("unexpected containers after v1: %#v", got)
	}

	second := pipeline.NewContainer("test", "A")
	second.Representation = "v2"
	if err := reg.AddContainer(second); err != nil {
		t.Fatalf("AddContainer v2: %v", err)
	}
	got, err = reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 1 || got[0].Representation != "v2" {
		t.Fatalf("expected single v2 container, got %#v", got)
	}
}

func TestContainerUpsertKeepsKeysUnique(t *testing.T) {
	reg, _ := newRegistry(t, "")

	adds := []struct{ name, namespace, rep string }{
		{"plate", "cam1", "r1"},
		{"plate", "cam2", "r2"},
		{"lens", "cam1", "r3"},
		{"plate", "cam1", "r4"},
		{"lens", "cam1", "r5"},
	}
	for _, a := range adds {
		c := pipeline.NewContainer(a.name, a.namespace)
		c.Representation = a.rep
		if err := reg.AddContainer(c); err != nil {
			t.Fatalf("AddContainer %v: %v", a, err)
		}
	}

	got, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	want := []string{"cam2/plate=r2", "cam1/plate=r4", "cam1/lens=r5"}
	if len(got) != len(want) {
		t.Fatalf("expected %d containers, got %#v", len(want), got)
	}
	for i, c := range got {
		if key := c.Key() + "=" + c.Representation; key != want[i] {
			t.Fatalf("container %d: got %s want %s", i, key, want[i])
		}
	}
}

func TestInvalidContainersAreFiltered(t *testing.T) {
	reg, _ := newRegistry(t, "")

	if err := reg.AddContainer(pipeline.Container{Name: "orphan"}); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	if err := reg.AddContainer(pipeline.NewContainer("plate", "cam1")); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	got, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 1 || got[0].Name != "plate" {
		t.Fatalf("expected only the valid container, got %#v", got)
	}
}

func TestContainerTimestampSurvives(t *testing.T) {
	reg, _ := newRegistry(t, "")
	c := pipeline.NewContainer("plate", "cam1")
	c.Timestamp = 1712345678901234567
	c.Version = "v003"
	if err := reg.AddContainer(c); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	got, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 1 || got[0] != c {
		t.Fatalf("expected %#v, got %#v", c, got)
	}
}

func TestContainersPreserveContext(t *testing.T) {
	reg, _ := newRegistry(t, "")
	if err := reg.UpdateContext(map[string]any{"folderPath": "/shots/sh010", "task": "track"}); err != nil {
		t.Fatalf("UpdateContext: %v", err)
	}
	if err := reg.AddContainer(pipeline.NewContainer("plate", "cam1")); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	ctx, err := reg.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if ctx["folderPath"] != "/shots/sh010" || ctx["task"] != "track" {
		t.Fatalf("context changed: %#v", ctx)
	}
}

func TestUpdateContextIgnoresEmpty(t *testing.T) {
	reg, h := newRegistry(t, "")
	if err := reg.UpdateContext(map[string]any{"task": "track"}); err != nil {
		t.Fatalf("UpdateContext: %v", err)
	}
	before, _ := h.GetNotes()
	if err := reg.UpdateContext(nil); err != nil {
		t.Fatalf("UpdateContext(nil): %v", err)
	}
	after, _ := h.GetNotes()
	if before != after {
		t.Fatalf("expected no write for empty context")
	}
}

func TestUpdateInstanceReplacesFieldSet(t *testing.T) {
	reg, _ := newRegistry(t, "")
	if err := reg.AddInstance(pipeline.Instance{"instance_id": "i1", "a": 1, "b": 2}); err != nil {
		t.Fatalf("AddInstance: %v", err)
	}
	if err := reg.UpdateInstance("i1", pipeline.Instance{"a": 9, "c": 3}); err != nil {
		t.Fatalf("UpdateInstance: %v", err)
	}

	got, err := reg.ListInstances("")
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one instance, got %#v", got)
	}
	want := map[string]any{"a": json.Number("9"), "c": json.Number("3")}
	if !reflect.DeepEqual(map[string]any(got[0]), want) {
		t.Fatalf("got %#v want %#v", got[0], want)
	}
}

func TestUpdateInstanceOnlyTouchesFirstMatch(t *testing.T) {
	reg, _ := newRegistry(t, "")
	dupes := []pipeline.Instance{
		{"instance_id": "i1", "n": "first"},
		{"instance_id": "i1", "n": "second"},
	}
	if err := reg.WriteInstances(dupes); err != nil {
		t.Fatalf("WriteInstances: %v", err)
	}
	if err := reg.UpdateInstance("i1", pipeline.Instance{"instance_id": "i1", "n": "updated"}); err != nil {
		t.Fatalf("UpdateInstance: %v", err)
	}
	got, err := reg.ListInstances("")
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 2 || got[0]["n"] != "updated" || got[1]["n"] != "second" {
		t.Fatalf("unexpected instances: %#v", got)
	}
}

func TestUpdateMissingInstanceAppends(t *testing.T) {
	reg, _ := newRegistry(t, "")
	fields := pipeline.Instance{"instance_id": "new", "creator_identifier": "c"}
	if err := reg.UpdateInstance("new", fields); err != nil {
		t.Fatalf("UpdateInstance: %v", err)
	}
	got, err := reg.ListInstances("c")
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "new" {
		t.Fatalf("expected appended instance, got %#v", got)
	}
}

func TestRemoveInstanceDropsDuplicates(t *testing.T) {
	reg, _ := newRegistry(t, "")
	list := []pipeline.Instance{
		{"instance_id": "i1", "creator_identifier": "a"},
		{"instance_id": "i2", "creator_identifier": "a"},
		{"instance_id": "i1", "creator_identifier": "b"},
	}
	if err := reg.WriteInstances(list); err != nil {
		t.Fatalf("WriteInstances: %v", err)
	}
	if err := reg.RemoveInstance("i1"); err != nil {
		t.Fatalf("RemoveInstance: %v", err)
	}
	if err := reg.RemoveInstance("missing"); err != nil {
		t.Fatalf("RemoveInstance missing: %v", err)
	}
	got, err := reg.ListInstances("")
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "i2" {
		t.Fatalf("expected only i2, got %#v", got)
	}
}

func TestListInstancesByCreator(t *testing.T) {
	reg, _ := newRegistry(t, "")
	for _, inst := range []pipeline.Instance{
		{"instance_id": "1", "creator_identifier": "matchmove"},
		{"instance_id": "2", "creator_identifier": "lens"},
		{"instance_id": "3", "creator_identifier": "matchmove"},
	} {
		if err := reg.AddInstance(inst); err != nil {
			t.Fatalf("AddInstance: %v", err)
		}
	}

	got, err := reg.ListInstances("matchmove")
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(got) != 2 || got[0].ID() != "1" || got[1].ID() != "3" {
		t.Fatalf("unexpected filtered instances: %#v", got)
	}
	none, err := reg.ListInstances("unknown")
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no instances, got %#v", none)
	}
}

func TestEmptyProjectReadsEmptyCollections(t *testing.T) {
	reg, _ := newRegistry(t, "free text only")
	containers, err := reg.ListContainers()
	if err != nil || len(containers) != 0 {
		t.Fatalf("expected no containers, got %#v (%v)", containers, err)
	}
	instances, err := reg.ListInstances("")
	if err != nil || len(instances) != 0 {
		t.Fatalf("expected no instances, got %#v (%v)", instances, err)
	}
	ctx, err := reg.Context()
	if err != nil || len(ctx) != 0 {
		t.Fatalf("expected empty context, got %#v (%v)", ctx, err)
	}
}

func TestContainersWithForeignFieldTypesSurvive(t *testing.T) {
	notes := metadata.Guard(`{"containers":[{"name":"plate","namespace":"cam1","version":3,"timestamp":1.7e18,"loader":"LoadPlate"}]}`)
	reg, _ := newRegistry(t, notes)

	got, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the stored container, got %#v", got)
	}
	if got[0].Version != "3" || got[0].Timestamp != 1700000000000000000 || got[0].Loader != "LoadPlate" {
		t.Fatalf("unexpected coercion: %#v", got[0])
	}

	if err := reg.AddContainer(pipeline.NewContainer("other", "cam2")); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	got, err = reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 2 || got[0].Key() != "cam1/plate" || got[1].Key() != "cam2/other" {
		t.Fatalf("expected both containers after add, got %#v", got)
	}
}

func TestContainerStringTimestampIsParsed(t *testing.T) {
	notes := metadata.Guard(`{"containers":[{"name":"plate","namespace":"cam1","timestamp":"42"}]}`)
	reg, _ := newRegistry(t, notes)

	got, err := reg.ListContainers()
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 1 || got[0].Timestamp != 42 {
		t.Fatalf("expected timestamp 42, got %#v", got)
	}
}
