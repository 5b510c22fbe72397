package main

import (
	"os"
	"strings"
	"testing"

	"equalizer/internal/metadata"
	"equalizer/internal/testsupport"
)

func TestContainersAddReplacesByKey(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "containers", "add", "--name", "test", "--namespace", "A", "--loader", "LoadPlate", "--version", "v1")
	mustRunCLI(t, env, "containers", "add", "--name", "other", "--namespace", "B", "--version", "v1")
	mustRunCLI(t, env, "containers", "add", "--name", "test", "--namespace", "A", "--loader", "LoadPlate", "--version", "v2")

	containers := decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "containers", "list"))
	if len(containers) != 2 {
		t.Fatalf("expected 2 containers, got %#v", containers)
	}
	if containers[1]["name"] != "test" || containers[1]["version"] != "v2" {
		t.Fatalf("expected replaced container last with v2, got %#v", containers[1])
	}

	data, err := os.ReadFile(env.workfile)
	if err != nil {
		t.Fatalf("workfile not saved: %v", err)
	}
	if strings.Count(string(data), metadata.GuardPrefix) != 1 {
		t.Fatalf("expected exactly one guard in workfile:\n%s", data)
	}

	out := mustRunCLI(t, env, "containers", "list")
	requireContains(t, out, "LoadPlate")
}

func TestContainersAddRequiresKey(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "--workfile", env.workfile, "containers", "add", "--name", "only"); err == nil {
		t.Fatal("expected error without namespace")
	}
}

func TestWorkfileRequired(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "containers", "list"); err == nil {
		t.Fatal("expected error without --workfile")
	}
	if _, _, err := runCLI(t, env, "--workfile", env.workfile+".nk", "containers", "list"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestReadCommandsDoNotCreateWorkfile(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "document", "show")
	requireContains(t, out, "{}")
	if _, err := os.Stat(env.workfile); !os.IsNotExist(err) {
		t.Fatalf("expected no workfile after a read, stat err = %v", err)
	}
}

func TestContextSetMerges(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteWorkfile(t, env.workfile, "artist notes\n")

	mustRunCLI(t, env, "context", "set", "project=demo", "frameStart=1001")
	mustRunCLI(t, env, "context", "set", "task=track")

	ctx := decodeJSON[map[string]any](t, mustRunCLI(t, env, "--json", "context", "show"))
	if ctx["project"] != "demo" || ctx["task"] != "track" || ctx["frameStart"] != float64(1001) {
		t.Fatalf("unexpected context %#v", ctx)
	}

	data, err := os.ReadFile(env.workfile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "artist notes\n") {
		t.Fatalf("expected free text to be kept:\n%s", data)
	}

	doc := decodeJSON[map[string]any](t, mustRunCLI(t, env, "document", "show"))
	if _, ok := doc["context"]; !ok {
		t.Fatalf("expected context key in document %#v", doc)
	}
}

func TestContextSetRejectsBadAssignment(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "--workfile", env.workfile, "context", "set", "novalue"); err == nil {
		t.Fatal("expected error for assignment without '='")
	}
}

func TestInstancesLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	created := decodeJSON[map[string]any](t, mustRunCLI(t, env, "--json", "instances", "create", "matchmove",
		"--variant", "cameraTrack", "--set", `cameras=[{"id":"cam1","enabled":true}]`))
	id, _ := created["instance_id"].(string)
	if id == "" {
		t.Fatalf("expected instance_id in %#v", created)
	}
	if created["productName"] != "matchmoveCameraTrack" {
		t.Fatalf("unexpected product name %v", created["productName"])
	}
	mustRunCLI(t, env, "instances", "create", "Lens Distortion")

	all := decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "instances", "list"))
	if len(all) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(all))
	}
	mm := decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "instances", "list", "--creator", "matchmove"))
	if len(mm) != 1 || mm[0]["instance_id"] != id {
		t.Fatalf("unexpected matchmove instances %#v", mm)
	}
	where := decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "instances", "list", "--where", `productType == "lensDistortion"`))
	if len(where) != 1 || where[0]["variant"] != "Main" {
		t.Fatalf("unexpected filtered instances %#v", where)
	}

	mustRunCLI(t, env, "instances", "update", id, "--set", "active=false", "--unset", "cameras")
	mm = decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "instances", "list", "--creator", "matchmove"))
	if len(mm) != 1 || mm[0]["active"] != false {
		t.Fatalf("expected inactive instance, got %#v", mm)
	}
	if _, ok := mm[0]["cameras"]; ok {
		t.Fatalf("expected cameras to be dropped, got %#v", mm[0])
	}

	out := mustRunCLI(t, env, "instances", "list")
	requireContains(t, out, "matchmoveCameraTrack")

	mustRunCLI(t, env, "instances", "remove", id)
	all = decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "instances", "list"))
	if len(all) != 1 {
		t.Fatalf("expected 1 instance after remove, got %d", len(all))
	}
}

func TestInstancesUpdateMissingIDKeepsIdentity(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "instances", "update", "ghost-1", "--set", "label=ghost")
	all := decodeJSON[[]map[string]any](t, mustRunCLI(t, env, "--json", "instances", "list"))
	if len(all) != 1 {
		t.Fatalf("expected the update to append one instance, got %#v", all)
	}
	if all[0]["instance_id"] != "ghost-1" || all[0]["label"] != "ghost" {
		t.Fatalf("unexpected appended instance %#v", all[0])
	}
}

func TestInstancesCreateUnknownCreator(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "--workfile", env.workfile, "instances", "create", "render"); err == nil {
		t.Fatal("expected unknown creator error")
	}
}

func TestSQLiteBackendProjects(t *testing.T) {
	for _, native := range []bool{false, true} {
		env := setupCLITestEnv(t, testsupport.WithSQLiteBackend(native))

		if _, stderr, err := runCLI(t, env, "--project", "shots/sh020", "containers", "add", "--name", "plate", "--namespace", "cam01"); err != nil {
			t.Fatalf("native=%t: containers add: %v (%s)", native, err, stderr)
		}
		out, _, err := runCLI(t, env, "--project", "shots/sh020", "--json", "containers", "list")
		if err != nil {
			t.Fatalf("native=%t: containers list: %v", native, err)
		}
		if containers := decodeJSON[[]map[string]any](t, out); len(containers) != 1 {
			t.Fatalf("native=%t: expected 1 container, got %#v", native, containers)
		}

		out, _, err = runCLI(t, env, "--json", "projects", "list")
		if err != nil {
			t.Fatalf("native=%t: projects list: %v", native, err)
		}
		projects := decodeJSON[[]map[string]any](t, out)
		if len(projects) != 1 || projects[0]["Path"] != "shots/sh020" {
			t.Fatalf("native=%t: unexpected projects %#v", native, projects)
		}

		if _, _, err := runCLI(t, env, "projects", "remove", "shots/sh020"); err != nil {
			t.Fatalf("native=%t: projects remove: %v", native, err)
		}
		out, _, err = runCLI(t, env, "projects", "list")
		if err != nil {
			t.Fatalf("native=%t: projects list: %v", native, err)
		}
		requireContains(t, out, "No projects")
	}
}

func TestProjectsRequireSQLiteBackend(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "projects", "list"); err == nil {
		t.Fatal("expected error on workfile backend")
	}
}
