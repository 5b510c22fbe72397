package main

import (
	"path/filepath"
	"testing"
)

func createMatchmove(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	created := decodeJSON[map[string]any](t, mustRunCLI(t, env, "--json", "instances", "create", "matchmove",
		"--variant", "CameraTrack", "--set", `cameras=[{"id":"cam1","enabled":true},{"id":"cam2","enabled":false}]`))
	id, _ := created["instance_id"].(string)
	if id == "" {
		t.Fatalf("expected instance_id in %#v", created)
	}
	return id
}

func TestPublishValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	createMatchmove(t, env)

	out, _, err := runCLI(t, env, "--workfile", env.workfile, "publish", "validate")
	if err == nil {
		t.Fatal("expected validation failure without a camera point group")
	}
	requireContains(t, out, "Missing Camera Point Group")

	out = mustRunCLI(t, env, "publish", "validate", "--point-group", "pgroup1")
	requireContains(t, out, "ok")
}

func TestPublishValidateUnknownInstance(t *testing.T) {
	env := setupCLITestEnv(t)
	createMatchmove(t, env)
	if _, _, err := runCLI(t, env, "--workfile", env.workfile, "publish", "validate", "--instance", "nope"); err == nil {
		t.Fatal("expected error for unknown instance")
	}
}

func TestPublishPlanMatchmove(t *testing.T) {
	env := setupCLITestEnv(t)
	id := createMatchmove(t, env)
	staging := filepath.Join(env.baseDir, "staging")

	plan := decodeJSON[map[string]any](t, mustRunCLI(t, env, "publish", "plan", id,
		"--host-version", "3DEqualizer4 Release 8.0",
		"--staging-dir", staging,
		"--point-group", "pgroup1:CAMERA",
		"--frame-offset", "1001"))

	if plan["PointGroup"] != "pgroup1" {
		t.Fatalf("unexpected point group %v", plan["PointGroup"])
	}
	if plan["FrameOffset"] != float64(1000) {
		t.Fatalf("unexpected frame offset %v", plan["FrameOffset"])
	}
	cameras, _ := plan["CameraIDs"].([]any)
	if len(cameras) != 1 || cameras[0] != "cam1" {
		t.Fatalf("expected only enabled camera, got %#v", plan["CameraIDs"])
	}
	rep, _ := plan["Representation"].(map[string]any)
	if rep["files"] != "maya_export.py" {
		t.Fatalf("unexpected representation %#v", rep)
	}

	plan = decodeJSON[map[string]any](t, mustRunCLI(t, env, "publish", "plan", id,
		"--host-version", "3DEqualizer4 Release 7.1v2",
		"--staging-dir", staging,
		"--point-group", "pgroup1"))
	rep, _ = plan["Representation"].(map[string]any)
	if rep["files"] != "maya_export.mel" {
		t.Fatalf("unexpected release 7 representation %#v", rep)
	}
}

func TestPublishPlanErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	id := createMatchmove(t, env)
	staging := filepath.Join(env.baseDir, "staging")

	cases := [][]string{
		{"publish", "plan", id, "--host-version", "3DEqualizer4 Release 8.0"},
		{"publish", "plan", id, "--staging-dir", staging, "--host-version", "garbage", "--point-group", "pg"},
		{"publish", "plan", id, "--staging-dir", staging, "--host-version", "3DEqualizer4 Release 8.0"},
		{"publish", "plan", "missing", "--staging-dir", staging, "--host-version", "3DEqualizer4 Release 8.0"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, env, append([]string{"--workfile", env.workfile}, args...)...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestPublishPlanLensDistortion(t *testing.T) {
	env := setupCLITestEnv(t)
	created := decodeJSON[map[string]any](t, mustRunCLI(t, env, "--json", "instances", "create", "lensDistortion"))
	id, _ := created["instance_id"].(string)

	rep := decodeJSON[map[string]any](t, mustRunCLI(t, env, "publish", "plan", id, "--staging-dir", env.baseDir))
	if rep["files"] != "nuke_export.nk" || rep["ext"] != "nk" {
		t.Fatalf("unexpected nuke representation %#v", rep)
	}
}
