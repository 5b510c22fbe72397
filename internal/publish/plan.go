package publish

import (
	"fmt"
	"path/filepath"

	"equalizer/internal/naming"
	"equalizer/internal/pipeline"
)

// Model selection modes understood by the host's Maya exporter.
const (
	ModelsNone     = 1
	ModelsSelected = 2
	ModelsAll      = 3
)

// Camera is one camera entry of a matchmove instance.
type Camera struct {
	ID      string
	Enabled bool
}

// Representation is an exported file set.
type Representation struct {
	Name       string `json:"name"`
	Ext        string `json:"ext"`
	Files      string `json:"files"`
	StagingDir string `json:"stagingDir"`
}

// ScriptPlan holds the arguments for one run of the host's Maya export
// script.
type ScriptPlan struct {
	Version        HostVersion
	OutputPath     string
	PointGroup     string
	CameraIDs      []string
	ModelSelection int
	// SelectedModel is set when ModelSelection is ModelsSelected.
	SelectedModel      string
	OverscanWidth      float64
	OverscanHeight     float64
	ExportUVTextures   int
	ScaleFactor        float64
	FrameOffset        int
	HideReferenceFrame int
	// SceneName, PointSets and Export2p5D are only passed to release 8.
	SceneName      string
	PointSets      int
	Export2p5D     int
	Representation Representation
}

// PlanInput gathers what PlanMatchmoveScript reads from the scene.
type PlanInput struct {
	Version     HostVersion
	StagingDir  string
	PointGroups []PointGroup
	// CameraFrameOffset is the current camera's frame offset as the host
	// reports it.
	CameraFrameOffset int
}

// InstanceCameras decodes the "cameras" entry of a matchmove instance.
func InstanceCameras(inst pipeline.Instance) ([]Camera, error) {
	raw, ok := inst["cameras"].([]any)
	if !ok {
		return nil, invalid("camera data", "No camera data found")
	}
	cameras := make([]Camera, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, invalid("camera data", "camera entry is %T, want mapping", item)
		}
		id := fmt.Sprint(m["id"])
		enabled, _ := m["enabled"].(bool)
		cameras = append(cameras, Camera{ID: id, Enabled: enabled})
	}
	return cameras, nil
}

// PlanMatchmoveScript derives the Maya export arguments for inst.
// Release 7 writes a MEL file, release 8 a Python file.
func PlanMatchmoveScript(inst pipeline.Instance, opts ExtractOptions, in PlanInput) (ScriptPlan, error) {
	if err := opts.Validate(); err != nil {
		return ScriptPlan{}, err
	}
	pg, ok := CameraPointGroup(in.PointGroups)
	if !ok {
		return ScriptPlan{}, invalid("camera point group", "No camera point group found.")
	}
	cameras, err := InstanceCameras(inst)
	if err != nil {
		return ScriptPlan{}, err
	}

	plan := ScriptPlan{
		Version:            in.Version,
		PointGroup:         pg.Name,
		OverscanWidth:      float64(opts.OverscanPercentWidth) / 100.0,
		OverscanHeight:     float64(opts.OverscanPercentHeight) / 100.0,
		ExportUVTextures:   boolFlag(opts.ExportUVTextures),
		ScaleFactor:        opts.ScaleFactor(),
		FrameOffset:        in.CameraFrameOffset - 1,
		HideReferenceFrame: boolFlag(opts.HideReferenceFrame),
	}
	for _, cam := range cameras {
		if cam.Enabled {
			plan.CameraIDs = append(plan.CameraIDs, cam.ID)
		}
	}

	plan.ModelSelection = ModelsSelected
	selection := ""
	if attrs, ok := inst["creator_attributes"].(map[string]any); ok {
		selection, _ = attrs["model_selection"].(string)
	}
	switch selection {
	case "__all__":
		plan.ModelSelection = ModelsAll
	case "__none__", "":
		plan.ModelSelection = ModelsNone
	default:
		plan.SelectedModel = selection
	}

	base := filepath.Join(in.StagingDir, "maya_export")
	switch in.Version.Major {
	case 7:
		plan.OutputPath = base + ".mel"
		plan.Representation = Representation{Name: "mel", Ext: "mel", Files: "maya_export.mel", StagingDir: in.StagingDir}
	case 8:
		name, _ := inst["name"].(string)
		if name == "" {
			name, _ = inst["productName"].(string)
		}
		plan.OutputPath = base
		plan.SceneName = naming.MayaValidName(name + "_GRP")
		plan.PointSets = boolFlag(opts.PointSets)
		plan.Export2p5D = boolFlag(opts.Export2p5D)
		plan.Representation = Representation{Name: "py", Ext: "py", Files: "maya_export.py", StagingDir: in.StagingDir}
	default:
		return ScriptPlan{}, fmt.Errorf("unsupported 3DEqualizer release %s", in.Version)
	}
	return plan, nil
}

// NukeRepresentation describes the Nuke script export output.
func NukeRepresentation(stagingDir string) Representation {
	return Representation{Name: "nk", Ext: "nk", Files: "nuke_export.nk", StagingDir: stagingDir}
}

func boolFlag(v bool) int {
	if v {
		return 1
	}
	return 0
}
