package publish

import (
	"encoding/json"
	"fmt"
	"slices"

	"equalizer/internal/config"
)

// Overscan bounds, in percent.
const (
	MinOverscanPercent = 1
	MaxOverscanPercent = 1000
)

// unitScales converts the host's centimeters into the export unit.
var unitScales = map[string]float64{
	"mm": 10.0,
	"cm": 1.0,
	"m":  0.01,
	"in": 0.393701,
	"ft": 0.0328084,
	"yd": 0.0109361,
}

// ExtractOptions are the artist-facing options of the matchmove script
// export.
type ExtractOptions struct {
	HideReferenceFrame    bool   `json:"hide_reference_frame"`
	ExportUVTextures      bool   `json:"export_uv_textures"`
	OverscanPercentWidth  int    `json:"overscan_percent_width"`
	OverscanPercentHeight int    `json:"overscan_percent_height"`
	Units                 string `json:"units"`
	PointSets             bool   `json:"point_sets"`
	Export2p5D            bool   `json:"export_2p5d"`
}

// AttributeDef describes one option for UIs and CLI help.
type AttributeDef struct {
	Key     string
	Label   string
	Kind    string
	Default any
	Min     int
	Max     int
	Choices []string
}

// OptionsFromConfig returns the configured defaults.
func OptionsFromConfig(cfg *config.Config) ExtractOptions {
	extract := cfg.Publish.ExtractMatchmoveScript
	return ExtractOptions{
		HideReferenceFrame:    extract.HideReferenceFrame,
		ExportUVTextures:      extract.ExportUVTextures,
		OverscanPercentWidth:  extract.OverscanPercentWidth,
		OverscanPercentHeight: extract.OverscanPercentHeight,
		Units:                 extract.Units,
		PointSets:             true,
		Export2p5D:            true,
	}
}

// AttributeDefs lists the options with defaults taken from o.
func (o ExtractOptions) AttributeDefs() []AttributeDef {
	return []AttributeDef{
		{Key: "hide_reference_frame", Label: "Hide Reference Frame", Kind: "bool", Default: o.HideReferenceFrame},
		{Key: "export_uv_textures", Label: "Export UV Textures", Kind: "bool", Default: o.ExportUVTextures},
		{Key: "overscan_percent_width", Label: "Overscan Width %", Kind: "number", Default: o.OverscanPercentWidth, Min: MinOverscanPercent, Max: MaxOverscanPercent},
		{Key: "overscan_percent_height", Label: "Overscan Height %", Kind: "number", Default: o.OverscanPercentHeight, Min: MinOverscanPercent, Max: MaxOverscanPercent},
		{Key: "units", Label: "Units", Kind: "enum", Default: o.Units, Choices: slices.Clone(config.Units)},
		{Key: "point_sets", Label: "Export Point Sets", Kind: "bool", Default: o.PointSets},
		{Key: "export_2p5d", Label: "Export 2.5D Points", Kind: "bool", Default: o.Export2p5D},
	}
}

// WithOverrides returns o with the values in overrides applied, typically an
// instance's publish attributes. Unknown keys are ignored.
func (o ExtractOptions) WithOverrides(overrides map[string]any) (ExtractOptions, error) {
	if len(overrides) == 0 {
		return o, o.Validate()
	}
	base, err := json.Marshal(o)
	if err != nil {
		return o, fmt.Errorf("encode options: %w", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return o, fmt.Errorf("decode options: %w", err)
	}
	for k, v := range overrides {
		if _, known := merged[k]; known {
			merged[k] = v
		}
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return o, fmt.Errorf("encode overrides: %w", err)
	}
	var out ExtractOptions
	if err := json.Unmarshal(data, &out); err != nil {
		return o, invalid("extract options", "%v", err)
	}
	return out, out.Validate()
}

// Validate checks option ranges.
func (o ExtractOptions) Validate() error {
	if o.OverscanPercentWidth < MinOverscanPercent || o.OverscanPercentWidth > MaxOverscanPercent {
		return invalid("extract options", "overscan width %d%% outside %d-%d", o.OverscanPercentWidth, MinOverscanPercent, MaxOverscanPercent)
	}
	if o.OverscanPercentHeight < MinOverscanPercent || o.OverscanPercentHeight > MaxOverscanPercent {
		return invalid("extract options", "overscan height %d%% outside %d-%d", o.OverscanPercentHeight, MinOverscanPercent, MaxOverscanPercent)
	}
	if _, ok := unitScales[o.Units]; !ok {
		return invalid("extract options", "unsupported units %q", o.Units)
	}
	return nil
}

// ScaleFactor converts centimeters into the selected units.
func (o ExtractOptions) ScaleFactor() float64 {
	return unitScales[o.Units]
}
