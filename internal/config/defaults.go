package config

const (
	BackendWorkfile = "workfile"
	BackendSQLite   = "sqlite"
)

const (
	defaultConfigPath        = "~/.config/equalizer/config.toml"
	defaultLogDir            = "~/.local/share/equalizer/logs"
	defaultProjectDB         = "~/.local/share/equalizer/projects.db"
	defaultWorkfileExtension = ".3de"
	defaultHeartbeatInterval = 100
	defaultOverscanPercent   = 100
	defaultUnits             = "mm"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var defaultMatchMoveVariants = []string{
	"CameraTrack",
	"ObjectTrack",
	"PointTrack",
	"Stabilize",
	"SurveyTrack",
	"UserTrack",
}

// Units lists the unit names accepted by the matchmove script exporters.
var Units = []string{"mm", "cm", "m", "in", "ft", "yd"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			ProjectDB: defaultProjectDB,
		},
		Host: Host{
			Backend:            BackendWorkfile,
			WorkfileExtensions: []string{defaultWorkfileExtension},
		},
		Addon: Addon{
			HeartbeatInterval: defaultHeartbeatInterval,
		},
		Create: Create{
			MatchMove: Creator{
				Enabled:         true,
				DefaultVariants: append([]string(nil), defaultMatchMoveVariants...),
			},
			LensDistortion: Creator{
				Enabled:         true,
				DefaultVariants: []string{"Main"},
			},
		},
		Publish: Publish{
			ExtractMatchmoveScript: ExtractMatchmoveScript{
				OverscanPercentWidth:  defaultOverscanPercent,
				OverscanPercentHeight: defaultOverscanPercent,
				Units:                 defaultUnits,
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
