package config

// Linker-injected build metadata variables. These are set at compile time via
// -ldflags, for example:
//
//	go build -ldflags "-X aquareport/internal/config.version=1.0.1 \
//	    -X aquareport/internal/config.commit=$(git rev-parse --short HEAD) \
//	    -X aquareport/internal/config.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The version default matches the published app release; the liveness probe
// reports it verbatim.
var (
	version   = "1.0.0"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo constructs a BuildInfo from the linker-injected global variables.
// This should be called once during initialization to populate the Config.Build field.
func NewBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
}
