package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/solarwerk/pv-planner/pkg/version.versionName=...".
var (
	versionName = "unknown"
	gitCommit   = ""
	buildDate   = ""
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
}

func Get() Info {
	return Info{
		Version:   versionName,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	if i.GitCommit == "" {
		return fmt.Sprintf("%s (%s)", i.Version, i.GoVersion)
	}
	return fmt.Sprintf("%s-%s (%s)", i.Version, i.GitCommit, i.GoVersion)
}
