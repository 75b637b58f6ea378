package config

import "fmt"

// set by the build with -ldflags "-X github.com/willie68/go_heightmap/internal/config.version=..."
var (
	version = "0.1.0"
	commit  = "dev"
	date    = ""
)

type Version struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func NewVersion() *Version {
	return &Version{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

func (v Version) String() string {
	if v.Date == "" {
		return fmt.Sprintf("go_heightmap %s (%s)", v.Version, v.Commit)
	}
	return fmt.Sprintf("go_heightmap %s (%s, %s)", v.Version, v.Commit, v.Date)
}
