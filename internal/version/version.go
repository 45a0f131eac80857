// Package version reports the palette build and checks GitHub for newer
// releases. Version, Commit and Date are set from cmd/palette via ldflags.
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes one build.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the running build.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// IsDev reports whether the build carries no release tag.
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev"
}

// String is the one-line form shown by `palette --version`.
func (i Info) String() string {
	if i.IsDev() {
		return "dev (development build)"
	}
	return i.Version + " (commit " + i.Commit + ", built " + i.Date + ")"
}
