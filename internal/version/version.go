// Package version carries the build identity printed by -version.
package version

// Name is the program name shown before the version.
const Name = "grind-task-man"

var (
    // Version is set via ldflags at build time, e.g.
    // -X grind-task-man/internal/version.Version=v0.3.0
    Version = "dev"
    Commit  = ""
    Date    = ""
)

// String renders "name version[+commit] [(date)]".
func String() string {
    s := Name + " " + Version
    if Commit != "" {
        if len(Commit) > 12 { s += "+" + Commit[:12] } else { s += "+" + Commit }
    }
    if Date != "" { s += " (" + Date + ")" }
    return s
}
