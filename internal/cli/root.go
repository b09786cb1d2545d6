package cli

import (
	"context"
	"os"

	"github.com/matzehuels/twofish/pkg/buildinfo"
)

// SetVersion overrides the build information shown by --version. Empty
// values keep what was injected via ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		buildinfo.Version = v
	}
	if c != "" {
		buildinfo.Commit = c
	}
	if d != "" {
		buildinfo.Date = d
	}
}

// Execute runs the twofish CLI and returns an error if any command fails.
//
// Logging goes to stderr at the level from the config file, or debug with
// --verbose. The logger is attached to the command context and reachable
// through loggerFromContext.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
