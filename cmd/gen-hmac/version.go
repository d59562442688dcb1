package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// These will be set during build with -ldflags
	gitCommit = "unknown"
	buildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gen-hmac version %s\n", version)
			fmt.Fprintf(out, "  Git commit:  %s\n", gitCommit)
			fmt.Fprintf(out, "  Build date:  %s\n", buildDate)
			fmt.Fprintf(out, "  Go version:  %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
