package main

import (
	"fmt"
	"os"

	"github.com/aatumaykin/cronreg/internal/constants"
	"github.com/aatumaykin/cronreg/internal/version"
)

var (
	Version   string = "0.1.0-dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
	GoVersion string = "unknown"
)

func init() {
	version.SetInfo(Version, BuildTime, GitCommit, GoVersion)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, constants.MsgErrorFormat, err)
		os.Exit(1)
	}
}
