package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/streetpass/streetpass/internal/app"
	"github.com/streetpass/streetpass/internal/version"
)

func main() {
	var envFile string
	var showVersion bool

	flagSet := pflag.NewFlagSet("streetpass", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "load environment variables from this file before reading config")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		log.Fatalf("streetpass: %v", err)
	}

	if showVersion {
		fmt.Printf("streetpass %s (commit=%s, built=%s, %s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
		return
	}

	if err := app.New(envFile).Run(); err != nil {
		log.Fatalf("streetpass failed to start: %v", err)
	}
}
