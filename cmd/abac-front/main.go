// abac-front serves the team and task screens and drives the backend REST API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"kyri56xcaesar/abac-front/internal/front"
)

func main() {
	var confPath, logLevel string

	flagSet := pflag.NewFlagSet("abac-front", pflag.ContinueOnError)
	flagSet.StringVarP(&confPath, "config", "c", "configs/front.env", "path to the env file")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// the env file never overrides variables that are already set
	if logLevel != "" {
		os.Setenv("LOG_LEVEL", logLevel)
	}

	front.InitAndServe(confPath)
}
