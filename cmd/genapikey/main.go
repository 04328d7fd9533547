// genapikey creates a random API key and appends it to an env file as API_KEY.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"kyri56xcaesar/abac-front/internal/logger"
	"kyri56xcaesar/abac-front/internal/utils"
)

func main() {
	var envPath string
	var length int

	flagSet := pflag.NewFlagSet("genapikey", pflag.ContinueOnError)
	flagSet.StringVar(&envPath, "env", "configs/front.env", "env file to append to")
	flagSet.IntVar(&length, "length", 32, "key length")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := run(envPath, length); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(envPath string, length int) error {
	if length < 16 {
		return fmt.Errorf("key length %d is too short, use at least 16", length)
	}
	key, err := utils.GenerateRandomString(length)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	f, err := os.OpenFile(envPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", envPath, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\nAPI_KEY=%s\n", key); err != nil {
		return fmt.Errorf("failed to write %s: %w", envPath, err)
	}
	logger.Infof("API key written to %s", envPath)

	return nil
}
