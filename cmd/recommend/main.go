package main

import (
	"fmt"
	"os"

	"kepler-responder-go/internal/cli"
	"kepler-responder-go/internal/config"
	"kepler-responder-go/internal/logging"
)

func main() {
	cmd := cli.NewRecommendCmd(func() *config.Config {
		cfg := config.Load()
		logging.Setup(cfg)
		return cfg
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
