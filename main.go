package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	cmdpreprocess "rs-flow/command/preprocess"
	cmdreports "rs-flow/command/reports"
	cmdweb "rs-flow/command/web"
)

// Batch pipeline turning the Japanese budget-review (RS system) CSV extracts
// into the denormalized JSON artifacts the visualization front-end consumes.
// Usage:
//   rs-flow preprocess [-data ./data/rs_system] [-out ./public/data] [-jobs 4]
//   rs-flow reports    [-data ./data/rs_system] [-out ./public/data]
//   rs-flow web        [-addr :8080] [-data ./public/data] [-ui ./ui/dist]
// Notes:
// - preprocess writes the per-year artifacts (sankey, statistics, ministries,
//   ministry-projects, project-expenditures); reports writes the cross-year
//   project index and per-project time series.
// - Set CONFIG_PATH to point to a YAML config file (default ./config.yml).

func main() {
	_ = godotenv.Load()

	// Initialize slog logger (text to stderr, INFO level)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	args := os.Args
	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "preprocess":
			if err := cmdpreprocess.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "reports":
			if err := cmdreports.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: rs-flow preprocess [-data <dir>] [-out <dir>] [-jobs n] | reports [-data <dir>] [-out <dir>] | web [-addr :8080] [-data <dir>]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}
