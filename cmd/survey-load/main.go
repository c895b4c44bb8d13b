package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/gdax/internal/loadtest"
	"github.com/okian/gdax/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumSurveys    = 1000
	defaultDuplicateRate = 0.05
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numSurveys = flag.Int("surveys", defaultNumSurveys, "Number of surveys to generate and submit")
		duplicates = flag.Float64("duplicates", defaultDuplicateRate, "Share of surveys re-posted with the same submission key")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write generated surveys to this JSON file")
		verbose    = flag.Bool("verbose", false, "Log every report mismatch")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:       *baseURL,
		NumSurveys:    *numSurveys,
		DuplicateRate: *duplicates,
		Workers:       *workers,
		Timeout:       *timeout,
		OutputFile:    *outputFile,
		Verbose:       *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
