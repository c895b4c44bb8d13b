package loadtest

import "os"

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`G-DAX Survey Load Tool
======================

Submits generated surveys to a running diagnosis service, re-posts a share
of them to exercise duplicate rejection, then checks every served report
against a locally computed diagnosis.

Usage:
  go run ./cmd/survey-load [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -surveys int
        Number of surveys to generate and submit (default 1000)
  -duplicates float
        Share of surveys re-posted with the same submission key (default 0.05)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write generated surveys to this JSON file
  -verbose
        Log every report mismatch
  -help
        Show this help message
`)
}
