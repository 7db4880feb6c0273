package loadgen

import "os"

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	os.Stdout.WriteString(`Gradient Load Generator
=======================

Drives a running analytics service with synthetic submissions, grade
histories, student profiles, schedules and batch jobs, then reports how
each operation answered.

Usage:
  go run cmd/loadgen/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Engine requests spread across all operations (default 1000)
  -jobs int
        Batch analysis jobs to submit (default 20)
  -items int
        Submissions per batch job (default 10)
  -workers int
        Concurrent requests in flight (default: 2 * CPU count)
  -timeout duration
        Per-request timeout (default 30s)
  -poll-timeout duration
        How long to wait for batch jobs to finish (default 2m)
  -seed uint
        Generator seed; the same seed sends the same traffic (default 1)
  -verbose
        Log failed requests and polls at debug level
  -help
        Show this help

Outcomes:
  ok         the service produced a real answer
  degraded   insufficient data, failed prediction or error recommendation
  rejected   4xx, or the job queue was full
  failed     transport error or 5xx
  duplicate  a resubmitted job id was recognised

Exit status is 1 when the run cannot start and 2 when batch jobs are still
pending after the poll timeout.
`)
}
