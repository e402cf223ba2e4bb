// Package main provides a standalone health check command for Nutrino.
// It is meant for container health checks and monitoring scripts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL          string
	ConfigPath   string
	Timeout      time.Duration
	RetryCount   int
	RetryDelay   time.Duration
	OutputFormat string
	Verbose      bool
}

func main() {
	os.Exit(run(parseFlags()))
}

func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", os.Getenv("HEALTH_CHECK_URL"), "Health endpoint URL (e.g., http://localhost:5000/health/ready)")
	flag.StringVar(&opts.ConfigPath, "config", "", "Configuration file used to derive the URL when -url is empty")
	flag.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.IntVar(&opts.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	flag.Parse()

	return opts
}

func run(opts Options) int {
	url, err := resolveURL(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve health check URL: %v\n", err)
		return exitCodeError
	}

	checker := healthcheck.NewExternalServiceChecker("nutrino", url, opts.Timeout)

	var check healthcheck.Check
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			if opts.Verbose {
				fmt.Printf("Retrying in %v... (attempt %d/%d)\n", opts.RetryDelay, attempt, opts.RetryCount)
			}
			time.Sleep(opts.RetryDelay)
		}

		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		check = checker.Check(ctx)
		cancel()

		if check.Status == healthcheck.StatusHealthy {
			break
		}
		if opts.Verbose {
			fmt.Printf("Attempt failed: %s %s\n", check.Status, check.Message)
		}
	}

	if err := output(check, opts.OutputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write result: %v\n", err)
		return exitCodeError
	}

	if check.Status == healthcheck.StatusHealthy {
		return exitCodeSuccess
	}
	return exitCodeFailure
}

// resolveURL prefers -url and otherwise points at the readiness endpoint
// of the configured server.
func resolveURL(opts Options) (string, error) {
	if opts.URL != "" {
		return opts.URL, nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", err
	}

	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d%s/ready", host, cfg.Server.Port, cfg.Monitoring.HealthCheckPath), nil
}

func output(check healthcheck.Check, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(check)
	default:
		fmt.Printf("%s: %s (%v)\n", check.Name, check.Status, check.Duration.Round(time.Millisecond))
		if check.Message != "" {
			fmt.Printf("  %s\n", check.Message)
		}
		return nil
	}
}
