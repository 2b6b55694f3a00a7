package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/tribunal/internal/loadgen"
)

// Default configuration constants.
const (
	defaultNumBatches  = 10000
	defaultNumPlayers  = 200
	defaultNumMatches  = 2000
	defaultNumTokens   = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numBatches = flag.Int("batches", defaultNumBatches, "Number of vote batches to generate and submit")
		numPlayers = flag.Int("players", defaultNumPlayers, "Size of the simulated player pool")
		numMatches = flag.Int("matches", defaultNumMatches, "Size of the simulated match pool")
		numTokens  = flag.Int("tokens", defaultNumTokens, "Number of distinct reviewer tokens")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for test output (default: loadgen_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := loadgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadgen.Config{
		BaseURL:    *baseURL,
		NumBatches: *numBatches,
		NumPlayers: *numPlayers,
		NumMatches: *numMatches,
		NumTokens:  *numTokens,
		Workers:    *workers,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := loadgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load test failed: " + err.Error() + "\n")
		return
	}
}
