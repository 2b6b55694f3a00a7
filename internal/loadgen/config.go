package loadgen

import "time"

// Config holds configuration for the vote load test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumBatches  int           // Number of vote batches to generate
	NumPlayers  int           // Size of the simulated player pool
	NumMatches  int           // Size of the simulated match pool
	NumTokens   int           // Number of distinct reviewer tokens
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Batch is one vote submission on the wire
type Batch struct {
	ReviewerToken string         `json:"reviewer_token"`
	MatchID       string         `json:"match_id"`
	Player1ID     string         `json:"player1_id"`
	Player2ID     string         `json:"player2_id"`
	Votes         map[string]int `json:"votes"`
}

// BatchResponse mirrors the submission response
type BatchResponse struct {
	Accepted     int      `json:"accepted"`
	Skipped      []string `json:"skipped"`
	Invalid      []string `json:"invalid"`
	AllDuplicate bool     `json:"all_duplicate"`
}

// Stats holds test statistics
type Stats struct {
	BatchesGenerated int
	BatchesSubmitted int
	VotesAccepted    int
	VotesSkipped     int
	VotesInvalid     int
	BatchesFailed    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
