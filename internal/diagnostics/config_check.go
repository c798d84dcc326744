package diagnostics

import "os"

// Issue is one configuration problem found by CheckConfiguration.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Solution string `json:"solution"`
}

// CheckConfiguration inspects the environment for the credentials the
// analysis pipeline needs. Read-only; nothing is enforced.
func CheckConfiguration() []Issue {
	var issues []Issue

	if os.Getenv("OPENAI_API_KEY") == "" {
		issues = append(issues, Issue{
			Type:     "missing_config",
			Severity: "high",
			Message:  "OPENAI_API_KEY not found in environment variables",
			Solution: "Add OPENAI_API_KEY to your .env file",
		})
	}

	if os.Getenv("ALPACA_API_KEY") == "" || os.Getenv("ALPACA_SECRET_KEY") == "" {
		issues = append(issues, Issue{
			Type:     "missing_config",
			Severity: "high",
			Message:  "Alpaca API credentials not found",
			Solution: "Add ALPACA_API_KEY and ALPACA_SECRET_KEY to your .env file",
		})
	}

	return issues
}
