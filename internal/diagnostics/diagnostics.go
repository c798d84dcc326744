// Package diagnostics maps raw tool and API failures onto a static
// catalog of known problems with actionable fixes, and renders the
// operator-facing error report.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"tradeagents/internal/logger"
)

// Kind is an optional error-class hint supplied by the caller when it
// knows more than the message text carries.
type Kind string

const (
	KindNone    Kind = ""
	KindTimeout Kind = "TimeoutError"
)

// Diagnosis is one catalog entry: what went wrong and how to fix it.
type Diagnosis struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Solutions   []string `json:"solutions"`
	Links       []string `json:"links,omitempty"`
}

// Report is a single failure to be diagnosed and rendered.
type Report struct {
	Tool    string            `json:"tool_name,omitempty"`
	Kind    Kind              `json:"error_type,omitempty"`
	Message string            `json:"error_message"`
	Context map[string]string `json:"context,omitempty"`
}

const bannerWidth = 60

// Render produces the full report text: banner, failure summary, the
// matched diagnosis (or generic troubleshooting steps), any context
// pairs with sorted keys, and the closing support block.
func (r Report) Render() string {
	diagnosis, matched := Diagnose(r.Message, r.Kind)
	banner := strings.Repeat("=", bannerWidth)

	lines := make([]string, 0, 32)
	lines = append(lines, banner, "🚨 TRADING AGENTS ERROR REPORT", banner)
	if r.Tool != "" {
		lines = append(lines, fmt.Sprintf("🔧 Failed Tool: %s", r.Tool))
	}
	if r.Kind != KindNone {
		lines = append(lines, fmt.Sprintf("⚠️ Error Type: %s", r.Kind))
	}
	lines = append(lines, fmt.Sprintf("📝 Error Message: %s", r.Message), "")

	if matched {
		lines = append(lines,
			diagnosis.Title,
			strings.Repeat("-", utf8.RuneCountInString(diagnosis.Title)),
			diagnosis.Description,
			"",
			"💡 RECOMMENDED SOLUTIONS:")
		for _, s := range diagnosis.Solutions {
			lines = append(lines, "   "+s)
		}
		lines = append(lines, "")
		if len(diagnosis.Links) > 0 {
			lines = append(lines, "🔗 HELPFUL LINKS:")
			for _, l := range diagnosis.Links {
				lines = append(lines, "   "+l)
			}
			lines = append(lines, "")
		}
	} else {
		lines = append(lines,
			"💡 GENERAL TROUBLESHOOTING:",
			"   1. Check your .env file for correct API keys",
			"   2. Verify your internet connection",
			"   3. Ensure APIs have sufficient credits/limits",
			"   4. Try running the analysis again in a few minutes",
			"")
	}

	if len(r.Context) > 0 {
		lines = append(lines, "📊 ERROR CONTEXT:")
		keys := make([]string, 0, len(r.Context))
		for k := range r.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("   %s: %s", k, r.Context[k]))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"🆘 If problems persist:",
		"   • Check the GitHub Issues: https://github.com/your-repo/issues",
		"   • Review the logs above for more details",
		"   • Ensure all dependencies are up to date",
		"",
		banner)

	return strings.Join(lines, "\n")
}

// LogReport renders the report, writes it to the process log one line
// at a time, and mirrors it to the dedicated report sink when one is
// configured.
func LogReport(r Report) {
	rendered := r.Render()
	logger.InfoBlock(rendered)
	category := ""
	if d, ok := Diagnose(r.Message, r.Kind); ok {
		category = d.Category
	}
	logger.ReportBlock(r.Tool, category, rendered)
}
