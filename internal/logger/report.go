package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

var (
	reportMu  sync.Mutex
	reportLog *log.Logger
)

// SetReportWriter routes full diagnostics reports to a dedicated
// sink, typically a reports.log next to the main log file. A nil
// writer disables the sink.
func SetReportWriter(w io.Writer) {
	reportMu.Lock()
	defer reportMu.Unlock()
	if w == nil {
		reportLog = nil
		return
	}
	reportLog = log.New(w, "", log.LstdFlags)
}

// ReportBlock appends one tagged report to the dedicated sink. The
// body keeps its own layout; only a tag line and terminator are
// added.
func ReportBlock(tool, category, body string) {
	reportMu.Lock()
	sink := reportLog
	reportMu.Unlock()
	if sink == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[REPORT]")
	if tool != "" {
		b.WriteString("[")
		b.WriteString(tool)
		b.WriteString("]")
	}
	if category != "" {
		b.WriteString("[")
		b.WriteString(category)
		b.WriteString("]")
	}
	b.WriteString("\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("=====\n")
	sink.Print(b.String())
}
