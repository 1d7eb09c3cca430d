// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/vcscope-tui/internal/pipeline"
	"github.com/jeranaias/vcscope-tui/internal/util"
)

// ReportStore writes analysis reports as Markdown files.
type ReportStore struct {
	// BaseDir is the directory for reports. Default: ~/.vcscope/reports/
	BaseDir string
}

// NewReportStore creates a report store rooted in the user's home directory.
func NewReportStore() (*ReportStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &ReportStore{BaseDir: filepath.Join(homeDir, ".vcscope", "reports")}, nil
}

// Save renders the results of a completed run and writes the report,
// returning the file path.
func (s *ReportStore) Save(subject string, results pipeline.Results) (string, error) {
	name := "report_" + time.Now().Format("20060102_150405") + ".md"
	path := filepath.Join(s.BaseDir, name)

	content := RenderReport(subject, results)
	if err := util.AtomicWriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// RenderReport builds the Markdown report for a pipeline run. Missing
// sections are omitted, so a partially failed run still exports what it
// produced.
func RenderReport(subject string, results pipeline.Results) string {
	var sb strings.Builder
	sb.WriteString("# Fundraising analysis")
	if subject != "" {
		sb.WriteString(": " + subject)
	}
	sb.WriteString("\n\nGenerated: " + time.Now().Format(time.RFC3339) + "\n\n")

	if a := results.Analysis; a != nil {
		sb.WriteString("## Company\n\n")
		if a.Website.Industry != "" {
			sb.WriteString("- Industry: " + a.Website.Industry + "\n")
		}
		if a.Website.Solution != "" {
			sb.WriteString("- Solution: " + a.Website.Solution + "\n")
		}
		if len(a.Website.Sectors) > 0 {
			sb.WriteString("- Sectors: " + strings.Join(a.Website.Sectors, ", ") + "\n")
		}
		if a.Website.Summary != "" {
			sb.WriteString("\n" + a.Website.Summary + "\n")
		}

		if a.Market.Text != "" {
			sb.WriteString("\n## Market analysis\n\n")
			sb.WriteString(a.Market.Text + "\n")
			if len(a.Market.Citations) > 0 {
				sb.WriteString("\nSources:\n")
				for _, c := range a.Market.Citations {
					sb.WriteString("- " + c + "\n")
				}
			}
		}
	}

	if len(results.Competitors) > 0 {
		sb.WriteString("\n## Competitors\n\n")
		for _, c := range results.Competitors {
			sb.WriteString("- [" + c.Name + "](" + c.Link + ")\n")
		}
	}

	if len(results.Firms) > 0 {
		sb.WriteString("\n## Matched VC firms\n\n")
		sb.WriteString("| Firm | Ticket size | Fund corpus | Sectors | Stages |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, f := range results.Firms {
			sb.WriteString("| " + f.Name +
				" | " + f.TicketSize +
				" | " + f.FundCorpus +
				" | " + strings.Join(f.SectorFocus, ", ") +
				" | " + strings.Join(f.StageFocus, ", ") + " |\n")
		}
	}

	return sb.String()
}
