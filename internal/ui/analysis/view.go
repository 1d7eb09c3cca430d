// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/vcscope-tui/internal/api"
	"github.com/jeranaias/vcscope-tui/internal/pipeline"
	"github.com/jeranaias/vcscope-tui/internal/ui/styles"
	"github.com/jeranaias/vcscope-tui/internal/util"
)

var stageOrder = []pipeline.Stage{
	pipeline.StageAnalyze,
	pipeline.StageQueries,
	pipeline.StageCompetitors,
	pipeline.StageFirms,
}

// View renders the analysis view.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 || !m.ready {
		return "Loading..."
	}

	sections := []string{
		m.renderForm(),
		m.renderChecklist(),
		m.renderStatusLine(),
		m.viewport.View(),
		m.renderHint(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderForm renders the URL and funding stage fields.
func (m Model) renderForm() string {
	urlLabel := m.theme.InputLabel.Render("URL    ")
	stageLabel := m.theme.InputLabel.Render("Stage  ")
	return urlLabel + m.urlInput.View() + "\n" +
		stageLabel + m.stageInput.View() + "\n"
}

// renderChecklist renders the four-stage progress list.
func (m Model) renderChecklist() string {
	lines := make([]string, 0, len(stageOrder))
	for _, stage := range stageOrder {
		lines = append(lines, m.renderStageLine(stage))
	}
	return strings.Join(lines, "\n")
}

// renderStageLine renders one checklist entry with its shape indicator.
func (m Model) renderStageLine(stage pipeline.Stage) string {
	status := m.runner.Status()

	done := func() string {
		return m.theme.StageDone.Render(styles.StatusIndicators.Success + " " + stage.Label())
	}
	pending := func() string {
		return m.theme.StagePending.Render(styles.StatusIndicators.Pending + " " + stage.Label())
	}

	switch status.Kind {
	case pipeline.KindSucceeded:
		return done()
	case pipeline.KindRunning:
		switch {
		case stage < status.Stage:
			return done()
		case stage == status.Stage:
			return m.theme.StageRunning.Render(styles.StatusIndicators.Active + " " + stage.Label())
		default:
			return pending()
		}
	case pipeline.KindFailed:
		switch {
		case stage < status.Stage:
			return done()
		case stage == status.Stage:
			return m.theme.StageFailed.Render(styles.StatusIndicators.Error + " " + stage.Label())
		default:
			return pending()
		}
	default:
		return pending()
	}
}

// renderStatusLine renders the line between the checklist and the results.
func (m Model) renderStatusLine() string {
	if m.statusMsg != "" {
		return m.theme.ThinkingText.Render(m.statusMsg)
	}

	status := m.runner.Status()
	switch status.Kind {
	case pipeline.KindRunning:
		return m.spin.View()
	case pipeline.KindSucceeded:
		return styles.RenderSuccess(status.Message())
	case pipeline.KindFailed:
		msg := status.Message()
		if status.Err != nil {
			msg += ": " + status.Err.Error()
		}
		return styles.RenderError(msg)
	default:
		return m.theme.ThinkingText.Render("Enter your startup's URL to begin the analysis.")
	}
}

// renderResults renders all populated result sections. A failed run keeps
// the sections of the stages that finished.
func (m Model) renderResults() string {
	sections, _ := m.resultSections()
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n")
}

// resultSections builds the populated result sections in display order and
// reports the index of the comparison section, -1 when absent.
func (m Model) resultSections() ([]string, int) {
	results := m.runner.Results()

	var sections []string
	comparisonIdx := -1
	if results.Analysis != nil {
		sections = append(sections, m.renderCompany(results.Analysis))
		sections = append(sections, m.renderMarket(results.Analysis))
	}
	if len(results.Queries) > 0 {
		sections = append(sections, m.renderQueries(results.Queries))
	}
	if len(results.Competitors) > 0 {
		sections = append(sections, m.renderCompetitors(results.Competitors))
	}
	if m.runner.Comparison() != nil || m.runner.CompareError() != nil {
		comparisonIdx = len(sections)
		sections = append(sections, m.renderComparison())
	}
	if len(results.Firms) > 0 {
		sections = append(sections, m.renderFirms(results.Firms))
	}
	return sections, comparisonIdx
}

// renderCompany renders the website analysis card.
func (m Model) renderCompany(a *api.Analysis) string {
	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Company") + "\n")
	if a.Website.Industry != "" {
		sb.WriteString(m.theme.CardMeta.Render("Industry: ") + a.Website.Industry + "\n")
	}
	if a.Website.Solution != "" {
		sb.WriteString(m.theme.CardMeta.Render("Solution: ") + a.Website.Solution + "\n")
	}
	if len(a.Website.Sectors) > 0 {
		badges := make([]string, 0, len(a.Website.Sectors))
		for _, sector := range a.Website.Sectors {
			badges = append(badges, m.theme.Badge.Render(sector))
		}
		sb.WriteString(strings.Join(badges, " ") + "\n")
	}
	if a.Website.Summary != "" {
		sb.WriteString(m.theme.CardBody.Render(a.Website.Summary))
	}
	return m.theme.CardBox.Width(m.contentWidth()).Render(sb.String())
}

// renderMarket renders the Markdown market study through glamour, falling
// back to the raw text when rendering fails.
func (m Model) renderMarket(a *api.Analysis) string {
	if a.Market.Text == "" {
		return ""
	}

	body := a.Market.Text
	if m.markdown != nil {
		if rendered, err := m.markdown.Render(body); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Market analysis") + "\n")
	sb.WriteString(body)
	if len(a.Market.Citations) > 0 {
		sb.WriteString("\n" + m.theme.CardMeta.Render("Sources:"))
		for _, cite := range a.Market.Citations {
			sb.WriteString("\n  " + styles.RenderLink(cite))
		}
	}
	return sb.String()
}

// renderQueries renders the generated search queries.
func (m Model) renderQueries(queries []string) string {
	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Search queries"))
	for _, q := range queries {
		sb.WriteString("\n" + m.theme.ListItem.Render("- "+q))
	}
	return sb.String()
}

// renderCompetitors renders the competitor list with the selection cursor
// and per-link comparison indicators.
func (m Model) renderCompetitors(competitors []api.Competitor) string {
	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Competitors"))

	for i, c := range competitors {
		marker := "  "
		style := m.theme.ListItem
		if m.focus == focusResults && i == m.cursor {
			marker = "> "
			style = m.theme.ListSelected
		}

		line := marker + style.Render(c.Name)
		if c.Link != "" {
			line += "  " + styles.RenderLink(c.Link)
		}
		if m.runner.IsComparing(c.Link) {
			line += "  " + m.compareSpin.View() + " comparing"
		}
		sb.WriteString("\n" + line)
	}

	sb.WriteString("\n" + m.theme.CardMeta.Render("enter compares the selected competitor with your company"))
	return sb.String()
}

// renderComparison renders the single shared comparison slot. A failed
// comparison keeps the previous table visible under the error line.
func (m Model) renderComparison() string {
	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Comparison"))

	if err := m.runner.CompareError(); err != nil {
		sb.WriteString("\n" + styles.RenderError("Comparison failed: "+err.Error()))
	}

	cmp := m.runner.Comparison()
	if cmp == nil {
		return sb.String()
	}

	col := (m.contentWidth() - 18) / 2
	if col < 10 {
		col = 10
	}
	header := util.PadRight("Aspect", 16) +
		util.PadRight("Your company", col) +
		util.PadRight("Competitor", col)
	sb.WriteString("\n" + m.theme.TableHeader.Render(header))
	for _, row := range cmp.Table {
		line := util.PadRight(util.TruncateWidth(row.Aspect, 15), 16) +
			util.PadRight(util.TruncateWidth(row.Company1, col-1), col) +
			util.PadRight(util.TruncateWidth(row.Company2, col-1), col)
		sb.WriteString("\n" + m.theme.TableRow.Render(line))
	}
	if cmp.Summary != "" {
		sb.WriteString("\n" + m.theme.CardBody.Render(cmp.Summary))
	}
	return sb.String()
}

// renderFirms renders the matched VC firm table.
func (m Model) renderFirms(firms []api.Firm) string {
	var sb strings.Builder
	sb.WriteString(m.theme.CardTitle.Render("Matched VC firms"))

	nameW, focusW := 24, 28
	header := util.PadRight("Firm", nameW) +
		util.PadRight("Ticket", 14) +
		util.PadRight("Fund", 14) +
		util.PadRight("Focus", focusW)
	sb.WriteString("\n" + m.theme.TableHeader.Render(header))

	for _, f := range firms {
		focus := strings.Join(f.SectorFocus, ", ")
		if focus != "" && len(f.StageFocus) > 0 {
			focus += " / "
		}
		focus += strings.Join(f.StageFocus, ", ")

		line := util.PadRight(util.TruncateWidth(f.Name, nameW-1), nameW) +
			util.PadRight(util.TruncateWidth(f.TicketSize, 13), 14) +
			util.PadRight(util.TruncateWidth(f.FundCorpus, 13), 14) +
			util.TruncateWidth(focus, focusW)
		sb.WriteString("\n" + m.theme.TableRow.Render(line))
	}
	return sb.String()
}

// renderHint renders the bottom hint line.
func (m Model) renderHint() string {
	hints := []string{
		m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" focus"),
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" analyze/compare"),
		m.theme.ShortcutKey.Render("C-s") + m.theme.ShortcutDesc.Render(" save report"),
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back"),
	}
	return strings.Join(hints, "  ")
}

// contentWidth is the usable width inside the results viewport.
func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}
