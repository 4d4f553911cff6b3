package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentvet/agentvet/internal/domain"
	"github.com/agentvet/agentvet/internal/domain/validators"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

// styles carries every render style; the zero style set renders plain text,
// which is how --no-color output stays byte-deterministic.
type styles struct {
	title    lipgloss.Style
	pass     lipgloss.Style
	fail     lipgloss.Style
	warn     lipgloss.Style
	infoTag  lipgloss.Style
	dim      lipgloss.Style
	errorTag lipgloss.Style
	sep      lipgloss.Style
}

func newStyles(colors bool) styles {
	if !colors {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		pass:     lipgloss.NewStyle().Foreground(success),
		fail:     lipgloss.NewStyle().Foreground(danger),
		warn:     lipgloss.NewStyle().Foreground(warning).Bold(true),
		infoTag:  lipgloss.NewStyle().Foreground(info),
		dim:      lipgloss.NewStyle().Foreground(dim),
		errorTag: lipgloss.NewStyle().Foreground(danger).Bold(true),
		sep:      lipgloss.NewStyle().Foreground(faint),
	}
}

// RenderReport renders one component's validation outcome. The path is
// always present; verbose mode lists every finding with its code, severity,
// and message.
func RenderReport(agg *domain.AggregateResult, verbose, colors bool) string {
	st := newStyles(colors)
	var b strings.Builder

	verdict := st.pass.Render("PASS")
	if !agg.Overall.Valid {
		verdict = st.fail.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		verdict,
		st.title.Render(agg.Path),
		st.dim.Render(fmt.Sprintf("score %d/100", agg.Overall.Score))))

	for _, name := range domain.ValidatorOrder() {
		vr, ok := agg.Validators[name]
		if !ok {
			continue
		}
		mark := st.pass.Render("ok")
		if vr.ErrorCount() > 0 {
			mark = st.errorTag.Render(fmt.Sprintf("%d error(s)", vr.ErrorCount()))
		} else if !vr.Valid {
			mark = st.errorTag.Render("failed (strict)")
		}
		line := fmt.Sprintf("  %-10s %s", name, mark)
		if vr.WarningCount() > 0 {
			line += "  " + st.warn.Render(fmt.Sprintf("%d warning(s)", vr.WarningCount()))
		}
		b.WriteString(line + "\n")

		if verbose {
			renderFindings(&b, st, vr)
		}
	}

	return b.String()
}

func renderFindings(b *strings.Builder, st styles, vr *domain.ValidatorResult) {
	for _, f := range vr.Errors {
		b.WriteString(fmt.Sprintf("    %s %s %s\n", st.errorTag.Render("error"), st.dim.Render(f.Code), f.Message))
	}
	for _, f := range vr.Warnings {
		b.WriteString(fmt.Sprintf("    %s  %s %s\n", st.warn.Render("warn"), st.dim.Render(f.Code), f.Message))
	}
	for _, f := range vr.Info {
		b.WriteString(fmt.Sprintf("    %s  %s %s\n", st.infoTag.Render("info"), st.dim.Render(f.Code), f.Message))
	}
}

// RenderBatch renders a batch summary followed by each component's report.
func RenderBatch(batch *domain.BatchResult, verbose, colors bool) string {
	st := newStyles(colors)
	var b strings.Builder

	b.WriteString(st.title.Render("agentvet") + "  " +
		st.dim.Render(fmt.Sprintf("%d component(s): %s passed, %s failed",
			batch.Summary.Total,
			st.pass.Render(fmt.Sprintf("%d", batch.Summary.Passed)),
			st.fail.Render(fmt.Sprintf("%d", batch.Summary.Failed)))))
	b.WriteString("\n")
	if batch.CommitHash != "" {
		b.WriteString(st.dim.Render("commit "+batch.CommitHash) + "\n")
	}
	b.WriteString(st.sep.Render(strings.Repeat("─", 64)) + "\n")

	for i := range batch.Components {
		b.WriteString(RenderReport(&batch.Components[i], verbose, colors))
	}
	return b.String()
}

// RenderSecurityReport renders the semantic validator's risk view.
func RenderSecurityReport(path string, report validators.SecurityReport, colors bool) string {
	st := newStyles(colors)
	var b strings.Builder

	level := st.pass
	switch report.RiskLevel {
	case validators.RiskCritical, validators.RiskHigh:
		level = st.fail
	case validators.RiskMedium:
		level = st.warn
	}
	b.WriteString(fmt.Sprintf("%s  risk %s  %s\n", st.title.Render(path), level.Render(report.RiskLevel), st.dim.Render(report.Summary)))
	for _, f := range report.Issues {
		tag := st.errorTag.Render(f.Severity)
		if f.Severity != domain.SeverityError {
			tag = st.warn.Render(f.Severity)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", tag, st.dim.Render(f.Code), f.Message))
		if f.Context != "" {
			b.WriteString("    " + st.dim.Render("…"+strings.ReplaceAll(f.Context, "\n", " ")+"…") + "\n")
		}
	}
	return b.String()
}
