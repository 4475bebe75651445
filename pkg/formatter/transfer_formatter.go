package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ferry/internal/service"
	"ferry/internal/tooldef"
	"ferry/pkg/storage"
	"ferry/pkg/transfer"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Formats a section header with a title
func FormatHeaderSection(title string) string {
	return headerStyle.Render(title)
}

// Formats a simple section title
func FormatSectionTitle(title string) string {
	return sectionStyle.Render("-- " + title + " --")
}

type TransferFormatter struct{}

func NewTransferFormatter() *TransferFormatter {
	return &TransferFormatter{}
}

// FormatResult renders a single transfer outcome.
func (f *TransferFormatter) FormatResult(r transfer.Result) string {
	var sb strings.Builder

	if r.Status == transfer.StatusSuccess {
		sb.WriteString(successStyle.Render("Transfer succeeded"))
		sb.WriteString("\n")

		table := NewTable([]string{"Parameter", "Value"})
		table.AddRow([]string{"File name", r.Key.Basename()})
		table.AddRow([]string{"Key", r.Key.String()})
		table.AddRow([]string{"Size", storage.FormatBytes(r.SizeBytes)})
		table.AddRow([]string{"Content type", r.ContentType})
		if r.URL != "" {
			table.AddRow([]string{"URL", r.URL})
		}
		sb.WriteString(table.String())
		return sb.String()
	}

	sb.WriteString(failureStyle.Render("Transfer failed"))
	sb.WriteString("\n")
	if r.OriginalFilename != "" {
		sb.WriteString(fmt.Sprintf("  File:  %s\n", r.OriginalFilename))
	}
	sb.WriteString(fmt.Sprintf("  Error: %s", r.ErrorMessage))
	if r.TimedOut {
		sb.WriteString(faintStyle.Render(" (timed out)"))
	}
	return sb.String()
}

// FormatBatchResult renders the full outcome table of a batch plus a
// succeeded/failed summary line.
func (f *TransferFormatter) FormatBatchResult(batch transfer.BatchResult) string {
	var sb strings.Builder

	table := NewTable([]string{"#", "STATUS", "FILE", "SIZE", "TYPE", "DETAIL"})
	for i, r := range batch.Items {
		status := successStyle.Render(string(r.Status))
		detail := r.URL
		name := r.Key.Basename()
		size := storage.FormatBytes(r.SizeBytes)
		if r.Status == transfer.StatusFailed {
			status = failureStyle.Render(string(r.Status))
			detail = r.ErrorMessage
			if name == "" {
				name = r.OriginalFilename
			}
			size = "-"
		}
		table.AddRow([]string{
			fmt.Sprintf("%d", i+1),
			status,
			name,
			size,
			r.ContentType,
			detail,
		})
	}
	sb.WriteString(table.String())
	sb.WriteString("\n")

	summary := fmt.Sprintf("%s: %d  %s: %d",
		successStyle.Render("succeeded"), batch.Succeeded,
		failureStyle.Render("failed"), batch.Failed,
	)
	sb.WriteString(summary)

	return sb.String()
}

// FormatStatusReport renders the backend status probe.
func (f *TransferFormatter) FormatStatusReport(report service.StatusReport) string {
	var sb strings.Builder

	sb.WriteString(FormatHeaderSection("Backend: " + report.Backend))
	sb.WriteString("\n\n")

	table := NewTable([]string{"Parameter", "Value"})
	table.AddRow([]string{"Endpoint", report.Endpoint})
	table.AddRow([]string{"Bucket", report.Bucket.Name})
	if report.Bucket.Location != "" {
		table.AddRow([]string{"Location / Region", report.Bucket.Location})
	}
	table.AddRow([]string{"Usage", storage.FormatBytes(report.Bucket.UsageBytes)})
	if !report.Bucket.CreatedAt.IsZero() {
		table.AddRow([]string{"Created On", report.Bucket.CreatedAt.Format(time.RFC1123)})
	}
	sb.WriteString(table.String())
	sb.WriteString("\n\n")
	sb.WriteString(successStyle.Render("Credentials verified"))

	return sb.String()
}

// FormatToolList renders the embedded operation manifest.
func (f *TransferFormatter) FormatToolList(tools []tooldef.Tool) string {
	var sb strings.Builder

	for i, tool := range tools {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(FormatSectionTitle(tool.Label))
		sb.WriteString("\n")
		sb.WriteString(faintStyle.Render(tool.Description))
		sb.WriteString("\n")

		table := NewTable([]string{"PARAMETER", "TYPE", "REQUIRED", "DEFAULT", "DESCRIPTION"})
		for _, p := range tool.Parameters {
			required := ""
			if p.Required {
				required = "yes"
			}
			table.AddRow([]string{p.Name, p.Type, required, p.Default, p.Description})
		}
		sb.WriteString(table.String())
	}

	return sb.String()
}
