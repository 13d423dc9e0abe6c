package controller

import (
	"bytes"
	"fmt"

	m "github.com/mouse-blink/agentcli/internal/model"
	"github.com/olekukonko/tablewriter"
)

// timestampDisplayLayout is how backup times are shown to users.
const timestampDisplayLayout = "2006-01-02 15:04:05.000"

// outcomeHeadline is the one distinct line printed for each outcome.
func outcomeHeadline(result m.TransactionResult) string {
	switch result.Outcome {
	case m.OutcomeCommitted:
		return fmt.Sprintf("Rename committed: %d file(s) modified, %d reference(s) replaced",
			result.FilesModified, result.ReferencesReplaced)
	case m.OutcomeCancelled:
		return "Rename cancelled: no files were changed"
	case m.OutcomeNoReferences:
		return fmt.Sprintf("No references found for %s: nothing to do", result.Symbol.OldName)
	case m.OutcomeRolledBack:
		return fmt.Sprintf("Rename FAILED and was rolled back: %v", result.Err)
	case m.OutcomeNotSupported:
		return fmt.Sprintf("%s rename is not yet supported: nothing was changed", kindLabel(result.Symbol.Kind))
	default:
		return fmt.Sprintf("Rename ended in unknown state %q", result.Outcome)
	}
}

// outcomeDetails are the lines that follow the headline.
func outcomeDetails(result m.TransactionResult) []string {
	var lines []string

	switch result.Outcome {
	case m.OutcomeCommitted:
		if result.RenamedFile != nil {
			lines = append(lines, fmt.Sprintf("Renamed %s -> %s", result.RenamedFile.From, result.RenamedFile.To))
		}
	case m.OutcomeRolledBack:
		if result.Clean() {
			lines = append(lines, "No net change: every touched file was restored")
			break
		}

		lines = append(lines, fmt.Sprintf("WARNING: %d path(s) could not be restored:", len(result.UnrestoredPaths)))
		for _, path := range result.UnrestoredPaths {
			lines = append(lines, "  "+path.String())
		}
	}

	return lines
}

func kindLabel(kind m.SymbolKind) string {
	switch kind {
	case m.SymbolClass:
		return "Class"
	case m.SymbolMethod:
		return "Method"
	case m.SymbolVariable:
		return "Variable"
	case m.SymbolPackage:
		return "Package"
	default:
		return string(kind)
	}
}

func previewHeadline(tx m.RefactorTransaction) string {
	return fmt.Sprintf("%s: %d reference(s) in %d file(s)",
		tx.Symbol.String(), tx.References.Len(), tx.References.FileCount())
}

// sampleLines returns up to maxSamples formatted refs and how many were left out.
func sampleLines(file m.FileReferences, maxSamples int) ([]string, int) {
	shown := file.Refs
	if maxSamples >= 0 && len(shown) > maxSamples {
		shown = shown[:maxSamples]
	}

	lines := make([]string, 0, len(shown))
	for _, ref := range shown {
		lines = append(lines, fmt.Sprintf("%5d: %s", ref.Line, ref.Text))
	}

	return lines, len(file.Refs) - len(shown)
}

func renderSummaryTable(tx m.RefactorTransaction) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "References"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, file := range tx.References.Files {
		table.Append([]string{file.Path.String(), fmt.Sprintf("%d", len(file.Refs))})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", tx.References.FileCount()),
		fmt.Sprintf("%d", tx.References.Len()),
	})

	table.Render()

	return tableBuffer.String()
}

func renderBackupsTable(entries []m.BackupEntry) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Original", "Taken", "Backup"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, entry := range entries {
		taken := entry.Timestamp
		if ts, err := entry.Time(); err == nil {
			taken = ts.Local().Format(timestampDisplayLayout)
		}

		table.Append([]string{entry.OriginalPath.String(), taken, entry.BackupPath.String()})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(entries)), "", ""})
	table.Render()

	return tableBuffer.String()
}

// isAffirmative accepts y and yes in any case.
func isAffirmative(answer string) bool {
	switch answer {
	case "y", "Y", "yes", "Yes", "YES":
		return true
	default:
		return false
	}
}
