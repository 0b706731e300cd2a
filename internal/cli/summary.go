package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/mvp-joe/javameta/internal/runner"
)

// renderSummary writes a per-file table of the run to w.
func renderSummary(w io.Writer, result *runner.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Descriptors", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, record := range result.Records {
		table.Append([]string{record.FilePath, fmt.Sprintf("%d", len(record.Details)), "ok"})
	}
	for _, failure := range result.Failures {
		table.Append([]string{failure.Path, "-", "failed"})
	}
	for _, path := range result.Skipped {
		table.Append([]string{path, "-", "skipped"})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(result.Records)+len(result.Failures)+len(result.Skipped)),
		fmt.Sprintf("%d", result.DescriptorCount()),
		fmt.Sprintf("%.1fs", result.Duration.Seconds()),
	})

	table.Render()
}
