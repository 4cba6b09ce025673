package bump

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// printSummary writes what the bump is about to do, one aligned row per
// setting.
func printSummary(w io.Writer, op *Operation) {
	rows := [][]string{
		{"files", strings.Join(op.Options.Files, "\n")},
	}
	if op.Options.Commit != nil {
		rows = append(rows, []string{"commit", op.State.CommitMessage})
	}
	if op.Options.Tag != nil {
		rows = append(rows, []string{"tag", op.State.TagName})
	}
	if op.Options.Execute != "" {
		rows = append(rows, []string{"execute", op.Options.Execute})
	}
	push := "no"
	if op.Options.Push {
		push = "yes"
	}
	rows = append(rows,
		[]string{"push", push},
		[]string{"cwd", op.Options.Cwd},
		[]string{"", ""},
		[]string{"from", op.State.CurrentVersion},
		[]string{"to", op.State.NewVersion},
	)

	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetRowLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	table.AppendBulk(rows)

	io.WriteString(w, "\n")
	table.Render()
	io.WriteString(w, "\n")
}
