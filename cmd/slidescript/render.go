package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/services"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiBlue  = "\033[34m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSnapshot(cmd *cobra.Command, content *domain.Content, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, content)
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	p := content.Project

	header := fmt.Sprintf("%s (%s)", p.Title, p.ID)
	if colorize {
		header = ansiBlue + header + ansiReset
	}
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, services.SummaryTable(content))
	fmt.Fprintln(out, budgetLine(p, colorize))
	return nil
}

func budgetLine(p domain.Project, colorize bool) string {
	line := fmt.Sprintf("allocated %ds of %ds available (total %ds, Q&A %ds)",
		p.Stats.AllocatedSeconds, p.Settings.AvailableSeconds(), p.Settings.TotalSeconds, p.Settings.QABufferSeconds)
	if p.Stats.OverBySeconds > 0 {
		over := fmt.Sprintf("over by %ds", p.Stats.OverBySeconds)
		if colorize {
			over = ansiRed + over + ansiReset
		}
		return line + ", " + over
	}
	if colorize {
		return ansiGreen + line + ansiReset
	}
	return line
}

func renderProjects(projects []domain.Project) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Slides", "Allocated", "Total", "Updated"})

	for _, p := range projects {
		tw.AppendRow(table.Row{
			p.ID,
			p.Title,
			strconv.Itoa(p.Stats.SlideCount),
			strconv.Itoa(p.Stats.AllocatedSeconds),
			strconv.Itoa(p.Settings.TotalSeconds),
			time.Unix(p.UpdatedAt, 0).Format("2006-01-02 15:04"),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
