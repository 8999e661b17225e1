package services

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportText     ExportFormat = "text"
)

func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", ExportMarkdown, "md":
		return ExportMarkdown, nil
	case ExportText, "txt":
		return ExportText, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, value)
}

type exportLabels struct {
	totalTime  func(seconds int) string
	seconds    func(seconds int) string
	total      string
	slideCount string
	allocated  string
	over       string
	slide      string
	goal       string
	timing     string
	locked     string
	talkTrack  string
	keyPoints  string
	transIn    string
	transOut   string
	flags      string
}

var labelTable = map[domain.Language]exportLabels{
	domain.LanguageJapanese: {
		totalTime:  func(s int) string { return fmt.Sprintf("%d分%d秒", s/60, s%60) },
		seconds:    func(s int) string { return fmt.Sprintf("%d秒", s) },
		total:      "総時間",
		slideCount: "スライド数",
		allocated:  "割り当て",
		over:       "超過",
		slide:      "スライド",
		goal:       "目標",
		timing:     "時間",
		locked:     "固定",
		talkTrack:  "台本",
		keyPoints:  "ポイント",
		transIn:    "導入",
		transOut:   "締め",
		flags:      "フラグ",
	},
	domain.LanguageEnglish: {
		totalTime:  func(s int) string { return fmt.Sprintf("%dm %ds", s/60, s%60) },
		seconds:    func(s int) string { return fmt.Sprintf("%ds", s) },
		total:      "Total time",
		slideCount: "Slides",
		allocated:  "Allocated",
		over:       "Over by",
		slide:      "Slide",
		goal:       "Goal",
		timing:     "Time",
		locked:     "locked",
		talkTrack:  "Talk track",
		keyPoints:  "Key points",
		transIn:    "Transition in",
		transOut:   "Transition out",
		flags:      "Flags",
	},
}

func labelsFor(lang domain.Language) exportLabels {
	if l, ok := labelTable[lang]; ok {
		return l
	}
	return labelTable[domain.LanguageJapanese]
}

// Render formats the project as a speaker document.
func Render(content *domain.Content, format ExportFormat) (string, error) {
	switch format {
	case ExportMarkdown, "":
		return renderMarkdown(content), nil
	case ExportText:
		return renderText(content), nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
}

func renderMarkdown(content *domain.Content) string {
	p := content.Project
	l := labelsFor(p.Settings.Language)

	lines := []string{
		"# " + p.Title,
		"",
		fmt.Sprintf("%s: %s", l.total, l.totalTime(p.Settings.TotalSeconds)),
		fmt.Sprintf("%s: %d", l.slideCount, p.Stats.SlideCount),
		fmt.Sprintf("%s: %s", l.allocated, l.seconds(p.Stats.AllocatedSeconds)),
	}
	if p.Stats.OverBySeconds > 0 {
		lines = append(lines, fmt.Sprintf("%s: %s", l.over, l.seconds(p.Stats.OverBySeconds)))
	}
	lines = append(lines, "", "---", "")

	for _, slide := range content.Slides {
		lines = append(lines, fmt.Sprintf("## %s %d: %s", l.slide, slide.Index+1, slide.TitleGuess), "")
		lines = append(lines, fmt.Sprintf("**%s**: %s", l.goal, slide.Script.Goal), "")
		lines = append(lines, fmt.Sprintf("**%s**: %s", l.timing, timingLine(slide.Timing, l)), "")

		if slide.Script.TransitionIn != nil {
			lines = append(lines, fmt.Sprintf("_%s_: %s", l.transIn, *slide.Script.TransitionIn), "")
		}

		lines = append(lines, "### "+l.talkTrack, "", slide.Script.TalkTrack, "")

		if len(slide.Script.KeyPoints) > 0 {
			lines = append(lines, "### "+l.keyPoints, "")
			for _, point := range slide.Script.KeyPoints {
				lines = append(lines, "- "+point)
			}
			lines = append(lines, "")
		}

		if slide.Script.TransitionOut != nil {
			lines = append(lines, fmt.Sprintf("_%s_: %s", l.transOut, *slide.Script.TransitionOut), "")
		}

		lines = append(lines, "---", "")
	}

	return strings.Join(lines, "\n")
}

func renderText(content *domain.Content) string {
	p := content.Project
	l := labelsFor(p.Settings.Language)

	var b strings.Builder
	b.WriteString(p.Title + "\n")
	b.WriteString(strings.Repeat("=", text.RuneWidthWithoutEscSequences(p.Title)) + "\n\n")
	fmt.Fprintf(&b, "%s: %s\n", l.total, l.totalTime(p.Settings.TotalSeconds))
	fmt.Fprintf(&b, "%s: %s / %s: %s\n\n", l.allocated, l.seconds(p.Stats.AllocatedSeconds), l.over, l.seconds(p.Stats.OverBySeconds))

	b.WriteString(SummaryTable(content))
	b.WriteString("\n\n")

	for _, slide := range content.Slides {
		fmt.Fprintf(&b, "[%d] %s (%s)\n", slide.Index+1, slide.TitleGuess, timingLine(slide.Timing, l))
		fmt.Fprintf(&b, "%s: %s\n\n", l.goal, slide.Script.Goal)
		b.WriteString(slide.Script.TalkTrack + "\n")
		for _, point := range slide.Script.KeyPoints {
			b.WriteString("  * " + point + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// SummaryTable renders one row per slide with its timing and flags.
func SummaryTable(content *domain.Content) string {
	l := labelsFor(content.Project.Settings.Language)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", l.slide, l.timing, "Min", "Max", l.locked, l.flags})

	for _, slide := range content.Slides {
		locked := ""
		if slide.Timing.Locked {
			locked = "yes"
		}
		tw.AppendRow(table.Row{
			slide.Index + 1,
			truncate(slide.TitleGuess, 32),
			slide.Timing.Seconds,
			slide.Timing.MinSeconds,
			slide.Timing.MaxSeconds,
			locked,
			joinFlags(slide.Flags),
		})
	}
	tw.AppendFooter(table.Row{"", "", content.Project.Stats.AllocatedSeconds, "", "", "", ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func timingLine(t domain.Timing, l exportLabels) string {
	line := l.seconds(t.Seconds)
	if t.Locked {
		line += " (" + l.locked + ")"
	}
	return line
}

func joinFlags(flags []domain.Flag) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
