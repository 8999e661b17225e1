package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

const unicodeFontFamily = "ScriptFont"

// PDFService writes the speaking script as a printable handout. Core PDF fonts
// only cover Latin-1; a TrueType font is needed for Japanese scripts.
type PDFService struct {
	fontPath string
}

func NewPDFService(fontPath string) *PDFService {
	return &PDFService{fontPath: fontPath}
}

func (s *PDFService) GeneratePDF(content *domain.Content, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure pdf directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(content.Project.Title, true)
	pdf.SetAuthor("slidescript", false)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if s.fontPath != "" {
		pdf.AddUTF8Font(unicodeFontFamily, "", s.fontPath)
		pdf.AddUTF8Font(unicodeFontFamily, "B", s.fontPath)
		family = unicodeFontFamily
		tr = func(str string) string { return str }
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load pdf font: %w", err)
	}

	l := labelsFor(content.Project.Settings.Language)
	pdf.AddPage()

	title := content.Project.Title
	if strings.TrimSpace(title) == "" {
		title = domain.DefaultTitle
	}

	pdf.SetFont(family, "B", 18)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont(family, "", 11)
	stats := content.Project.Stats
	pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %s   %s: %d   %s: %s",
		l.total, l.totalTime(content.Project.Settings.TotalSeconds),
		l.slideCount, stats.SlideCount,
		l.allocated, l.seconds(stats.AllocatedSeconds))))
	pdf.Ln(10)

	for _, slide := range content.Slides {
		pdf.SetFont(family, "B", 14)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%s %d: %s (%s)", l.slide, slide.Index+1, slide.TitleGuess, timingLine(slide.Timing, l))), "", "L", false)
		pdf.Ln(1)

		pdf.SetFont(family, "", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s: %s", l.goal, slide.Script.Goal)), "", "L", false)
		pdf.Ln(2)

		s.writeSection(pdf, family, tr, l.talkTrack, slide.Script.TalkTrack, false)
		if len(slide.Script.KeyPoints) > 0 {
			s.writeSection(pdf, family, tr, l.keyPoints, strings.Join(slide.Script.KeyPoints, "\n"), true)
		}
		pdf.Ln(6)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}

func (s *PDFService) writeSection(pdf *gofpdf.Fpdf, family string, tr func(string) string, title, content string, bullet bool) {
	pdf.SetFont(family, "B", 12)
	pdf.Cell(0, 7, tr(title))
	pdf.Ln(8)

	pdf.SetFont(family, "", 11)

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		text := line
		if bullet {
			text = "- " + line
		}
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
	}
	pdf.Ln(2)
}
