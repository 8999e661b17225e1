package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/services"
)

const sampleDeck = "Welcome\nToday we look at the plan.\n\n" +
	"Agenda\n- Results\n- Risks\n- Next steps\n\n" +
	"Thanks\nQuestions are welcome."

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STORE_BACKEND", "SETTINGS_FILE", "PDF_FONT_PATH", "MAX_UPLOAD_MB", "SHARE_TTL_SECONDS", "FETCH_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATA_DIR", t.TempDir())
}

func runCLI(t *testing.T, store, dataDir string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--data-dir", dataDir}
	if store != "" {
		flags = append(flags, "--store", store)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeSnapshot(t *testing.T, out string) domain.Content {
	t.Helper()
	var content domain.Content
	if err := json.Unmarshal([]byte(out), &content); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	return content
}

func writeDeck(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.txt")
	if err := os.WriteFile(path, []byte(sampleDeck), 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	return path
}

func TestCLIWorkflow(t *testing.T) {
	for _, store := range []string{"", "sqlite"} {
		name := store
		if name == "" {
			name = "file"
		}
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			dataDir := t.TempDir()
			deckPath := writeDeck(t)

			out, _, err := runCLI(t, store, dataDir, "ingest", deckPath, "--title", "Demo", "--total", "300", "--json")
			if err != nil {
				t.Fatalf("ingest: %v", err)
			}
			created := decodeSnapshot(t, out)
			id := created.Project.ID
			if created.Project.Title != "Demo" || len(created.Slides) != 3 || created.Project.Settings.TotalSeconds != 300 {
				t.Fatalf("unexpected project %+v", created.Project)
			}

			out, _, err = runCLI(t, store, dataDir, "show", id)
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			if !strings.Contains(out, "Demo ("+id+")") || !strings.Contains(out, "Agenda") {
				t.Fatalf("unexpected show output:\n%s", out)
			}

			out, _, err = runCLI(t, store, dataDir, "synthesize", id, "--language", "en", "--json")
			if err != nil {
				t.Fatalf("synthesize: %v", err)
			}
			synth := decodeSnapshot(t, out)
			if synth.Project.Settings.Language != domain.LanguageEnglish || synth.Slides[1].Script.Goal != "Agenda" {
				t.Fatalf("unexpected synthesis %+v", synth.Slides[1].Script)
			}

			out, _, err = runCLI(t, store, dataDir, "slide", id, "2", "--seconds", "200", "--lock", "--needs-context", "--json")
			if err != nil {
				t.Fatalf("slide: %v", err)
			}
			patched := decodeSnapshot(t, out)
			slide := patched.Slides[1]
			if !slide.Timing.Locked || slide.Timing.Seconds != 200 {
				t.Fatalf("unexpected timing %+v", slide.Timing)
			}
			if !domain.HasFlag(slide.Flags, domain.FlagTooLong) || !domain.HasFlag(slide.Flags, domain.FlagNeedsContext) {
				t.Fatalf("unexpected flags %v", slide.Flags)
			}

			out, _, err = runCLI(t, store, dataDir, "rebalance", id, "--total", "400", "--json")
			if err != nil {
				t.Fatalf("rebalance: %v", err)
			}
			rebalanced := decodeSnapshot(t, out)
			if rebalanced.Slides[1].Timing.Seconds != 200 || rebalanced.Project.Settings.TotalSeconds != 400 {
				t.Fatalf("locked slide moved or total not updated: %+v", rebalanced.Slides[1].Timing)
			}

			out, _, err = runCLI(t, store, dataDir, "export", id, "--format", "text")
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			if !strings.HasPrefix(out, "Demo\n====\n") {
				t.Fatalf("unexpected export:\n%s", out)
			}

			out, _, err = runCLI(t, store, dataDir, "list")
			if err != nil || !strings.Contains(out, id) {
				t.Fatalf("list: %v\n%s", err, out)
			}

			if _, _, err = runCLI(t, store, dataDir, "delete", id); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, _, err = runCLI(t, store, dataDir, "show", id); !errors.Is(err, services.ErrNotFound) {
				t.Fatalf("expected not found after delete, got %v", err)
			}
		})
	}
}

func TestCLIRejectsBadInput(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()

	out, _, err := runCLI(t, "", dataDir, "ingest", writeDeck(t), "--json")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	id := decodeSnapshot(t, out).Project.ID

	if _, _, err := runCLI(t, "", dataDir, "rebalance", id, "--total", "0"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero total, got %v", err)
	}
	if _, _, err := runCLI(t, "", dataDir, "slide", id, "9", "--seconds", "10"); !errors.Is(err, services.ErrSlideNotFound) {
		t.Fatalf("expected slide not found, got %v", err)
	}
	if _, _, err := runCLI(t, "", dataDir, "export", id, "--format", "docx"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid format error, got %v", err)
	}
	if _, _, err := runCLI(t, "bogus", dataDir, "list"); err == nil {
		t.Fatalf("expected error for unknown store backend")
	}
}

func TestCLIWritesPDF(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()

	out, _, err := runCLI(t, "", dataDir, "ingest", writeDeck(t), "--title", "Handout", "--language", "en", "--json")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	id := decodeSnapshot(t, out).Project.ID

	pdfPath := filepath.Join(t.TempDir(), "handout.pdf")
	if _, _, err := runCLI(t, "", dataDir, "pdf", id, "-o", pdfPath); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf at %s: %v", pdfPath, err)
	}
}
