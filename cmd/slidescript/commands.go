package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/services"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var title string
	var synthesize bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ingest <deck-text-file>",
		Short: "Create a project from a deck's extracted text",
		Args:  cobra.ExactArgs(1),
	}
	settings := addSettingsFlags(cmd)
	cmd.Flags().StringVarP(&title, "title", "t", "", "Presentation title")
	cmd.Flags().BoolVar(&synthesize, "synthesize", false, "Draft scripts and timings right after ingesting")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the project snapshot as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}

		path := args[0]
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open deck: %w", err)
		}
		defer file.Close()

		deck, err := services.ReadDeck(file, mime.TypeByExtension(filepath.Ext(path)), cfg.MaxUploadBytes)
		if err != nil {
			return fmt.Errorf("read deck: %w", err)
		}

		return ctx.withService(func(svc *services.ProjectService) error {
			content, err := svc.IngestUpload(cmd.Context(), services.UploadRequest{
				Title:       title,
				Settings:    settings.patch(cmd),
				FileName:    filepath.Base(path),
				ContentType: deck.ContentType,
				Data:        deck.Data,
			})
			if err != nil {
				return err
			}
			if synthesize {
				if content, err = svc.Synthesize(cmd.Context(), content.Project.ID, nil); err != nil {
					return err
				}
			}
			return printSnapshot(cmd, content, jsonOut)
		})
	}
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *services.ProjectService) error {
				projects, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(projects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderProjects(projects))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's slides, timings and flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *services.ProjectService) error {
				content, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printSnapshot(cmd, content, jsonOut)
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the project snapshot as JSON")
	return cmd
}

func newSynthesizeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "synthesize <project-id>",
		Short: "Draft every slide's script and fit the timings to the total",
		Args:  cobra.ExactArgs(1),
	}
	settings := addSettingsFlags(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the project snapshot as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return ctx.withService(func(svc *services.ProjectService) error {
			content, err := svc.Synthesize(cmd.Context(), args[0], settings.patch(cmd))
			if err != nil {
				return err
			}
			return printSnapshot(cmd, content, jsonOut)
		})
	}
	return cmd
}

func newRebalanceCommand(ctx *commandContext) *cobra.Command {
	var total int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rebalance <project-id>",
		Short: "Redistribute the time budget across unlocked slides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *int
			if cmd.Flags().Changed("total") {
				target = &total
			}
			return ctx.withService(func(svc *services.ProjectService) error {
				content, err := svc.Rebalance(cmd.Context(), args[0], target)
				if err != nil {
					return err
				}
				return printSnapshot(cmd, content, jsonOut)
			})
		},
	}
	cmd.Flags().IntVar(&total, "total", 0, "New total talk length in seconds")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the project snapshot as JSON")
	return cmd
}

func newSlideCommand(ctx *commandContext) *cobra.Command {
	var (
		seconds      int
		minSeconds   int
		maxSeconds   int
		lock         bool
		unlock       bool
		goal         string
		talkTrack    string
		needsContext bool
		clearTags    bool
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "slide <project-id> <slide-id|number>",
		Short: "Edit one slide's timing, script or tags",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lock && unlock {
				return errors.New("--lock and --unlock are mutually exclusive")
			}

			flags := cmd.Flags()
			patch := domain.SlidePatch{}

			timing := &domain.TimingPatch{}
			if flags.Changed("seconds") {
				timing.Seconds = &seconds
			}
			if flags.Changed("min") {
				timing.MinSeconds = &minSeconds
			}
			if flags.Changed("max") {
				timing.MaxSeconds = &maxSeconds
			}
			if lock || unlock {
				locked := lock
				timing.Locked = &locked
			}
			if *timing != (domain.TimingPatch{}) {
				patch.Timing = timing
			}

			if flags.Changed("goal") || flags.Changed("talk-track") {
				patch.Script = &domain.ScriptPatch{}
				if flags.Changed("goal") {
					patch.Script.Goal = &goal
				}
				if flags.Changed("talk-track") {
					patch.Script.TalkTrack = &talkTrack
				}
			}

			switch {
			case needsContext:
				tags := []domain.Flag{domain.FlagNeedsContext}
				patch.Flags = &tags
			case clearTags:
				tags := []domain.Flag{}
				patch.Flags = &tags
			}

			return ctx.withService(func(svc *services.ProjectService) error {
				content, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				slideID, err := resolveSlide(content, args[1])
				if err != nil {
					return err
				}

				content, err = svc.PatchSlide(cmd.Context(), args[0], slideID, patch)
				if err != nil {
					return err
				}
				return printSnapshot(cmd, content, jsonOut)
			})
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", 0, "Allocated seconds")
	cmd.Flags().IntVar(&minSeconds, "min", 0, "Lower bound in seconds")
	cmd.Flags().IntVar(&maxSeconds, "max", 0, "Upper bound in seconds")
	cmd.Flags().BoolVar(&lock, "lock", false, "Pin the slide's seconds against rebalancing")
	cmd.Flags().BoolVar(&unlock, "unlock", false, "Release a pinned slide")
	cmd.Flags().StringVar(&goal, "goal", "", "Replace the slide goal")
	cmd.Flags().StringVar(&talkTrack, "talk-track", "", "Replace the talk track")
	cmd.Flags().BoolVar(&needsContext, "needs-context", false, "Tag the slide as needing more context")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "Remove manual tags")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the project snapshot as JSON")
	return cmd
}

// resolveSlide accepts a slide id or a 1-based slide number.
func resolveSlide(content *domain.Content, ref string) (string, error) {
	if slide := content.SlideByID(ref); slide != nil {
		return slide.ID, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(content.Slides) {
		return "", fmt.Errorf("slide %s in project %s: %w", ref, content.Project.ID, services.ErrSlideNotFound)
	}
	return content.Slides[n-1].ID, nil
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Render the speaking script as markdown or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := services.ParseExportFormat(format)
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *services.ProjectService) error {
				text, err := svc.Export(cmd.Context(), args[0], exportFormat)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), text)
					return err
				}
				if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(services.ExportMarkdown), "Export format (markdown, text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newPDFCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf <project-id>",
		Short: "Write the speaking script as a PDF handout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withService(func(svc *services.ProjectService) error {
				content, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = content.Project.ID + ".pdf"
				}
				if err := services.NewPDFService(cfg.PDFFontPath).GeneratePDF(content, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF path (default <project-id>.pdf)")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its slides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *services.ProjectService) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", strings.TrimSpace(args[0]))
				return nil
			})
		},
	}
}
