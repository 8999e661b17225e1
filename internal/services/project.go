package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/r1cA18/make-slide-script/internal/deck"
	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/script"
	"github.com/r1cA18/make-slide-script/internal/storage"
	"github.com/r1cA18/make-slide-script/internal/timing"
)

// DeckFile points at a deck hosted elsewhere.
type DeckFile struct {
	DownloadURL string `json:"downloadUrl"`
	FileID      string `json:"fileId"`
}

type IngestRequest struct {
	Title    string                `json:"title"`
	Settings *domain.SettingsPatch `json:"settings"`
	DeckFile DeckFile              `json:"deckFile"`
}

type UploadRequest struct {
	Title       string
	Settings    *domain.SettingsPatch
	FileName    string
	ContentType string
	Data        []byte
}

// ProjectService runs the ingest, synthesis, patch, rebalance and export
// operations against a repository. Every mutating call returns the full
// snapshot. A failed call leaves the stored project untouched.
type ProjectService struct {
	repo     storage.Repository
	fetcher  DeckFetcher
	synth    *script.Synthesizer
	defaults domain.Settings
	now      func() time.Time
}

func NewProjectService(repo storage.Repository, fetcher DeckFetcher, synth *script.Synthesizer, defaults domain.Settings) *ProjectService {
	if synth == nil {
		synth = script.NewSynthesizer(nil)
	}
	return &ProjectService{
		repo:     repo,
		fetcher:  fetcher,
		synth:    synth,
		defaults: defaults,
		now:      time.Now,
	}
}

// Ingest downloads the deck and creates a project with one slide per segment.
func (s *ProjectService) Ingest(ctx context.Context, req IngestRequest) (*domain.Content, error) {
	settings, err := s.resolveSettings(s.defaults, req.Settings)
	if err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no deck fetcher configured", ErrTransport)
	}

	fetched, err := s.fetcher.Fetch(ctx, req.DeckFile.DownloadURL)
	if err != nil {
		log.Printf("deck fetch failed: url=%s err=%v", req.DeckFile.DownloadURL, err)
		if !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return nil, err
	}

	format := deck.DetectFormat(fetched.ContentType, req.DeckFile.DownloadURL)
	source := &domain.Source{
		FileID:   req.DeckFile.FileID,
		FileName: deck.FileNameFromURL(req.DeckFile.DownloadURL),
		MimeType: fetched.ContentType,
	}
	return s.create(ctx, req.Title, settings, fetched.Data, format, source)
}

// IngestUpload creates a project from deck bytes the caller already holds.
func (s *ProjectService) IngestUpload(ctx context.Context, req UploadRequest) (*domain.Content, error) {
	settings, err := s.resolveSettings(s.defaults, req.Settings)
	if err != nil {
		return nil, err
	}

	format := deck.DetectFormat(req.ContentType, req.FileName)
	source := &domain.Source{
		FileID:   s.repo.GenerateID(),
		FileName: req.FileName,
		MimeType: req.ContentType,
	}
	return s.create(ctx, req.Title, settings, req.Data, format, source)
}

func (s *ProjectService) create(ctx context.Context, title string, settings domain.Settings, data []byte, format deck.Format, source *domain.Source) (*domain.Content, error) {
	segments := deck.Parse(data, format)

	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultTitle
	}

	now := s.now().Unix()
	content := &domain.Content{
		Project: domain.Project{
			ID:        s.repo.GenerateID(),
			Title:     title,
			Source:    source,
			Settings:  settings,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Slides: make([]domain.Slide, 0, len(segments)),
	}

	for i, seg := range segments {
		titleGuess := seg.TitleGuess
		if titleGuess == "" {
			titleGuess = deck.DefaultTitle(i)
		}
		content.Slides = append(content.Slides, domain.Slide{
			ID:         s.repo.GenerateID(),
			Index:      i,
			TitleGuess: titleGuess,
			Raw:        domain.Raw{Text: seg.Text},
			Timing: domain.Timing{
				Seconds:    domain.DefaultSlideSeconds,
				MinSeconds: domain.DefaultSlideMinSeconds,
				MaxSeconds: domain.DefaultSlideMaxSeconds,
			},
			Script: domain.Script{KeyPoints: []string{}},
			Flags:  []domain.Flag{},
		})
	}
	timing.Recompute(content)

	if err := s.repo.Set(ctx, content); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	log.Printf("project %s ingested: format=%s slides=%d", content.Project.ID, format, len(content.Slides))
	return content, nil
}

// Synthesize drafts every slide's script and timing, then fits the total.
func (s *ProjectService) Synthesize(ctx context.Context, projectID string, patch *domain.SettingsPatch) (*domain.Content, error) {
	content, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	settings, err := s.resolveSettings(content.Project.Settings, patch)
	if err != nil {
		return nil, err
	}
	content.Project.Settings = settings

	for i := range content.Slides {
		s.synth.Synthesize(&content.Slides[i], len(content.Slides), settings)
	}
	res := timing.Rebalance(content, 0)

	if err := s.save(ctx, content); err != nil {
		return nil, err
	}

	log.Printf("project %s synthesized: slides=%d allocated=%ds target=%ds remaining=%ds",
		projectID, len(content.Slides), content.Project.Stats.AllocatedSeconds, res.TargetSeconds, res.RemainingSeconds)
	return content, nil
}

// PatchSlide merges the provided fields into one slide and recomputes flags
// and stats. Out-of-bounds seconds are kept and flagged, not clamped.
func (s *ProjectService) PatchSlide(ctx context.Context, projectID, slideID string, patch domain.SlidePatch) (*domain.Content, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	content, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	slide := content.SlideByID(slideID)
	if slide == nil {
		return nil, fmt.Errorf("slide %s in project %s: %w", slideID, projectID, ErrSlideNotFound)
	}

	patch.Apply(slide)
	timing.Recompute(content)

	if err := s.save(ctx, content); err != nil {
		return nil, err
	}

	log.Printf("project %s slide %d patched: seconds=%d locked=%t flags=%v",
		projectID, slide.Index, slide.Timing.Seconds, slide.Timing.Locked, slide.Flags)
	return content, nil
}

// Rebalance redistributes time across unlocked slides. A nil total keeps the
// project's current total.
func (s *ProjectService) Rebalance(ctx context.Context, projectID string, totalSeconds *int) (*domain.Content, error) {
	target := 0
	if totalSeconds != nil {
		if *totalSeconds <= 0 {
			return nil, fmt.Errorf("%w: totalSeconds must be positive", ErrInvalidInput)
		}
		target = *totalSeconds
	}

	content, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	res := timing.Rebalance(content, target)

	if err := s.save(ctx, content); err != nil {
		return nil, err
	}

	log.Printf("project %s rebalanced: target=%ds locked=%ds remaining=%ds applied=%t over=%ds",
		projectID, res.TargetSeconds, res.LockedSeconds, res.RemainingSeconds, res.Applied, content.Project.Stats.OverBySeconds)
	return content, nil
}

// Export renders the script in the requested format.
func (s *ProjectService) Export(ctx context.Context, projectID string, format ExportFormat) (string, error) {
	content, err := s.load(ctx, projectID)
	if err != nil {
		return "", err
	}
	return Render(content, format)
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Content, error) {
	return s.load(ctx, projectID)
}

func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.repo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
		}
		return fmt.Errorf("delete project: %w", err)
	}
	log.Printf("project %s deleted", projectID)
	return nil
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectService) load(ctx context.Context, projectID string) (*domain.Content, error) {
	content, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	return content, nil
}

func (s *ProjectService) save(ctx context.Context, content *domain.Content) error {
	content.Project.UpdatedAt = s.now().Unix()
	if err := s.repo.Set(ctx, content); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *ProjectService) resolveSettings(base domain.Settings, patch *domain.SettingsPatch) (domain.Settings, error) {
	settings, err := patch.Merge(base).Normalize()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return settings, nil
}

func validatePatch(patch domain.SlidePatch) error {
	t := patch.Timing
	if t == nil {
		return nil
	}
	for name, v := range map[string]*int{"seconds": t.Seconds, "minSeconds": t.MinSeconds, "maxSeconds": t.MaxSeconds} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: timing.%s must not be negative", ErrInvalidInput, name)
		}
	}
	if t.MinSeconds != nil && t.MaxSeconds != nil && *t.MinSeconds > *t.MaxSeconds {
		return fmt.Errorf("%w: timing.minSeconds exceeds maxSeconds", ErrInvalidInput)
	}
	return nil
}
