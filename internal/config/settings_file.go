package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/script"
)

// SettingsFile is the optional TOML or YAML file holding project defaults and
// the text-scanning patterns.
type SettingsFile struct {
	Defaults FileDefaults `toml:"defaults" yaml:"defaults"`
	Patterns FilePatterns `toml:"patterns" yaml:"patterns"`
}

type FileDefaults struct {
	TotalSeconds    *int       `toml:"total_seconds" yaml:"total_seconds"`
	QABufferSeconds *int       `toml:"qa_buffer_seconds" yaml:"qa_buffer_seconds"`
	Audience        string     `toml:"audience" yaml:"audience"`
	Tone            string     `toml:"tone" yaml:"tone"`
	Language        string     `toml:"language" yaml:"language"`
	Style           *FileStyle `toml:"style" yaml:"style"`
}

type FileStyle struct {
	Brevity int `toml:"brevity" yaml:"brevity"`
	Energy  int `toml:"energy" yaml:"energy"`
	Pace    int `toml:"pace" yaml:"pace"`
}

type FilePatterns script.PatternSpec

func LoadSettingsFile(path string) (SettingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SettingsFile{}, fmt.Errorf("read settings file: %w", err)
	}

	var file SettingsFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return SettingsFile{}, fmt.Errorf("parse settings file: %w", err)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil {
			return SettingsFile{}, fmt.Errorf("parse settings file: %w", err)
		}
	default:
		return SettingsFile{}, fmt.Errorf("settings file: unsupported extension %q", ext)
	}
	return file, nil
}

func (d FileDefaults) Merge(base domain.Settings) domain.Settings {
	if d.TotalSeconds != nil {
		base.TotalSeconds = *d.TotalSeconds
	}
	if d.QABufferSeconds != nil {
		base.QABufferSeconds = *d.QABufferSeconds
	}
	if d.Audience != "" {
		base.Audience = domain.Audience(d.Audience)
	}
	if d.Tone != "" {
		base.Tone = domain.Tone(d.Tone)
	}
	if d.Language != "" {
		base.Language = domain.Language(d.Language)
	}
	if d.Style != nil {
		base.Style = domain.Style{Brevity: d.Style.Brevity, Energy: d.Style.Energy, Pace: d.Style.Pace}
	}
	return base
}

func (p FilePatterns) overlay(base script.PatternSpec) script.PatternSpec {
	if p.Bullet != "" {
		base.Bullet = p.Bullet
	}
	if p.Numbered != "" {
		base.Numbered = p.Numbered
	}
	if p.SentenceTerminators != "" {
		base.SentenceTerminators = p.SentenceTerminators
	}
	if p.GoalTerminators != "" {
		base.GoalTerminators = p.GoalTerminators
	}
	return base
}
