package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrTooLarge = errors.New("deck file exceeds maximum size")

type FileManager struct {
	baseDir        string
	deckDir        string
	pdfDir         string
	maxUploadBytes int64
}

var deckExtensionFallback = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"application/vnd.ms-powerpoint": ".ppt",
	"application/zip":               ".pptx",
	"text/plain; charset=utf-8":     ".txt",
}

// SavedDeck describes an uploaded deck kept on disk.
type SavedDeck struct {
	Path        string
	ContentType string
	Data        []byte
}

func NewFileManager(baseDir string, maxUploadBytes int64) (*FileManager, error) {
	fm := &FileManager{
		baseDir:        baseDir,
		deckDir:        filepath.Join(baseDir, "decks"),
		pdfDir:         filepath.Join(baseDir, "pdf"),
		maxUploadBytes: maxUploadBytes,
	}

	dirs := []string{fm.baseDir, fm.deckDir, fm.pdfDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	return fm, nil
}

func (fm *FileManager) MaxUploadBytes() int64 {
	return fm.maxUploadBytes
}

// SaveUploadedDeck stores the upload under a fresh id and returns its bytes.
// The content type is sniffed from the first bytes.
func (fm *FileManager) SaveUploadedDeck(file io.Reader, filename string) (SavedDeck, error) {
	data, err := ReadLimited(file, fm.maxUploadBytes)
	if err != nil {
		return SavedDeck{}, err
	}

	contentType := strings.ToLower(http.DetectContentType(data))
	ext := normalizeExtension(filename)
	if ext == "" {
		ext = deckExtensionFallback[contentType]
	}
	if ext == "" {
		ext = ".bin"
	}

	path := filepath.Join(fm.deckDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return SavedDeck{}, fmt.Errorf("write deck file: %w", err)
	}

	return SavedDeck{Path: path, ContentType: contentType, Data: data}, nil
}

func (fm *FileManager) PDFPath(id string) string {
	return filepath.Join(fm.pdfDir, fmt.Sprintf("%s.pdf", id))
}

// ReadLimited reads r fully, failing with ErrTooLarge past limit bytes. A
// non-positive limit disables the check.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read deck content: %w", err)
		}
		return data, nil
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read deck content: %w", err)
	}
	if n > limit {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), nil
}

func normalizeExtension(filename string) string {
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(filename)))
	if ext == "" {
		return ext
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
