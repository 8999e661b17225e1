package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r1cA18/make-slide-script/internal/config"
	"github.com/r1cA18/make-slide-script/internal/domain"
	"github.com/r1cA18/make-slide-script/internal/services"
	"github.com/r1cA18/make-slide-script/internal/storage"
)

type API struct {
	cfg      config.Config
	files    *storage.FileManager
	projects *services.ProjectService
	pdf      *services.PDFService
	share    *services.ShareService
}

func NewAPI(cfg config.Config, fm *storage.FileManager, projects *services.ProjectService, pdf *services.PDFService, share *services.ShareService) *API {
	return &API{cfg: cfg, files: fm, projects: projects, pdf: pdf, share: share}
}

func registerRoutes(r *gin.Engine, api *API) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.GET("/projects", api.handleListProjects)
		apiGroup.POST("/projects", api.handleIngest)
		apiGroup.POST("/projects/upload", api.handleUpload)

		apiGroup.GET("/projects/:id", api.handleGetProject)
		apiGroup.DELETE("/projects/:id", api.handleDeleteProject)
		apiGroup.POST("/projects/:id/synthesize", api.handleSynthesize)
		apiGroup.PATCH("/projects/:id/slides/:slideId", api.handlePatchSlide)
		apiGroup.POST("/projects/:id/rebalance", api.handleRebalance)
		apiGroup.GET("/projects/:id/export", api.handleExport)
		apiGroup.POST("/projects/:id/pdf", api.handleGeneratePDF)
		apiGroup.POST("/projects/:id/share", api.handleShareProject)
	}

	r.GET("/pdf/:id", api.handleServePDF)
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleListProjects(c *gin.Context) {
	projects, err := a.projects.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (a *API) handleIngest(c *gin.Context) {
	var payload services.IngestRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(payload.DeckFile.DownloadURL) == "" {
		respondMessage(c, http.StatusBadRequest, "deckFile.downloadUrl is required")
		return
	}

	content, err := a.projects.Ingest(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, content)
}

func (a *API) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "missing deck file")
		return
	}
	log.Printf("Received upload: filename=%s size=%d", fileHeader.Filename, fileHeader.Size)

	var settings *domain.SettingsPatch
	if raw := strings.TrimSpace(c.PostForm("settings")); raw != "" {
		settings = &domain.SettingsPatch{}
		if err := json.Unmarshal([]byte(raw), settings); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid settings")
			return
		}
	}

	upload, err := fileHeader.Open()
	if err != nil {
		log.Printf("error opening upload: %v", err)
		respondMessage(c, http.StatusInternalServerError, "unable to read uploaded file")
		return
	}
	defer upload.Close()

	saved, err := a.files.SaveUploadedDeck(upload, fileHeader.Filename)
	if err != nil {
		log.Printf("error saving uploaded deck: %v", err)
		respondServiceError(c, err)
		return
	}
	log.Printf("Deck saved to %s", saved.Path)

	content, err := a.projects.IngestUpload(c.Request.Context(), services.UploadRequest{
		Title:       c.PostForm("title"),
		Settings:    settings,
		FileName:    fileHeader.Filename,
		ContentType: saved.ContentType,
		Data:        saved.Data,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, content)
}

func (a *API) handleGetProject(c *gin.Context) {
	content, err := a.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (a *API) handleDeleteProject(c *gin.Context) {
	projectID := c.Param("id")
	if err := a.projects.Delete(c.Request.Context(), projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = os.Remove(a.files.PDFPath(projectID))
	c.Status(http.StatusNoContent)
}

func (a *API) handleSynthesize(c *gin.Context) {
	var payload struct {
		Settings *domain.SettingsPatch `json:"settings"`
	}
	if err := bindOptionalJSON(c, &payload); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}

	content, err := a.projects.Synthesize(c.Request.Context(), c.Param("id"), payload.Settings)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (a *API) handlePatchSlide(c *gin.Context) {
	var patch domain.SlidePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}

	content, err := a.projects.PatchSlide(c.Request.Context(), c.Param("id"), c.Param("slideId"), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (a *API) handleRebalance(c *gin.Context) {
	var payload struct {
		TotalSeconds *int `json:"totalSeconds"`
	}
	if err := bindOptionalJSON(c, &payload); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}

	content, err := a.projects.Rebalance(c.Request.Context(), c.Param("id"), payload.TotalSeconds)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (a *API) handleExport(c *gin.Context) {
	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	text, err := a.projects.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	contentType := "text/markdown; charset=utf-8"
	if format == services.ExportText {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, []byte(text))
}

func (a *API) handleGeneratePDF(c *gin.Context) {
	projectID := c.Param("id")
	content, err := a.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdfPath := a.files.PDFPath(projectID)
	if err := a.pdf.GeneratePDF(content, pdfPath); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pdfPath": pdfPath})
}

func (a *API) handleShareProject(c *gin.Context) {
	projectID := c.Param("id")
	if _, err := a.projects.Get(c.Request.Context(), projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	if _, err := os.Stat(a.files.PDFPath(projectID)); err != nil {
		respondMessage(c, http.StatusBadRequest, "no pdf available for this project")
		return
	}

	url, expiresAt := a.share.Generate(projectID)
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresAt": expiresAt.UTC()})
}

func (a *API) handleServePDF(c *gin.Context) {
	projectID := c.Param("id")
	expiresParam := c.Query("exp")
	signature := c.Query("sig")

	if expiresParam == "" || signature == "" {
		respondMessage(c, http.StatusBadRequest, "missing signature")
		return
	}

	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid expiration")
		return
	}

	if expires < time.Now().Unix() {
		respondMessage(c, http.StatusGone, "link expired")
		return
	}

	if !a.share.Validate(c.Request.URL.Path, expires, signature) {
		respondMessage(c, http.StatusForbidden, "invalid signature")
		return
	}

	content, err := a.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdfPath := a.files.PDFPath(projectID)
	if _, err := os.Stat(pdfPath); err != nil {
		respondMessage(c, http.StatusNotFound, "pdf not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(pdfPath, attachmentName(content.Project.Title))
}

func attachmentName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "script"
	}
	return name + ".pdf"
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondMessage(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		respondMessage(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrTransport):
		respondMessage(c, http.StatusBadGateway, err.Error())
	default:
		log.Printf("request failed: %s %s: %v", c.Request.Method, c.FullPath(), err)
		respondMessage(c, http.StatusInternalServerError, "internal error")
	}
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// bindOptionalJSON decodes the request body into obj. A missing or empty body,
// chunked or not, leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
