package http

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/r1cA18/make-slide-script/internal/config"
	"github.com/r1cA18/make-slide-script/internal/script"
	"github.com/r1cA18/make-slide-script/internal/services"
	"github.com/r1cA18/make-slide-script/internal/storage"
)

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	repo   storage.Repository
}

func NewServer(cfg config.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	fm, err := storage.NewFileManager(cfg.DataDir, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("init file manager: %w", err)
	}

	repo, err := storage.Open(cfg.StoreBackend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	patterns, err := cfg.CompilePatterns()
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("compile patterns: %w", err)
	}

	projects := services.NewProjectService(repo, services.NewHTTPFetcher(cfg), script.NewSynthesizer(patterns), cfg.Defaults)
	pdfSvc := services.NewPDFService(cfg.PDFFontPath)
	shareSvc := services.NewShareService(cfg)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(MaxBodySize(cfg.MaxUploadBytes))
	engine.Use(CORS(cfg.BaseURL))

	api := NewAPI(cfg, fm, projects, pdfSvc, shareSvc)
	registerRoutes(engine, api)

	log.Printf("store backend=%s data=%s", cfg.StoreBackend, cfg.DataDir)
	return &Server{engine: engine, cfg: cfg, repo: repo}, nil
}

func (s *Server) Run() error {
	defer s.repo.Close()

	addr := fmt.Sprintf(":%s", s.cfg.Port)
	return s.engine.Run(addr)
}
