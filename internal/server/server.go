// Package server exposes the invoice ingestion and classification pipeline
// over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cifrato/invoice-backend/internal/ai"
	"github.com/cifrato/invoice-backend/internal/auth"
	"github.com/cifrato/invoice-backend/internal/excel"
	"github.com/cifrato/invoice-backend/internal/logger"
	"github.com/cifrato/invoice-backend/internal/parser/ubl"
	"github.com/cifrato/invoice-backend/internal/storage/memory"
	"github.com/cifrato/invoice-backend/internal/usecase"
)

// Config holds server configuration
type Config struct {
	Address        string
	AIAPIKey       string
	AIBaseURL      string
	AIModel        string
	JWTSecret      string
	AccessTokenTTL time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Debug          bool
}

// Server wires repositories, services and use cases behind the REST API.
type Server struct {
	config *Config
	router *gin.Engine
	log    zerolog.Logger

	tokens *auth.JWTService

	register     *usecase.RegisterUser
	authenticate *usecase.AuthenticateUser

	uploadInvoice *usecase.UploadInvoice
	listInvoices  *usecase.ListInvoices
	invoiceDetail *usecase.GetInvoiceDetail
	generate      *usecase.GenerateAccountingSuggestions
	selectSugg    *usecase.SelectSuggestion
	export        *usecase.ExportInvoices

	uploadPUC *usecase.UploadPUC
	listPUC   *usecase.ListPUC
	pucStats  *usecase.GetPUCStats
}

// NewServer creates the API server with in-memory persistence. Without an AI
// API key the classifier runs in fallback-only mode.
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	log := logger.WithComponent("server")

	invoices := memory.NewInvoiceRepository()
	suggestions := memory.NewSuggestionRepository()
	puc := memory.NewPUCRepository()
	users := memory.NewUserRepository()

	var suggester *ai.Suggester
	if config.AIAPIKey != "" {
		var clientOpts []ai.ClientOption
		if config.AIBaseURL != "" {
			clientOpts = append(clientOpts, ai.WithBaseURL(config.AIBaseURL))
		}
		client := ai.NewClient(config.AIAPIKey, clientOpts...)
		suggester = ai.NewSuggester(client, config.AIModel, logger.WithComponent("ai"))
	} else {
		suggester = ai.NewSuggester(nil, config.AIModel, logger.WithComponent("ai"))
	}

	hasher := auth.NewBcryptHasher()
	tokens := auth.NewJWTService(config.JWTSecret, config.AccessTokenTTL)
	parser := ubl.NewParser()
	builder := excel.NewWorkbookBuilder()
	pucParser := excel.NewPUCWorkbookParser()

	s := &Server{
		config: config,
		router: router,
		log:    log,
		tokens: tokens,

		register:     usecase.NewRegisterUser(users, hasher),
		authenticate: usecase.NewAuthenticateUser(users, hasher, tokens),

		uploadInvoice: usecase.NewUploadInvoice(invoices, parser),
		listInvoices:  usecase.NewListInvoices(invoices, suggestions),
		invoiceDetail: usecase.NewGetInvoiceDetail(invoices, suggestions),
		generate:      usecase.NewGenerateAccountingSuggestions(invoices, suggestions, puc, suggester, logger.WithComponent("suggestions")),
		selectSugg:    usecase.NewSelectSuggestion(invoices, suggestions),
		export:        usecase.NewExportInvoices(invoices, suggestions, builder),

		uploadPUC: usecase.NewUploadPUC(puc, pucParser, logger.WithComponent("puc")),
		listPUC:   usecase.NewListPUC(puc),
		pucStats:  usecase.NewGetPUCStats(puc),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
		}

		protected := v1.Group("")
		protected.Use(s.authRequired())
		{
			protected.POST("/invoices/upload", s.handleUploadInvoice)
			protected.GET("/invoices", s.handleListInvoices)
			protected.GET("/invoices/export", s.handleExportInvoices)
			protected.GET("/invoices/:id", s.handleInvoiceDetail)
			protected.POST("/invoices/:id/suggestions", s.handleGenerateSuggestions)
			protected.POST("/invoices/:id/suggestions/select", s.handleSelectSuggestion)

			protected.POST("/puc/upload", s.handleUploadPUC)
			protected.GET("/puc", s.handleListPUC)
			protected.GET("/puc/stats", s.handlePUCStats)
		}
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
