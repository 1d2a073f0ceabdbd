package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/satr/internal/filter"
	"github.com/rezonia/satr/internal/model"
	xmlparser "github.com/rezonia/satr/internal/parser/xml"
	"github.com/rezonia/satr/internal/processor"
	"github.com/rezonia/satr/internal/report"
)

// Config holds server configuration
type Config struct {
	Address      string
	Root         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	Logger       zerolog.Logger
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	parser   *xmlparser.Parser
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(config.Logger))

	s := &Server{
		config:   config,
		router:   router,
		pipeline: processor.NewPipeline(processor.WithLogger(config.Logger)),
		parser:   xmlparser.NewParser(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Directory queries, one pass over Root per request
		v1.GET("/invoices", s.handleInvoices)
		v1.GET("/report/:field", s.handleReport)

		// Single document endpoints
		v1.POST("/parse", s.handleParse)
		v1.POST("/info", s.handleInfo)
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
		"root":   s.config.Root,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// queryParams are the filter parameters shared by directory endpoints
type queryParams struct {
	Subject string `form:"subject" binding:"required"`
	RFC     string `form:"rfc" binding:"required"`
	Start   string `form:"start"`
	End     string `form:"end"`
}

func (s *Server) handleInvoices(c *gin.Context) {
	criteria, ok := s.bindCriteria(c)
	if !ok {
		return
	}

	invoices, err := s.pipeline.Extract(s.config.Root, criteria)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	if invoices == nil {
		invoices = []*model.Invoice{}
	}

	c.JSON(http.StatusOK, InvoicesResponse{
		Count:    len(invoices),
		Invoices: invoices,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	field, err := report.ParseField(c.Param("field"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	criteria, ok := s.bindCriteria(c)
	if !ok {
		return
	}

	invoices, err := s.pipeline.Extract(s.config.Root, criteria)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, ReportResponse{
		Field: field.String(),
		Value: report.SumSlice(invoices, field).String(),
		Count: len(invoices),
	})
}

func (s *Server) handleParse(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	invoice, err := s.parser.ParseBytes(body)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusOK, ParseResponse{Invoice: invoice})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	summary, err := xmlparser.Inspect(body)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusOK, InfoResponse{Summary: summary, Size: len(body)})
}

// Helper functions

func (s *Server) bindCriteria(c *gin.Context) (filter.Criteria, bool) {
	var params queryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		s.fail(c, http.StatusBadRequest, model.NewValidationError("query", c.Request.URL.RawQuery, "required", "subject and rfc are required"))
		return filter.Criteria{}, false
	}

	subject, err := filter.ParseSubject(params.Subject)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return filter.Criteria{}, false
	}

	var start, end *time.Time
	if params.Start != "" {
		t, err := filter.ParseDate(params.Start, false)
		if err != nil {
			s.fail(c, http.StatusBadRequest, err)
			return filter.Criteria{}, false
		}
		start = &t
	}
	if params.End != "" {
		t, err := filter.ParseDate(params.End, true)
		if err != nil {
			s.fail(c, http.StatusBadRequest, err)
			return filter.Criteria{}, false
		}
		end = &t
	}

	return filter.Criteria{
		Subject: subject,
		RFC:     params.RFC,
		Dates:   filter.NewDateRange(start, end, time.Now()),
	}, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", RequestID: GetRequestID(c)})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body", RequestID: GetRequestID(c)})
		return nil, false
	}
	return body, true
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	resp := ErrorResponse{Error: err.Error(), RequestID: GetRequestID(c)}

	var valErr *model.ValidationError
	var parseErr *model.ParseError
	switch {
	case errors.As(err, &valErr):
		resp.Field = valErr.Field
	case errors.As(err, &parseErr):
		resp.Field = parseErr.Field
	}

	if status >= http.StatusInternalServerError {
		s.config.Logger.Error().Err(err).Str("request_id", resp.RequestID).Msg("request failed")
	}
	c.JSON(status, resp)
}
