package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportgen"
	"github.com/alnah/go-reportgen/internal/assets"
	"github.com/alnah/go-reportgen/internal/config"
	"github.com/alnah/go-reportgen/internal/hints"
	"github.com/alnah/go-reportgen/internal/metrics"
)

// Server limits.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
	maxFormBody       = "64K"
)

// server answers the web form and report downloads.
type server struct {
	pool          *reportgen.ConverterPool
	metrics       *metrics.Metrics
	form          *template.Template
	defaultFormat reportgen.Format
	timeout       time.Duration // per request, 0 = converter timeout only
	logger        *slog.Logger
}

// formData is the form template input.
type formData struct {
	Formats       []reportgen.Format
	DefaultFormat reportgen.Format
	Error         string
}

// runServe starts the HTTP server and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	defaultFormat, err := reportgen.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, cfg)
	if err != nil {
		return err
	}

	logger := newServerLogger(env.Stderr, flags.common)
	gen, err := newGenerator(ctx, cfg.Generation)
	if err != nil {
		attrs := []any{slog.Any("error", err)}
		if errors.Is(err, reportgen.ErrMissingAPIKey) {
			attrs = append(attrs, slog.String("hint", strings.TrimPrefix(hints.ForMissingAPIKey(cfg.Generation.APIKeyEnv), "\n  hint: ")))
		}
		logger.Warn("text generation disabled", attrs...)
	}

	opts, err := converterOptions(cfg, timeout, gen, logger)
	if err != nil {
		return err
	}
	pool, err := reportgen.NewConverterPool(reportgen.ResolvePoolSize(cfg.Server.Workers), append(opts, env.Options...)...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Warn("closing converter pool", slog.Any("error", cerr))
		}
	}()

	form, err := loadFormTemplate(cfg.Assets)
	if err != nil {
		return err
	}

	s := &server{
		pool:          pool,
		metrics:       metrics.New(),
		form:          form,
		defaultFormat: defaultFormat,
		timeout:       timeout,
		logger:        logger,
	}
	logger.Info("server listening",
		slog.String("addr", cfg.Server.Address),
		slog.Int("workers", pool.Size()),
		slog.String("default_format", string(defaultFormat)),
		slog.Bool("generator", gen != nil))
	return listenAndServe(ctx, s.routes(), cfg.Server.Address)
}

// mergeServeFlags applies explicitly set flags over config values.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Address = f.addr
	}
	if f.workers != 0 {
		cfg.Server.Workers = f.workers
	}
	mergeAssetFlags(f.assets, cfg)
}

// newServerLogger builds the JSON logger: Info by default,
// Debug with --verbose, Error with --quiet.
func newServerLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadFormTemplate parses the form template of the configured template set.
func loadFormTemplate(a config.AssetsConfig) (*template.Template, error) {
	resolver, err := assets.NewAssetResolver(a.BasePath)
	if err != nil {
		return nil, err
	}
	defer resolver.Close()

	name := a.TemplateSet
	if name == "" {
		name = assets.DefaultTemplateSetName
	}
	ts, err := resolver.LoadTemplateSet(name)
	if err != nil {
		return nil, fmt.Errorf("loading template set: %w", err)
	}
	form, err := template.New("form").Parse(ts.Form)
	if err != nil {
		return nil, fmt.Errorf("%w: form: %v", assets.ErrIncompleteTemplateSet, err)
	}
	return form, nil
}

// listenAndServe runs e until ctx is canceled, then shuts down gracefully.
func listenAndServe(ctx context.Context, e *echo.Echo, addr string) error {
	e.Server.ReadHeaderTimeout = readHeaderTimeout

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

// routes registers handlers and middleware.
func (s *server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.LogAttrs(c.Request().Context(), slog.LevelDebug, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxFormBody))

	e.GET("/", s.handleForm)
	e.POST("/generate", s.handleGenerate)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	return e
}

func (s *server) handleForm(c echo.Context) error {
	return s.renderForm(c, http.StatusOK, "")
}

func (s *server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"workers": s.pool.Size(),
	})
}

// handleGenerate produces a report for the posted title and returns it as
// an attachment.
func (s *server) handleGenerate(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return s.renderForm(c, http.StatusBadRequest, "Please enter a topic.")
	}
	format := s.defaultFormat
	if v := c.FormValue("format"); v != "" {
		f, err := reportgen.ParseFormat(v)
		if err != nil {
			return s.renderForm(c, http.StatusBadRequest, err.Error())
		}
		format = f
	}

	reqID := uuid.NewString()
	c.Response().Header().Set(echo.HeaderXRequestID, reqID)

	done := s.metrics.Track()
	defer done()

	ctx := c.Request().Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	conv, err := s.pool.Acquire(ctx)
	if err != nil {
		s.observe(format, nil, time.Since(start), err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "server busy, try again later").SetInternal(err)
	}
	result, err := conv.Generate(ctx, reportgen.Input{Title: title, Format: format, RequestID: reqID})
	s.pool.Release(conv)
	s.observe(format, result, time.Since(start), err)
	if err != nil {
		return generateHTTPError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}

// generateHTTPError maps a Generate error to a status code.
func generateHTTPError(err error) error {
	switch {
	case errors.Is(err, reportgen.ErrEmptyTitle), errors.Is(err, reportgen.ErrTitleTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "report generation timed out").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "report generation failed").SetInternal(err)
	}
}

func (s *server) observe(format reportgen.Format, r *reportgen.Result, elapsed time.Duration, err error) {
	rep := metrics.Report{Format: string(format), Elapsed: elapsed, Err: err}
	if r != nil {
		rep.ImagesFetched = r.Stats.ImagesFetched
		rep.ImagesPlaced = r.Stats.ImagesPlaced
		rep.ImageFailures = r.Stats.ImageFailures
		rep.SearchFailed = r.Stats.SearchFailed
		rep.Fallback = r.Stats.Fallback
	}
	s.metrics.Observe(rep)
}

func (s *server) renderForm(c echo.Context, status int, errMsg string) error {
	var buf bytes.Buffer
	data := formData{
		Formats:       reportgen.Formats(),
		DefaultFormat: s.defaultFormat,
		Error:         errMsg,
	}
	if err := s.form.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// handleError writes plain text errors and logs server-side failures.
func (s *server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", c.Request().URL.Path),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.Int("status", code),
			slog.Any("error", err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.String(code, msg)
}
