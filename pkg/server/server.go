// Package server exposes the metadata operations over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /v1/profiles/{version}
//	POST /v1/validate?schema=&strict=
//	POST /v1/enhance?schema=&complete=
//	POST /v1/generate            {"repository": url, "schema": "3.0"}
//
// Document responses carry the document and its validation messages.
// Failures are reported as {"code", "message"} with a status derived from
// the error code.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/codemeta/pkg/buildinfo"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/integrations"
)

// MaxBodySize limits request bodies.
const MaxBodySize = 4 << 20

// Options configures a Server.
type Options struct {
	// Source answers /v1/generate. Without one the route responds 501.
	Source codemeta.RepositorySource
	// Schema is used when a request names no version.
	Schema codemeta.Version
	Logger *log.Logger
}

// Server is an http.Handler serving the metadata API.
type Server struct {
	router chi.Router
	source codemeta.RepositorySource
	schema codemeta.Version
	logger *log.Logger
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		source: opts.Source,
		schema: opts.Schema,
		logger: opts.Logger,
	}
	if !s.schema.Valid() {
		s.schema = codemeta.DefaultVersion
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/profiles/{version}", s.profile)
		r.Post("/validate", s.validate)
		r.Post("/enhance", s.enhance)
		r.Post("/generate", s.generate)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// DocumentResponse is returned by the document routes.
type DocumentResponse struct {
	Version  codemeta.Version  `json:"version"`
	Document codemeta.Document `json:"document,omitempty"`
	Warnings []string          `json:"warnings"`
	Errors   []string          `json:"errors,omitempty"`
}

// GenerateRequest is the body of /v1/generate.
type GenerateRequest struct {
	Repository string `json:"repository"`
	Schema     string `json:"schema,omitempty"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type profileResponse struct {
	Version     codemeta.Version `json:"version"`
	Context     string           `json:"context"`
	Required    []string         `json:"required"`
	Recommended []string         `json:"recommended"`
	Fields      []profileField   `json:"fields"`
}

type profileField struct {
	Name  string `json:"name"`
	Shape string `json:"shape"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	v, err := codemeta.ParseVersion(chi.URLParam(r, "version"))
	if err != nil {
		writeError(w, err)
		return
	}
	p := codemeta.ProfileFor(v)
	resp := profileResponse{
		Version:     v,
		Context:     v.Context(),
		Required:    p.Required(),
		Recommended: p.Recommended(),
	}
	for _, f := range p.Fields() {
		resp.Fields = append(resp.Fields, profileField{Name: f.Name, Shape: f.Shape.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	raw, err := codemeta.DecodeAny(body)
	if err != nil {
		writeError(w, err)
		return
	}

	var v codemeta.Version
	if q := r.URL.Query().Get("schema"); q != "" {
		if v, err = codemeta.ParseVersion(q); err != nil {
			writeError(w, err)
			return
		}
	} else if obj, ok := raw.(map[string]any); ok {
		v = codemeta.DetectVersion(obj)
	} else {
		v = s.schema
	}

	var opts []codemeta.ValidateOption
	if strict, _ := strconv.ParseBool(r.URL.Query().Get("strict")); strict {
		opts = append(opts, codemeta.WithStrict())
	}
	report := codemeta.Validate(raw, codemeta.ProfileFor(v), opts...)
	writeJSON(w, http.StatusOK, DocumentResponse{
		Version:  v,
		Warnings: nonNil(report.Warnings()),
		Errors:   report.Errors(),
	})
}

func (s *Server) enhance(w http.ResponseWriter, r *http.Request) {
	v, err := s.version(r.URL.Query().Get("schema"))
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts := []codemeta.EnhanceOption{}
	if complete, err := strconv.ParseBool(r.URL.Query().Get("complete")); err != nil || complete {
		opts = append(opts, codemeta.WithCompletion())
	}
	doc, report, err := codemeta.EnhanceBytes(body, v, opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{
		Version:  v,
		Document: doc,
		Warnings: nonNil(report.Messages()),
	})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no repository source configured"))
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if _, _, _, err := errors.ValidateRepositoryURL(req.Repository); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.version(req.Schema)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := codemeta.Generate(r.Context(), s.source, req.Repository, v)
	if err != nil {
		s.logger.Warn("generate failed", "repository", req.Repository, "error", err)
		writeError(w, err)
		return
	}
	report := codemeta.Validate(doc, codemeta.ProfileFor(v))
	writeJSON(w, http.StatusOK, DocumentResponse{
		Version:  v,
		Document: doc,
		Warnings: nonNil(report.Messages()),
	})
}

func (s *Server) version(q string) (codemeta.Version, error) {
	if q == "" {
		return s.schema, nil
	}
	return codemeta.ParseVersion(q)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return body, nil
}

// ErrorCode returns the code reported for err. A missing repository or an
// exhausted rate limit anywhere in the cause chain takes precedence over the
// outer code, since fetch failures are wrapped as SOURCE_UNAVAILABLE.
func ErrorCode(err error) errors.Code {
	var rl *errors.RateLimitedError
	switch {
	case stderrors.Is(err, integrations.ErrNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return errors.ErrCodeNotFound
	case stderrors.As(err, &rl), errors.Is(err, errors.ErrCodeRateLimited):
		return errors.ErrCodeRateLimited
	}
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

// StatusFor maps an error to an HTTP status by its ErrorCode.
func StatusFor(err error) int {
	switch ErrorCode(err) {
	case errors.ErrCodeMalformedDocument, errors.ErrCodeUnsupportedVersion,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidURL:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSourceUnavailable, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := ErrorCode(err)
	writeJSON(w, StatusFor(err), ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()))
		})
	}
}
