package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"log/slog"

	"subhook/internal/config"
	"subhook/internal/extractor"
	"subhook/internal/logging"
)

const notFoundBody = "Not Found. Please use the /extract endpoint."

// ScriptRunner abstracts the extraction script invocation for the handlers.
type ScriptRunner interface {
	Run(ctx context.Context, targetPath string) (extractor.Result, error)
}

// Server hosts the /extract HTTP surface.
type Server struct {
	bind   string
	logger *slog.Logger
	runner ScriptRunner

	listener net.Listener
	server   *http.Server
}

// NewServer constructs the HTTP server for the given configuration and runner.
func NewServer(cfg *config.Config, runner ScriptRunner, logger *slog.Logger) (*Server, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("server requires config and runner")
	}

	srv := &Server{
		bind:   cfg.Server.Bind,
		logger: logging.NewComponentLogger(logger, "api-server"),
		runner: runner,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/extract", authMiddleware(cfg.Server.AuthToken, srv.handleExtract))
	mux.HandleFunc("/", srv.handleNotFound)

	// No write timeout: the extraction script has no deadline and the
	// response cannot be written until it exits.
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start begins serving and arranges shutdown when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listener address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("unknown route",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path),
		logging.String("remote", r.RemoteAddr))
	s.writeText(w, http.StatusNotFound, notFoundBody)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleExtractGet(w, r)
	case http.MethodPost:
		s.handleExtractPost(w, r)
	default:
		s.writeText(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET or POST on /extract.")
	}
}

func (s *Server) handleExtractGet(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("extract request",
		logging.String("method", r.Method),
		logging.String("remote", r.RemoteAddr),
		logging.String("query", r.URL.RawQuery))

	s.process(w, r, r.URL.Query().Get("path"))
}

func (s *Server) handleExtractPost(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeText(w, http.StatusInternalServerError, fmt.Sprintf("An unexpected server error occurred: %v", err))
		return
	}

	s.logger.Info("extract request",
		logging.String("method", r.Method),
		logging.String("remote", r.RemoteAddr),
		logging.String("body", string(body)))

	var payload struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.writeText(w, http.StatusBadRequest, "Error: Invalid JSON in request body.")
		return
	}

	s.process(w, r, payload.Path)
}

// readBody reads exactly Content-Length bytes when the header is present and
// drains the body otherwise (chunked encoding).
func readBody(r *http.Request) ([]byte, error) {
	if r.ContentLength >= 0 {
		return io.ReadAll(io.LimitReader(r.Body, r.ContentLength))
	}
	return io.ReadAll(r.Body)
}

// process applies the shared validation and invocation path for both methods.
func (s *Server) process(w http.ResponseWriter, r *http.Request, targetPath string) {
	if targetPath == "" {
		s.writeText(w, http.StatusBadRequest, "Error: 'path' parameter is required in the URL query or JSON body.")
		return
	}

	if _, err := os.Stat(targetPath); err != nil {
		s.writeText(w, http.StatusBadRequest, fmt.Sprintf("Error: The specified path does not exist: '%s'", targetPath))
		return
	}

	// The invocation must survive a client disconnect, so the request
	// context's cancellation is stripped before running the script.
	result, err := s.runner.Run(context.WithoutCancel(r.Context()), targetPath)
	if err != nil {
		s.writeText(w, http.StatusInternalServerError, fmt.Sprintf("An unexpected server error occurred: %v", err))
		return
	}

	if result.ExitCode == 0 {
		s.writeText(w, http.StatusOK,
			fmt.Sprintf("Successfully processed '%s'.\n\n--- SCRIPT OUTPUT ---\n%s", targetPath, result.Stdout))
		return
	}

	s.writeText(w, http.StatusInternalServerError,
		fmt.Sprintf("Script failed to process '%s'.\n\n--- SCRIPT ERROR ---\n%s\n\n--- SCRIPT OUTPUT ---\n%s",
			targetPath, result.Stderr, result.Stdout))
}

func (s *Server) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		s.logger.Error("failed to write response", logging.Error(err))
	}
}
