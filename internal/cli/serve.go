package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netgrid/pkg/buildinfo"
	"github.com/matzehuels/netgrid/pkg/cache"
	"github.com/matzehuels/netgrid/pkg/config"
	nerrors "github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/observability"
	"github.com/matzehuels/netgrid/pkg/pipeline"
)

// apiKeyPrefix scopes server cache entries away from CLI entries.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command for the HTTP compile server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP compile server",
		Long: `Run the HTTP compile server.

Endpoints:
  GET  /healthz       liveness and build information
  POST /v1/compile    compile a netlist; body: {"netlist": {...}, "formats": ["txt"]}

The cache backend comes from the [cache] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	store, err := openCache(ctx, cfg.Cache, false)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyPrefix), c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServer(runner, cfg, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("compile server listening", "addr", cfg.Server.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Handlers
// =============================================================================

type server struct {
	runner *pipeline.Runner
	cfg    config.Config
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *server {
	return &server{runner: runner, cfg: cfg, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/compile", s.handleCompile)
	return r
}

// observe reports every request to the server hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// compileRequest is the body of POST /v1/compile. Netlist is the Yosys JSON
// document itself, not a path.
type compileRequest struct {
	Netlist         json.RawMessage `json:"netlist"`
	Formats         []string        `json:"formats,omitempty"`
	UtilizationCap  float64         `json:"utilization_cap,omitempty"`
	EvictionPenalty float64         `json:"eviction_penalty,omitempty"`
	WidenDivisor    int             `json:"widen_divisor,omitempty"`
	Padding         int             `json:"padding,omitempty"`
	LeadOut         int             `json:"lead_out,omitempty"`
	HideForwards    bool            `json:"hide_forwards,omitempty"`
}

type compileResponse struct {
	ID          string            `json:"id"`
	NetlistHash string            `json:"netlist_hash"`
	Cached      bool              `json:"cached"`
	Stats       pipeline.Stats    `json:"stats"`
	Artifacts   map[string][]byte `json:"artifacts"`
}

type errorResponse struct {
	ID    string `json:"id,omitempty"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *server) handleCompile(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	logger := s.logger.With("job", id)

	var req compileRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, id, nerrors.Wrap(nerrors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Netlist) == 0 {
		writeError(w, id, nerrors.New(nerrors.ErrCodeInvalidInput, "netlist is required"))
		return
	}

	opts := pipeline.Options{
		Netlist:         req.Netlist,
		Formats:         req.Formats,
		UtilizationCap:  req.UtilizationCap,
		EvictionPenalty: req.EvictionPenalty,
		WidenDivisor:    req.WidenDivisor,
		Padding:         req.Padding,
		LeadOut:         req.LeadOut,
		HideForwards:    req.HideForwards,
		Logger:          logger,
	}
	s.cfg.Apply(&opts)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		logger.Warn("compile failed", "err", err)
		writeError(w, id, err)
		return
	}
	logger.Info("compiled", "hash", result.NetlistHash, "cached", result.CacheInfo.RenderHit)
	writeJSON(w, http.StatusOK, compileResponse{
		ID:          id,
		NetlistHash: result.NetlistHash,
		Cached:      result.CacheInfo.RenderHit,
		Stats:       result.Stats,
		Artifacts:   result.Artifacts,
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch nerrors.GetCode(err) {
	case nerrors.ErrCodeInvalidInput, nerrors.ErrCodeInvalidFormat, nerrors.ErrCodeUnknownGate,
		nerrors.ErrCodeCircularDependency, nerrors.ErrCodeUnusedNet, nerrors.ErrCodeNetNotFound,
		nerrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case nerrors.ErrCodeOutOfRange:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, id string, err error) {
	code := string(nerrors.GetCode(err))
	if code == "" {
		code = string(nerrors.ErrCodeInternal)
	}
	writeJSON(w, statusFor(err), errorResponse{ID: id, Code: code, Error: nerrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
