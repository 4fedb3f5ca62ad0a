package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenlake-league/ledgerbot/internal/database"
	"github.com/greenlake-league/ledgerbot/internal/handler"
	"github.com/greenlake-league/ledgerbot/internal/identity"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/metrics"
	"github.com/greenlake-league/ledgerbot/internal/payment"
	"github.com/greenlake-league/ledgerbot/internal/payout"
	"github.com/greenlake-league/ledgerbot/internal/repository"
	"github.com/greenlake-league/ledgerbot/internal/results"
	"github.com/greenlake-league/ledgerbot/internal/wager"
)

type Server struct {
	httpServer      *http.Server
	dbPool          database.Pool
	wagerService    wager.Service
	paymentService  payment.Service
	identityService identity.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, defaultSeason int, dbPool database.Pool, wagerService wager.Service, paymentService payment.Service, identityService identity.Service, leagueRepo repository.League, generator *payout.Generator, normalizer *results.Normalizer) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	wagerHandler := handler.NewWagerHandler(wagerService, defaultSeason)
	paymentHandler := handler.NewPaymentHandler(paymentService, defaultSeason)
	leagueHandler := handler.NewLeagueHandler(identityService, leagueRepo, generator, defaultSeason)
	resultsHandler := handler.NewResultsHandler(normalizer, defaultSeason)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wager", func(r chi.Router) {
			r.Post("/create", wagerHandler.HandleCreate)
			r.Post("/accept", wagerHandler.HandleAccept)
			r.Post("/decline", wagerHandler.HandleDecline)
			r.Post("/cancel", wagerHandler.HandleCancel)
			r.Post("/confirm-paid", wagerHandler.HandleConfirmPaid)
			r.Post("/dispute", wagerHandler.HandleDispute)
			r.Post("/void", wagerHandler.HandleVoidDisputed)
			r.Post("/settle", wagerHandler.HandleSettle)
			r.Get("/get", wagerHandler.HandleGet)
			r.Get("/list", wagerHandler.HandleList)
			r.Get("/pending", wagerHandler.HandlePending)
		})

		r.Route("/welcher", func(r chi.Router) {
			r.Post("/flag", wagerHandler.HandleFlagWelcher)
			r.Post("/clear", wagerHandler.HandleClearWelcher)
			r.Get("/list", wagerHandler.HandleListWelchers)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create", paymentHandler.HandleCreate)
			r.Post("/mark-paid", paymentHandler.HandleMarkPaid)
			r.Post("/clear", paymentHandler.HandleClear)
			r.Get("/get", paymentHandler.HandleGet)
			r.Get("/owed-by", paymentHandler.HandleOwedBy)
			r.Get("/owed-to", paymentHandler.HandleOwedTo)
			r.Get("/profit", paymentHandler.HandleProfit)
			r.Get("/leaderboard", paymentHandler.HandleLeaderboard)
		})

		r.Route("/league", func(r chi.Router) {
			r.Post("/register", leagueHandler.HandleRegister)
			r.Post("/unregister", leagueHandler.HandleUnregister)
			r.Get("/registrations", leagueHandler.HandleListRegistrations)
			r.Post("/seeding", leagueHandler.HandleSetSeeding)
			r.Get("/seedings", leagueHandler.HandleListSeedings)
			r.Post("/playoff-winner", leagueHandler.HandleRecordWinner)
		})

		r.Route("/payout", func(r chi.Router) {
			r.Post("/generate", leagueHandler.HandleGeneratePayouts)
			r.Get("/structure", leagueHandler.HandlePayoutStructure)
		})

		r.Route("/results", func(r chi.Router) {
			r.Post("/parse-preview", resultsHandler.HandleParsePreview)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:          dbPool,
		wagerService:    wagerService,
		paymentService:  paymentService,
		identityService: identityService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
