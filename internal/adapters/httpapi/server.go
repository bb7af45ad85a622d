// Package httpapi exposes dispatch, monitoring and account endpoints over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bnema/paymail/internal/application"
	"github.com/bnema/paymail/internal/ports"
)

type Deps struct {
	Notifier   *application.Notifier
	Pool       *application.AccountPool
	Sender     *application.SenderService
	Controller *application.MonitorController
	Metrics    http.Handler
	Clock      ports.Clock
	Logger     *zap.Logger
}

type Handler struct {
	notifier   *application.Notifier
	pool       *application.AccountPool
	sender     *application.SenderService
	controller *application.MonitorController
	clock      ports.Clock
	log        *zap.Logger
}

// NewRouter wires every route onto a chi router. A nil Metrics handler
// leaves /metrics unmounted.
func NewRouter(deps Deps) http.Handler {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	h := &Handler{
		notifier:   deps.Notifier,
		pool:       deps.Pool,
		sender:     deps.Sender,
		controller: deps.Controller,
		clock:      deps.Clock,
		log:        deps.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(deps.Logger))

	r.Get("/healthz", h.Healthz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/send-email", h.SendEmail)
		r.Get("/send-email", h.EmailLog)
		r.Get("/gmail-accounts-status", h.AccountsStatus)
		r.Get("/sender-config", h.GetSenderConfig)
		r.Post("/sender-config", h.UpdateSenderConfig)
		r.Get("/test-email", h.TestConnection)
		r.Post("/monitor-excel", h.MonitorControl)
	})

	return r
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
