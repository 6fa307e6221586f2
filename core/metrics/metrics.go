// Package metrics exposes Prometheus collectors shared by the bot runtime.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/museumguide/core/logger"
)

// Collectors groups the counters updated by middleware and handlers.
type Collectors struct {
	Updates     *prometheus.CounterVec
	Replies     *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Duplicates  prometheus.Counter
}

// New registers the collectors on reg. A nil registerer uses a private registry.
func New(reg prometheus.Registerer) *Collectors {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collectors{
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museumbot_updates_total",
			Help: "Inbound Telegram updates by kind.",
		}, []string{"kind"}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museumbot_replies_total",
			Help: "Outbound messages by kind.",
		}, []string{"kind"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museumbot_transitions_total",
			Help: "Conversation state transitions.",
		}, []string{"from", "to"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museumbot_failures_total",
			Help: "Per-message failures that reset a user session.",
		}, []string{"stage"}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "museumbot_duplicates_total",
			Help: "Repeated button presses suppressed by the duplicate guard.",
		}),
	}
	reg.MustRegister(c.Updates, c.Replies, c.Transitions, c.Failures, c.Duplicates)
	return c
}

var defaultCollectors = New(prometheus.DefaultRegisterer)

// Default returns collectors registered on the global Prometheus registry.
func Default() *Collectors {
	return defaultCollectors
}

// Serve exposes the default gatherer on listen+path until ctx is done.
func Serve(ctx context.Context, listen, path string) error {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info(ctx, "metrics", "metrics.listen",
		slog.String("listen", listen),
		slog.String("path", path),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
