package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/handlers"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/middleware"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/watch"
)

const shutdownTimeout = 10 * time.Second

func (a *app) watch(ctx context.Context) error {
	opts := []watch.Option{watch.WithTransitionHandler(a.printTransition)}

	if a.cfg.Watch.PollsPerMinute > 0 {
		if rs, ok := a.store.(*storage.RedisStore); ok {
			opts = append(opts, watch.WithLimiter(
				watch.NewRedisLimiter(rs.Client(), watch.DefaultLimiterKey, a.cfg.Watch.PollsPerMinute)))
		} else {
			a.log.Warn("Poll rate limit needs the redis storage backend, ignoring it")
		}
	}

	w := watch.New(a.api, a.cfg.Watch.Interval, a.log, a.metrics, opts...)

	if a.cfg.Metrics.Enabled {
		server := a.metricsServer(w)
		go startServer(server, a.log)
		defer shutdownServer(server, a.log)
	}

	a.log.WithField("interval", a.cfg.Watch.Interval).Info("Watching monitors")
	fmt.Fprintf(a.out, "Watching monitors every %s, press Ctrl+C to stop\n", a.cfg.Watch.Interval)

	return w.Run(ctx)
}

func (a *app) printTransition(t watch.Transition) {
	label := "UP"
	if t.To == models.StatusFail {
		label = "DOWN"
	}
	fmt.Fprintf(a.out, "%s  %-4s  %s (%s)\n", time.Now().Format(time.TimeOnly), label, t.Monitor.Name, t.Monitor.Target())
}

func (a *app) metricsServer(w *watch.Watcher) *http.Server {
	health := handlers.NewHealthHandler(a.store, a.session, w, a.metrics, a.log)
	stack := middleware.NewStack(a.log)

	r := mux.NewRouter()
	health.RegisterRoutes(r)

	return &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           stack.Chain(r, stack.Recovery, stack.RequestLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func startServer(server *http.Server, log *logrus.Logger) {
	log.WithField("addr", server.Addr).Info("Starting metrics server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Metrics server stopped")
	}
}

func shutdownServer(server *http.Server, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Metrics server forced to shutdown")
		return
	}
	log.Info("Metrics server stopped")
}

// printNotifier shows local notifications on the terminal.
type printNotifier struct {
	out io.Writer
}

func (n *printNotifier) Notify(_ context.Context, title, body string) error {
	_, err := fmt.Fprintf(n.out, "%s: %s\n", title, body)
	return err
}
