// Package main provides the uppi command line client. It signs in with a
// one-time code, browses monitors and anomalies, toggles push notifications
// and watches monitor status with a Prometheus endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/auth"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/client"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/client/uppi"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/config"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/metrics"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/models"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/router"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
	"github.com/janyksteenbeek/uppi-mobile-app/pkg/logger"
)

const usage = `Usage: uppi <command> [arguments]

Commands:
  login <code>        Sign in with the six digit code from the Uppi dashboard
  logout              Sign out and forget the stored session
  status              Show whether a session is active
  profile             Show the signed-in account
  monitors            List monitors, failing first
  monitor <id>        Show one monitor with its recent checks
  history [-pages n]  List anomalies, newest first
  anomaly <id>        Show one anomaly with its notifications
  push on|off         Turn push notifications on or off for this device
  watch               Poll monitors and report status changes
`

var errNotSignedIn = errors.New("not signed in, run `uppi login <code>` first")

// app holds the wired client for one command invocation.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	out      io.Writer
	lang     language.Tag
	store    storage.Store
	metrics  *metrics.Metrics
	session  *client.Session
	api      *uppi.Client
	nav      *router.MemoryNavigator
	guard    *router.Guard
	authFlow auth.Service
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load .env.local only in development (GO_ENV unset or "development")
	if goEnv := os.Getenv("GO_ENV"); goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env.local file: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(&cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	err = a.run(ctx, os.Args[1], os.Args[2:])
	a.close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger, out io.Writer) (*app, error) {
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	base := client.NewBaseClient(cfg.APIBaseURL(), cfg.API.Timeout, log, m)
	session := client.NewSession(store, base, cfg.UserAgent(), log, m)
	api := uppi.NewClient(client.NewAuthClient(base, session), log)

	nav := router.NewMemoryNavigator(router.RouteLogin, log)
	guard := router.NewGuard(session, nav, log)

	a := &app{
		cfg:      cfg,
		log:      log,
		out:      out,
		lang:     localeFromEnv(),
		store:    store,
		metrics:  m,
		session:  session,
		api:      api,
		nav:      nav,
		guard:    guard,
		authFlow: auth.NewService(session, api, nav, log),
	}

	if err := guard.Start(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	log.WithFields(logrus.Fields{
		"api":           cfg.APIBaseURL(),
		"storage":       cfg.Storage.Backend,
		"authenticated": session.IsAuthenticated(),
	}).Debug("Client initialized")

	return a, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status(ctx)
	}

	if !a.session.IsAuthenticated() {
		return errNotSignedIn
	}

	var err error
	switch command {
	case "profile":
		err = a.profile(ctx)
	case "monitors":
		err = a.monitors(ctx)
	case "monitor":
		err = a.monitor(ctx, args)
	case "history":
		err = a.history(ctx, args)
	case "anomaly":
		err = a.anomaly(ctx, args)
	case "push":
		err = a.push(ctx, args)
	case "watch":
		err = a.watch(ctx)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}

	if models.IsAuthError(err) {
		return fmt.Errorf("%w: the session has ended, sign in again", err)
	}
	return err
}

func (a *app) close() {
	a.guard.Stop()
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Error("Failed to close store connection")
	}
}

// localeFromEnv turns LANG (e.g. "nl_NL.UTF-8") into a collation language.
func localeFromEnv() language.Tag {
	value := os.Getenv("LANG")
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return models.DefaultDisplayLanguage
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return models.DefaultDisplayLanguage
	}
	return tag
}
