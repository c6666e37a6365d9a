package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"liars-server/internal/config"
	"liars-server/internal/jwt"
	"liars-server/internal/mux"
	"liars-server/pkg/audit"
	"liars-server/pkg/db"
	"liars-server/pkg/ledger"
	"liars-server/pkg/lobby"
	"liars-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	if err := jwt.LoadKeys(); err != nil {
		logrus.WithError(err).Fatal("could not load jwt keys")
	}

	cfg := config.Instance()
	l := setupLedger(cfg)
	store := setupAuditStore(cfg)

	pitBoss := room.NewPitBoss(l, store, lobbyOptions(cfg.Lobby))
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss, l, store))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).WithField("version", Version).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// setupLedger uses Postgres when a DSN is configured, otherwise balances only live in memory
func setupLedger(cfg config.Config) ledger.Ledger {
	if cfg.PGDSN == "" {
		logrus.Warn("no postgres dsn configured, balances will not survive a restart")
		return ledger.NewMemory()
	}

	// run the db migrations
	db.Migrate()
	return ledger.NewPostgres(db.Instance())
}

// setupAuditStore uses Redis when an address is configured, otherwise records only live in memory
func setupAuditStore(cfg config.Config) audit.Store {
	if cfg.Redis.Addr == "" {
		logrus.Warn("no redis address configured, audit records will not survive a restart")
		return audit.NewMemory()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	store, err := audit.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logrus.WithError(err).WithField("addr", cfg.Redis.Addr).Fatal("could not connect to redis")
	}

	return store
}

func lobbyOptions(cfg config.Lobby) lobby.Options {
	return lobby.Options{
		MinPlayers:       cfg.MinPlayers,
		MaxPlayers:       cfg.MaxPlayers,
		MaxStake:         cfg.MaxStake,
		PenaltyThreshold: cfg.PenaltyThreshold,
		JokersWild:       cfg.JokersWild,
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	cfg := config.Instance().Log
	if lvl := cfg.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	format := cfg.Format
	if env := os.Getenv("LOG_FORMAT"); env != "" {
		format = env
	}

	if strings.ToLower(format) == "json" || !term.IsTerminal(int(os.Stdout.Fd())) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
