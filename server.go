package main

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitea.kood.tech/martasalum/roomie-match/backend/match"
)

// app bundles the service dependencies the handlers share.
type app struct {
	cfg       *Config
	db        *sql.DB
	store     *profileStore
	cache     *matchCache
	logger    *zap.Logger
	jwtSecret []byte
	// weights nil means engine defaults.
	weights match.Weights
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, _ := zcfg.Build()
	return logger
}

func serve(cfg *Config) error {
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// A bad weight table stops the service here, before any request is
	// scored against it.
	weights, err := cfg.matchWeights()
	if err != nil {
		return err
	}

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := ensureSchema(db); err != nil {
		return err
	}
	logger.Info("database connection established")

	var cache *matchCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = newMatchCache(rdb, cfg.Match.CacheTTL)
		logger.Info("match-result cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	a := &app{
		cfg:       cfg,
		db:        db,
		store:     &profileStore{db: db},
		cache:     cache,
		logger:    logger,
		jwtSecret: []byte(cfg.JWTSecret),
		weights:   weights,
	}

	logger.Info("starting roomie-match backend", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, withCORS(a.router()))
}

func (a *app) router() *mux.Router {
	r := mux.NewRouter()

	// Core auth & user endpoints
	r.HandleFunc("/register", a.registerHandler()).Methods(http.MethodPost)
	r.HandleFunc("/login", a.loginHandler()).Methods(http.MethodPost)
	r.HandleFunc("/me", a.authenticate(a.meHandler())).Methods(http.MethodGet)
	r.HandleFunc("/me/profile", a.authenticate(a.getMyProfileHandler())).Methods(http.MethodGet)
	r.HandleFunc("/me/profile", a.authenticate(a.putMyProfileHandler())).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", a.authenticate(a.userSummaryHandler())).Methods(http.MethodGet)

	// Matching
	r.HandleFunc("/matches", a.authenticate(a.matchesHandler(false))).Methods(http.MethodGet)
	r.HandleFunc("/matches/detailed", a.authenticate(a.matchesHandler(true))).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}/dismiss", a.authenticate(a.dismissMatchHandler())).Methods(http.MethodPost)

	// Health check endpoint for Docker
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
