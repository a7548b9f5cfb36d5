package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"surveyhome.org/respondent-web/internal/addressindex"
	"surveyhome.org/respondent-web/internal/config"
	"surveyhome.org/respondent-web/internal/eq"
	"surveyhome.org/respondent-web/internal/fulfilment"
	"surveyhome.org/respondent-web/internal/i18n"
	mw "surveyhome.org/respondent-web/internal/middleware"
	"surveyhome.org/respondent-web/internal/rhsvc"
	"surveyhome.org/respondent-web/internal/status"
	"surveyhome.org/respondent-web/internal/upstream"
)

var (
	templatesDir = "templates"
	localesDir   = "locales"
	contentDir   = "content"
	// devMode reparses templates per request: RH_DEV (preferred) or DEV
	devMode bool

	appCfg     config.Config
	logger     *zap.Logger
	i18nBundle *i18n.Bundle

	aiClient      *addressindex.Client
	caseClient    *rhsvc.Client
	fulfilClient  *fulfilment.Client
	eqSigner      *eq.Signer
	healthChecker *status.Checker

	// nowFn is swapped in tests to pin webchat hours and token timestamps.
	nowFn = time.Now
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "configuration file")
	flag.StringVar(&templatesDir, "templates", templatesDir, "templates directory")
	flag.StringVar(&localesDir, "locales", localesDir, "locales directory")
	flag.StringVar(&contentDir, "content", contentDir, "content directory")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	appCfg = cfg

	logger, err = buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	devMode = envSet("RH_DEV") || envSet("DEV")
	if !devMode {
		tc, err := parseTemplates()
		if err != nil {
			logger.Fatal("parse templates", zap.Error(err))
		}
		tmplCache = tc
	}

	i18nBundle, err = i18n.Load(localesDir, "en", []string{"en", "cy"})
	if err != nil {
		logger.Fatal("load locales", zap.Error(err))
	}

	aiClient = addressindex.NewClient(cfg.AddressIndex.URL, basicAuth(cfg.AddressIndex), cfg.UpstreamTimeout, logger)
	caseClient = rhsvc.NewClient(cfg.CaseService.URL, basicAuth(cfg.CaseService), cfg.UpstreamTimeout, logger)
	fulfilClient = fulfilment.NewClient(
		cfg.CollectionInstrument.URL, basicAuth(cfg.CollectionInstrument),
		cfg.IAC.URL, basicAuth(cfg.IAC),
		cfg.UpstreamTimeout, logger,
	)
	eqSigner, err = eq.NewSignerFromFile(cfg.JSONSecretKeys)
	if err != nil {
		logger.Fatal("load secret keys", zap.Error(err))
	}
	healthChecker = status.NewChecker(map[string]string{
		"address-index":         cfg.AddressIndex.URL,
		"case-service":          cfg.CaseService.URL,
		"collection-instrument": cfg.CollectionInstrument.URL,
		"iac-service":           cfg.IAC.URL,
	})

	store, err := buildSessionStore(cfg)
	if err != nil {
		logger.Fatal("build session store", zap.Error(err))
	}

	r := newRouter(store)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening", zap.String("addr", cfg.Addr()), zap.Bool("dev", devMode))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

// newRouter assembles the middleware chain and routes; shared with tests.
func newRouter(store mw.Store) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.RedirectSlashes)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Metrics)
	r.Use(mw.Session(store))
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", healthzHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/status", statusHandler)

	r.Get("/", IndexHandler)
	r.Post("/", IndexPostHandler)

	r.Route("/requests/access-code", func(r chi.Router) {
		r.Get("/", RequestCodeStartHandler)
		r.Get("/enter-address", EnterAddressHandler)
		r.Post("/enter-address", EnterAddressPostHandler)
		r.Get("/select-address", SelectAddressHandler)
		r.Post("/select-address", SelectAddressPostHandler)
		r.Get("/confirm-address", ConfirmAddressHandler)
		r.Post("/confirm-address", ConfirmAddressPostHandler)
		r.Get("/select-method", SelectMethodHandler)
		r.Post("/select-method", SelectMethodPostHandler)
		r.Get("/enter-mobile", EnterMobileHandler)
		r.Post("/enter-mobile", EnterMobilePostHandler)
		r.Get("/confirm-mobile", ConfirmMobileHandler)
		r.Post("/confirm-mobile", ConfirmMobilePostHandler)
		r.Get("/enter-name", EnterNameHandler)
		r.Post("/enter-name", EnterNamePostHandler)
		r.Get("/confirm-name-address", ConfirmNameAddressHandler)
		r.Post("/confirm-name-address", ConfirmNameAddressPostHandler)
	})

	r.Get("/webchat", WebchatHandler)
	r.Post("/webchat", WebchatPostHandler)

	r.Get("/cookies-and-privacy", ContentPageHandler("cookies-and-privacy"))
	r.Get("/contact-us", ContentPageHandler("contact-us"))

	r.NotFound(notFoundHandler)
	return r
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	s := healthChecker.Check(r.Context())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if s.State != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(s)
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func buildSessionStore(cfg config.Config) (mw.Store, error) {
	secure := cfg.Env == "prod"
	if cfg.RedisURL != "" {
		return mw.NewRedisStore(cfg.RedisURL, secure, logger)
	}
	return mw.NewCookieStore(cfg.SessionSigningKey, secure), nil
}

func basicAuth(s config.Service) upstream.BasicAuth {
	return upstream.BasicAuth{Username: s.Username, Password: s.Password}
}
