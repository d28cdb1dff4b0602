package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/shortlink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/shortlink/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlink/pkg/config"
	"github.com/wadjakorntonsri/shortlink/pkg/core/services"
	"github.com/wadjakorntonsri/shortlink/pkg/logging"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _, err := logging.New(cfg.Log)
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, a local SQLite file is ephemeral; point DATABASE_URL at
	// Turso (libsql://) or Postgres instead.
	repo, err := sqlstore.NewRepository(cfg.DatabaseURL, sqlstore.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		panic(err)
	}

	mux = handler.NewRouter(cfg, services.NewLinkService(repo), logger)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
