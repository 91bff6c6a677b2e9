package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/config"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/middleware"
	procHnd "github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/handler"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/service"
	"github.com/adrielsb/FarmaGeniusProject-sub001/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, eng *service.Engine) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Post("/process", procHnd.Process(eng, logger))
	r.Get("/reports/{date}", procHnd.GetReport(eng, logger))

	return r
}
