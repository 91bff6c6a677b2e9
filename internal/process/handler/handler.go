package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/fileio"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/process/service"
	"github.com/adrielsb/FarmaGeniusProject-sub001/internal/report"
)

// Process accepts the two production sheets plus the submission parameters and
// runs the full pipeline. Form fields: diario, controle (files), date, tenant,
// overrides (JSON object), check_only, diario_header_row, controle_header_row.
func Process(eng *service.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-ID")
		log := logger
		if reqID != "" {
			log = logger.With().Str("req_id", reqID).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			httpError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}

		diaryFile, diaryHeader, err := r.FormFile("diario")
		if err != nil {
			httpError(w, http.StatusBadRequest, "missing diario: "+err.Error())
			return
		}
		defer diaryFile.Close()

		controlFile, controlHeader, err := r.FormFile("controle")
		if err != nil {
			httpError(w, http.StatusBadRequest, "missing controle: "+err.Error())
			return
		}
		defer controlFile.Close()

		diary, err := fileio.ReadAnyTable(diaryFile, diaryHeader.Filename, atoi(r.FormValue("diario_header_row"), 1))
		if err != nil {
			httpError(w, http.StatusBadRequest, "failed to read diario: "+err.Error())
			return
		}
		control, err := fileio.ReadAnyTable(controlFile, controlHeader.Filename, atoi(r.FormValue("controle_header_row"), 1))
		if err != nil {
			httpError(w, http.StatusBadRequest, "failed to read controle: "+err.Error())
			return
		}

		overrides, err := parseOverrides(r.FormValue("overrides"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "bad overrides: "+err.Error())
			return
		}

		in := service.Input{
			Diary:     diary,
			Control:   control,
			Date:      r.FormValue("date"),
			Overrides: overrides,
			CheckOnly: toBool(r.FormValue("check_only"), false),
			Tenant:    r.FormValue("tenant"),
		}

		out, err := eng.Process(r.Context(), in)
		if err != nil {
			status, stage := classifyError(err)
			log.Error().Err(err).Str("stage", stage).Msg("process failed")
			httpError(w, status, err.Error())
			return
		}

		if in.CheckOnly {
			// check-only contract: just the unmapped list
			writeJSON(w, log, map[string]any{"unmapped": out.Unmapped})
		} else {
			writeJSON(w, log, out)
		}

		log.Info().
			Str("status", out.Status).
			Str("date", out.Date).
			Int("rows_diario", len(diary.Rows)).
			Int("rows_controle", len(control.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("process done")
	}
}

// GetReport redisplays a persisted report from its denormalized payload.
func GetReport(eng *service.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		tenant := r.URL.Query().Get("tenant")

		id, payload, err := eng.Report(r.Context(), tenant, date)
		if errors.Is(err, report.ErrNotFound) {
			httpError(w, http.StatusNotFound, "report not found")
			return
		}
		if err != nil {
			status, _ := classifyError(err)
			logger.Error().Err(err).Str("date", date).Msg("get report failed")
			httpError(w, status, err.Error())
			return
		}
		writeJSON(w, logger, map[string]any{"reportId": id, "result": json.RawMessage(payload)})
	}
}

// classifyError: structural problems are the caller's to fix (422); everything
// else is a server-side failure with the failing stage named.
func classifyError(err error) (int, string) {
	var colErr *service.ColumnError
	var emptyErr *service.EmptyTableError
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		return http.StatusBadRequest, "input"
	case errors.As(err, &colErr):
		return http.StatusUnprocessableEntity, "discovery"
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, "discovery"
	default:
		return http.StatusInternalServerError, "persistence"
	}
}
