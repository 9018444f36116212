package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/camilodvr/censopueblos/internal/analysis"
	"github.com/camilodvr/censopueblos/internal/report"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func getRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// selectionFromQuery binds the multi-valued filter parameters. Repeated
// params accumulate: ?peoples=570&peoples=Sikuani.
func selectionFromQuery(r *http.Request) analysis.Selection {
	q := r.URL.Query()
	return analysis.Selection{
		Peoples:        q["peoples"],
		Departments:    q["departments"],
		Municipalities: q["municipalities"],
	}
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Aggregate(selectionFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleByPeople(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ByPeople(selectionFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Report(selectionFromQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.ReportsBuilt.Inc()
	w.Header().Set("Content-Type", report.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps domain errors to responses: an empty selection is a client
// not-found outcome, everything else a server fault.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errs.ErrEmptySelection) {
		h.metrics.EmptySelections.Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "selection contains no rows",
		})
		return
	}
	h.log.Error().
		Str("request_id", getRequestID(r.Context())).
		Str("path", r.URL.Path).
		Err(err).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
