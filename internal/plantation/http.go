// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package plantation

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohansharma/civicledger/internal/platform/apperr"
	"github.com/mohansharma/civicledger/internal/platform/respond"
	"github.com/mohansharma/civicledger/internal/platform/validate"
)

// dayRe matches the exact-date query parameter shape.
var dayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Handler serves the plantation dashboard API over the loaded dataset.
//
// The dataset is immutable after startup, so the handler is safe for
// concurrent use without locking.
type Handler struct {
	entries []Entry
	monthly []MonthlyTotal
	logger  *slog.Logger
}

// NewHandler precomputes the monthly aggregation; the full-dataset chart is
// served from the same data on every request.
func NewHandler(entries []Entry, logger *slog.Logger) *Handler {
	return &Handler{
		entries: entries,
		monthly: MonthlyTotals(entries),
		logger:  logger,
	}
}

// Routes mounts the plantation endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/monthly", handler.getMonthly)
	router.Get("/records", handler.getRecords)
	return router
}

// getMonthly handles GET /monthly, the full-dataset monthly aggregation.
func (handler *Handler) getMonthly(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.monthly)
}

// recordsResponse is the payload for an exact-date filtered view.
type recordsResponse struct {
	Date    string  `json:"date"`
	Records []Entry `json:"records"`
	Summary Summary `json:"summary"`
}

/*
getRecords handles GET /records?date=YYYY-MM-DD.

Description: Returns the rows for exactly that calendar date plus summary
totals. An empty match is a 200 with an empty list, not a 404: "no records
for this date" is a valid answer.
*/
func (handler *Handler) getRecords(writer http.ResponseWriter, request *http.Request) {
	day := request.URL.Query().Get("date")

	v := &validate.Validator{}
	err := v.
		Required("date", day).
		Pattern("date", day, dayRe, "Must be formatted YYYY-MM-DD").
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	parsed, perr := time.Parse("2006-01-02", day)
	if perr != nil {
		// Pattern passed but the calendar rejected it (e.g. 2026-13-40).
		respond.Error(writer, request, apperr.ValidationError("date is not a valid calendar date"))
		return
	}

	matched := ByDate(handler.entries, parsed)
	respond.OK(writer, recordsResponse{
		Date:    day,
		Records: matched,
		Summary: Summarize(matched),
	})
}
