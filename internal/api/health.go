// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package api

import (
	"log/slog"
	"net/http"

	"github.com/mohansharma/civicledger/internal/platform/respond"
)

// # Health Checks

// HealthDependencies holds the probe functions the readiness endpoint runs.
// Nil checks are skipped.
type HealthDependencies struct {
	// CheckDataset verifies the plantation dataset loaded and is non-empty.
	CheckDataset func() error
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewHealthHandlers wires the liveness and readiness probes.
//
// Liveness never consults dependencies: a live process with a broken dataset
// is still live. Readiness runs each probe and reports 503 if any fails, so
// orchestrators stop routing traffic to a broken instance.
func NewHealthHandlers(deps HealthDependencies, log *slog.Logger) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, healthStatus{Status: "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		checks := map[string]string{}
		healthy := true

		if deps.CheckDataset != nil {
			if err := deps.CheckDataset(); err != nil {
				log.Warn("readiness_check_failed",
					slog.String("check", "dataset"),
					slog.String("error", err.Error()),
				)
				checks["dataset"] = err.Error()
				healthy = false
			} else {
				checks["dataset"] = "ok"
			}
		}

		status := healthStatus{Status: "ok", Checks: checks}
		if !healthy {
			status.Status = "degraded"
			respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Data: status})
			return
		}
		respond.OK(writer, status)
	}

	return liveness, readiness
}
