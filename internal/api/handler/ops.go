// Package handler provides HTTP handlers for the SafeTrip API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/safetrip/safetrip/internal/api/models"
	"github.com/safetrip/safetrip/internal/api/response"
	"github.com/safetrip/safetrip/internal/provider/resilience"
)

const readinessTimeout = 2 * time.Second

// Pinger checks a backing store, e.g. *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderRegistry exposes the health of upstream provider clients.
type ProviderRegistry interface {
	Snapshot() []*resilience.ProviderHealth
}

// OpsConfig holds configuration for OpsHandler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Database is pinged by the readiness and status checks. Nil when the
	// traveler store is in memory.
	Database Pinger

	Providers ProviderRegistry

	// DegradationFlags name features running on fallbacks, e.g. "places:synthetic".
	DegradationFlags []string

	Now func() time.Time
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /api/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.cfg.Now()),
		Details: map[string]any{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	})
}

// ReadinessCheck handles GET /api/ops/ready. Fails only when the database
// is configured and unreachable; upstream providers have fallbacks.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if db := h.databaseStatus(r.Context()); db.Status == models.HealthStatusFail {
		response.ServiceUnavailable(w, r, "database unreachable")
		return
	}
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.cfg.Now()),
	})
}

// SystemStatus handles GET /api/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	db := h.databaseStatus(r.Context())
	providers := h.providerStatuses()

	flags := append([]string(nil), h.cfg.DegradationFlags...)
	overall := models.HealthStatusOK
	for _, p := range providers {
		if p.Status != models.HealthStatusOK {
			overall = models.HealthStatusDegraded
			flags = append(flags, p.Provider+":circuit-"+p.CircuitState)
		}
	}
	if db.Status == models.HealthStatusFail {
		overall = models.HealthStatusFail
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:                 overall,
		Time:                   models.Timestamp(h.cfg.Now()),
		Subsystems:             []models.SubsystemStatus{db},
		Providers:              providers,
		ActiveDegradationFlags: flags,
	})
}

func (h *OpsHandler) databaseStatus(ctx context.Context) models.SubsystemStatus {
	status := models.SubsystemStatus{Name: "traveler-store", Status: models.HealthStatusOK}
	if h.cfg.Database == nil {
		detail := "in-memory"
		status.Detail = &detail
		return status
	}

	status.Name = "postgres"
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := h.cfg.Database.Ping(ctx); err != nil {
		detail := err.Error()
		status.Status = models.HealthStatusFail
		status.Detail = &detail
	}
	return status
}

func (h *OpsHandler) providerStatuses() []models.ProviderStatus {
	if h.cfg.Providers == nil {
		return []models.ProviderStatus{}
	}

	snapshot := h.cfg.Providers.Snapshot()
	out := make([]models.ProviderStatus, 0, len(snapshot))
	for _, p := range snapshot {
		ps := models.ProviderStatus{
			Provider:            p.Name,
			Status:              providerHealth(p),
			CircuitState:        p.Circuit,
			ConsecutiveFailures: p.ConsecutiveFailures,
			LastSuccessAt:       timestampPtr(p.LastSuccessAt),
			LastFailureAt:       timestampPtr(p.LastFailureAt),
		}
		if p.LastError != "" {
			msg := p.LastError
			ps.Message = &msg
		}
		out = append(out, ps)
	}
	return out
}

func providerHealth(p *resilience.ProviderHealth) models.HealthStatus {
	switch p.Circuit {
	case resilience.CircuitOpen:
		return models.HealthStatusFail
	case resilience.CircuitHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

func timestampPtr(t *time.Time) *models.Timestamp {
	if t == nil {
		return nil
	}
	ts := models.Timestamp(*t)
	return &ts
}
