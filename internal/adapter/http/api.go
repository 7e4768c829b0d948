package http

import (
	"context"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// IncidentLister reads stored incidents, newest first.
type IncidentLister interface {
	ListIncidents(ctx context.Context) ([]domain.Incident, error)
}

// HealthReporter returns the latest per-source health.
type HealthReporter interface {
	Health() domain.HealthReport
}

type incidentJSON struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Type          string        `json:"type"`
	Severity      string        `json:"severity"`
	Location      *domain.Point `json:"location"`
	LocationName  string        `json:"locationName"`
	Timestamp     string        `json:"timestamp"`
	Source        string        `json:"source"`
	LivestreamURL string        `json:"livestreamUrl"`
}

type incidentsResponse struct {
	Success   bool           `json:"success"`
	Count     int            `json:"count"`
	Incidents []incidentJSON `json:"incidents"`
}

type sourceHealthJSON struct {
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	LastCheck string  `json:"lastCheck"`
	Error     *string `json:"error"`
}

type healthResponse struct {
	Success       bool                 `json:"success"`
	OverallStatus string               `json:"overallStatus"`
	Sources       []sourceHealthJSON   `json:"sources"`
	Summary       domain.HealthSummary `json:"summary"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.incidents.ListIncidents(r.Context())
	if err != nil {
		s.logger.Error("list incidents failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load incidents"})
		return
	}

	out := make([]incidentJSON, len(incidents))
	for i, inc := range incidents {
		out[i] = incidentJSON{
			ID:            inc.ID,
			Title:         inc.Title,
			Description:   inc.Description,
			Type:          string(inc.Type),
			Severity:      string(inc.Severity),
			Location:      inc.Location,
			LocationName:  inc.LocationName,
			Timestamp:     inc.Timestamp.UTC().Format(time.RFC3339),
			Source:        inc.Source,
			LivestreamURL: inc.LivestreamURL,
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, incidentsResponse{Success: true, Count: len(out), Incidents: out})
}

func (s *Server) handleSourceHealth(w http.ResponseWriter, _ *http.Request) {
	report := s.health.Health()

	sources := make([]sourceHealthJSON, 0, len(report))
	for _, name := range report.Names() {
		h := report[name]
		src := sourceHealthJSON{
			Name:      name,
			Status:    string(h.Status),
			LastCheck: h.LastCheck.UTC().Format(time.RFC3339),
		}
		if h.Error != "" {
			src.Error = &h.Error
		}
		sources = append(sources, src)
	}
	sharedobs.WriteJSON(w, http.StatusOK, healthResponse{
		Success:       true,
		OverallStatus: report.OverallStatus(),
		Sources:       sources,
		Summary:       report.Summary(),
	})
}
