package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

// Status page formats.
const (
	formatStatuspage = "statuspage"
	formatGCP        = "gcp"
	formatAWS        = "aws"
)

const (
	maxProviderIncidents = 5
	statuspageMaxAge     = 12 * time.Hour
)

type statuspageSummary struct {
	Incidents []struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Status          string    `json:"status"`
		Impact          string    `json:"impact"`
		CreatedAt       time.Time `json:"created_at"`
		Shortlink       string    `json:"shortlink"`
		IncidentUpdates []struct {
			Body string `json:"body"`
		} `json:"incident_updates"`
	} `json:"incidents"`
}

type gcpIncident struct {
	ID               string     `json:"id"`
	ExternalDesc     string     `json:"external_desc"`
	ServiceName      string     `json:"service_name"`
	Severity         string     `json:"severity"`
	Begin            time.Time  `json:"begin"`
	End              *time.Time `json:"end"`
	MostRecentUpdate struct {
		Text string `json:"text"`
	} `json:"most_recent_update"`
}

type awsStatus struct {
	CurrentEvents []struct {
		EventARN          string `json:"event_arn"`
		Service           string `json:"service"`
		EventTypeCategory string `json:"event_type_category"`
		EventTypeCode     string `json:"event_type_code"`
		Region            string `json:"region"`
		StartTime         string `json:"start_time"`
	} `json:"current_events"`
}

// CloudStatus polls provider status pages for active incidents. A failed
// provider degrades the source without affecting the others.
type CloudStatus struct {
	pages       []StatusPage
	fetcher     *Fetcher
	concurrency int
	logger      *slog.Logger
}

// NewCloudStatus creates the cloud and ISP status adapter.
func NewCloudStatus(d Deps) *CloudStatus {
	return &CloudStatus{
		pages:       d.Catalog.StatusPages,
		fetcher:     d.Fetcher,
		concurrency: d.concurrency(),
		logger:      d.logger(),
	}
}

func (s *CloudStatus) Name() string { return "Cloud/ISP Status" }

func (s *CloudStatus) Fetch(ctx context.Context) ([]domain.Incident, error) {
	results := make([][]domain.Incident, len(s.pages))
	errs := make([]error, len(s.pages))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, p := range s.pages {
		g.Go(func() error {
			incs, err := s.fetchPage(ctx, p)
			if err != nil {
				s.logger.Warn("status page fetch failed", "provider", p.Name, "error", err)
				errs[i] = fmt.Errorf("%s: %w", p.Name, err)
				return nil
			}
			results[i] = incs
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.Incident
	var failed []error
	for i := range s.pages {
		out = append(out, results[i]...)
		if errs[i] != nil {
			failed = append(failed, errs[i])
		}
	}
	return out, domain.FeedErrors(len(s.pages), failed)
}

func (s *CloudStatus) fetchPage(ctx context.Context, p StatusPage) ([]domain.Incident, error) {
	switch p.Format {
	case formatGCP:
		var incidents []gcpIncident
		if err := s.fetcher.GetJSON(ctx, p.URL, &incidents); err != nil {
			return nil, err
		}
		return gcpIncidents(p, incidents), nil
	case formatAWS:
		var status awsStatus
		if err := s.fetcher.GetJSON(ctx, p.URL, &status); err != nil {
			return nil, err
		}
		return awsIncidents(p, status), nil
	default:
		var summary statuspageSummary
		if err := s.fetcher.GetJSON(ctx, p.URL, &summary); err != nil {
			return nil, err
		}
		return statuspageIncidents(p, summary, domain.Now()), nil
	}
}

// statuspageIncidents keeps unresolved incidents opened in the last 12 hours.
func statuspageIncidents(p StatusPage, summary statuspageSummary, now time.Time) []domain.Incident {
	incidents := summary.Incidents
	if len(incidents) > maxProviderIncidents {
		incidents = incidents[:maxProviderIncidents]
	}
	home := strings.TrimSuffix(strings.TrimSuffix(p.URL, "/api/v2/summary.json"), "/api/v2/status.json")

	var out []domain.Incident
	for _, inc := range incidents {
		switch inc.Status {
		case "investigating", "identified", "monitoring":
		default:
			continue
		}
		if now.Sub(inc.CreatedAt) >= statuspageMaxAge {
			continue
		}
		desc := inc.Shortlink
		if len(inc.IncidentUpdates) > 0 && inc.IncidentUpdates[0].Body != "" {
			desc = inc.IncidentUpdates[0].Body
		}
		if desc == "" {
			desc = "Active incident"
		}
		impact := inc.Impact
		if impact == "" {
			impact = "Impact Unknown"
		}
		link := inc.Shortlink
		if link == "" {
			link = home
		}
		out = append(out, domain.Normalize(domain.Incident{
			ID:            "cloud-incident-" + inc.ID,
			Title:         p.Name + ": " + inc.Name,
			Description:   desc,
			Type:          domain.TypeInfrastructure,
			Severity:      impactSeverity(inc.Impact),
			Location:      domain.At(p.Lat, p.Lon),
			LocationName:  p.Name + " - " + impact,
			Timestamp:     inc.CreatedAt,
			Source:        p.Name + " Status",
			LivestreamURL: link,
		}))
	}
	return out
}

func impactSeverity(impact string) domain.Severity {
	switch impact {
	case "critical":
		return domain.SeverityCritical
	case "major":
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

// gcpIncidents keeps incidents that have not ended.
func gcpIncidents(p StatusPage, incidents []gcpIncident) []domain.Incident {
	var out []domain.Incident
	for _, inc := range incidents {
		if len(out) == maxProviderIncidents {
			break
		}
		if inc.End != nil {
			continue
		}
		title := inc.ExternalDesc
		if title == "" {
			title = inc.ServiceName
		}
		desc := inc.MostRecentUpdate.Text
		if desc == "" {
			desc = inc.ExternalDesc
		}
		if desc == "" {
			desc = "Service disruption"
		}
		service := inc.ServiceName
		if service == "" {
			service = "Multiple Services"
		}
		sev := domain.SeverityMedium
		if inc.Severity == "high" {
			sev = domain.SeverityHigh
		}
		out = append(out, domain.Normalize(domain.Incident{
			ID:            "cloud-gcp-" + inc.ID,
			Title:         "Google Cloud: " + title,
			Description:   desc,
			Type:          domain.TypeInfrastructure,
			Severity:      sev,
			Location:      domain.At(p.Lat, p.Lon),
			LocationName:  "Google Cloud - " + service,
			Timestamp:     inc.Begin,
			Source:        "Google Cloud Status",
			LivestreamURL: "https://status.cloud.google.com/",
		}))
	}
	return out
}

func awsIncidents(p StatusPage, status awsStatus) []domain.Incident {
	events := status.CurrentEvents
	if len(events) > maxProviderIncidents {
		events = events[:maxProviderIncidents]
	}
	var out []domain.Incident
	for _, ev := range events {
		if ev.EventARN == "" {
			continue
		}
		service := ev.Service
		if service == "" {
			service = "Service"
		}
		desc := ev.EventTypeCode
		if desc == "" {
			desc = "AWS service event"
		}
		region := ev.Region
		if region == "" {
			region = "Global"
		}
		started, _ := time.Parse(time.RFC3339, ev.StartTime)
		out = append(out, domain.Normalize(domain.Incident{
			ID:            "cloud-aws-" + ev.EventARN,
			Title:         fmt.Sprintf("AWS: %s - %s", service, ev.EventTypeCategory),
			Description:   desc,
			Type:          domain.TypeInfrastructure,
			Severity:      domain.SeverityMedium,
			Location:      domain.At(p.Lat, p.Lon),
			LocationName:  "AWS " + region,
			Timestamp:     started,
			Source:        "AWS Status",
			LivestreamURL: "https://status.aws.amazon.com/",
		}))
	}
	return out
}
