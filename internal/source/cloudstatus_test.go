package source

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

const statuspageFixture = `{"incidents":[
 {"id":"inc1","name":"Elevated API errors","status":"investigating","impact":"critical","created_at":"2026-03-10T10:00:00Z","shortlink":"https://stspg.io/inc1","incident_updates":[{"body":"We are investigating elevated error rates."}]},
 {"id":"inc2","name":"Dashboard latency","status":"resolved","impact":"minor","created_at":"2026-03-10T11:00:00Z"},
 {"id":"inc3","name":"Old degradation","status":"monitoring","impact":"major","created_at":"2026-03-09T20:00:00Z"},
 {"id":"inc4","name":"Webhook delays","status":"identified","impact":"","created_at":"2026-03-10T11:30:00Z"}
]}`

const gcpFixture = `[
 {"id":"g1","external_desc":"Cloud SQL connectivity issues","service_name":"Cloud SQL","severity":"high","begin":"2026-03-10T09:00:00Z","most_recent_update":{"text":"Mitigation in progress"}},
 {"id":"g2","external_desc":"Resolved GKE issue","service_name":"GKE","severity":"medium","begin":"2026-03-08T09:00:00Z","end":"2026-03-08T12:00:00Z"}
]`

const awsFixture = `{"current_events":[
 {"event_arn":"arn:aws:health:us-east-1::event/EC2/1","service":"EC2","event_type_category":"issue","event_type_code":"AWS_EC2_OPERATIONAL_ISSUE","region":"us-east-1","start_time":"2026-03-10T07:00:00Z"}
]}`

func TestCloudStatus_Fetch(t *testing.T) {
	fixClock(t)
	sp := serveJSON(t, statuspageFixture)
	gcp := serveJSON(t, gcpFixture)
	aws := serveJSON(t, awsFixture)
	down := serveStatus(t, http.StatusInternalServerError)

	cat := &Catalog{StatusPages: []StatusPage{
		{Name: "GitHub", URL: sp.URL + "/api/v2/summary.json", Format: formatStatuspage, Lat: 37.78, Lon: -122.39},
		{Name: "Google Cloud", URL: gcp.URL, Format: formatGCP, Lat: 37.42, Lon: -122.08},
		{Name: "AWS", URL: aws.URL, Format: formatAWS, Lat: 38.9, Lon: -77.0},
		{Name: "Zayo", URL: down.URL, Format: formatStatuspage, Lat: 40.0, Lon: -105.2},
	}}
	got, err := NewCloudStatus(testDeps(cat)).Fetch(context.Background())

	var partial *domain.PartialFetchError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Failed)
	assert.Equal(t, 4, partial.Total)

	incs := byID(got)
	require.Len(t, incs, 4)

	gh := incs["cloud-incident-inc1"]
	assert.Equal(t, "GitHub: Elevated API errors", gh.Title)
	assert.Equal(t, "We are investigating elevated error rates.", gh.Description)
	assert.Equal(t, domain.SeverityCritical, gh.Severity)
	assert.Equal(t, domain.TypeInfrastructure, gh.Type)
	assert.Equal(t, "GitHub - critical", gh.LocationName)
	assert.Equal(t, "GitHub Status", gh.Source)
	assert.Equal(t, &domain.Point{Lat: 37.78, Lon: -122.39}, gh.Location)

	webhooks := incs["cloud-incident-inc4"]
	assert.Equal(t, domain.SeverityMedium, webhooks.Severity)
	assert.Equal(t, "GitHub - Impact Unknown", webhooks.LocationName)
	assert.Equal(t, sp.URL, webhooks.LivestreamURL)

	sql := incs["cloud-gcp-g1"]
	assert.Equal(t, "Google Cloud: Cloud SQL connectivity issues", sql.Title)
	assert.Equal(t, "Mitigation in progress", sql.Description)
	assert.Equal(t, domain.SeverityHigh, sql.Severity)
	assert.Equal(t, "Google Cloud Status", sql.Source)
	assert.NotContains(t, incs, "cloud-gcp-g2")

	ec2 := incs["cloud-aws-arn:aws:health:us-east-1::event/EC2/1"]
	assert.Equal(t, "AWS: EC2 - issue", ec2.Title)
	assert.Equal(t, "AWS us-east-1", ec2.LocationName)
	assert.Equal(t, domain.SeverityMedium, ec2.Severity)
}

func TestCloudStatus_AllProvidersDown(t *testing.T) {
	down := serveStatus(t, http.StatusServiceUnavailable)
	cat := &Catalog{StatusPages: []StatusPage{
		{Name: "A", URL: down.URL, Format: formatStatuspage},
		{Name: "B", URL: down.URL, Format: formatStatuspage},
	}}

	got, err := NewCloudStatus(testDeps(cat)).Fetch(context.Background())
	require.Error(t, err)
	var partial *domain.PartialFetchError
	assert.False(t, errors.As(err, &partial))
	assert.Empty(t, got)
}
