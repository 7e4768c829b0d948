package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/incident-fusion-service/internal/domain"
)

const (
	maxCVEs       = 50
	minCVSS       = 6.0
	defaultCVSS   = 5.0
	nvdTimeLayout = "2006-01-02T15:04:05.000"
	nvdSource     = "NIST NVD"
)

type cvssMetric struct {
	CVSSData struct {
		BaseScore float64 `json:"baseScore"`
	} `json:"cvssData"`
}

type nvdCVE struct {
	ID           string `json:"id"`
	Published    string `json:"published"`
	Descriptions []struct {
		Lang  string `json:"lang"`
		Value string `json:"value"`
	} `json:"descriptions"`
	Metrics struct {
		V31 []cvssMetric `json:"cvssMetricV31"`
		V30 []cvssMetric `json:"cvssMetricV30"`
		V40 []cvssMetric `json:"cvssMetricV40"`
	} `json:"metrics"`
	Configurations []struct {
		Nodes []struct {
			CPEMatch []struct {
				Criteria string `json:"criteria"`
			} `json:"cpeMatch"`
		} `json:"nodes"`
	} `json:"configurations"`
}

// score returns the first available base score, preferring CVSS 3.1.
func (c nvdCVE) score() float64 {
	for _, m := range [][]cvssMetric{c.Metrics.V31, c.Metrics.V30, c.Metrics.V40} {
		if len(m) > 0 && m[0].CVSSData.BaseScore > 0 {
			return m[0].CVSSData.BaseScore
		}
	}
	return defaultCVSS
}

func (c nvdCVE) description() string {
	for _, d := range c.Descriptions {
		if d.Lang == "en" {
			return d.Value
		}
	}
	return "No description available"
}

// vendors returns the vendor field of every CPE 2.3 criteria string.
func (c nvdCVE) vendors() []string {
	var out []string
	for _, cfg := range c.Configurations {
		for _, node := range cfg.Nodes {
			for _, m := range node.CPEMatch {
				if parts := strings.Split(m.Criteria, ":"); len(parts) > 3 {
					out = append(out, parts[3])
				}
			}
		}
	}
	return out
}

// CVE polls the NVD for vulnerabilities published today. Every cycle
// re-supplies the complete set, so the store drops the previous one first.
type CVE struct {
	url     string
	fetcher *Fetcher
}

// NewCVE creates the NVD adapter.
func NewCVE(d Deps) *CVE {
	return &CVE{url: d.Catalog.Endpoints.NVD, fetcher: d.Fetcher}
}

func (s *CVE) Name() string { return "NIST CVE" }

// ReplacesSource names the stored source label this adapter owns.
func (s *CVE) ReplacesSource() string { return nvdSource }

func (s *CVE) Fetch(ctx context.Context) ([]domain.Incident, error) {
	var resp struct {
		Vulnerabilities []struct {
			CVE nvdCVE `json:"cve"`
		} `json:"vulnerabilities"`
	}
	if err := s.fetcher.GetJSON(ctx, s.queryURL(domain.Now()), &resp); err != nil {
		return nil, err
	}

	vulns := resp.Vulnerabilities
	if len(vulns) > maxCVEs {
		vulns = vulns[:maxCVEs]
	}
	var out []domain.Incident
	for _, v := range vulns {
		c := v.CVE
		score := c.score()
		if score < minCVSS {
			continue
		}
		desc := c.description()
		place := domain.GeocodeVendor(desc, c.vendors())
		published, _ := time.Parse(nvdTimeLayout, c.Published)
		out = append(out, domain.Normalize(domain.Incident{
			ID:            "cve-" + c.ID,
			Title:         fmt.Sprintf("%s (CVSS %g)", c.ID, score),
			Description:   desc,
			Type:          domain.TypeCyber,
			Severity:      cvssSeverity(score),
			Location:      place.Point(),
			LocationName:  place.Name,
			Timestamp:     published,
			Source:        nvdSource,
			LivestreamURL: "https://nvd.nist.gov/vuln/detail/" + c.ID,
		}))
	}
	return out, nil
}

// queryURL limits the query to the current UTC day.
func (s *CVE) queryURL(now time.Time) string {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	q := url.Values{}
	q.Set("pubStartDate", start.Format(nvdTimeLayout+"Z"))
	q.Set("pubEndDate", end.Format(nvdTimeLayout+"Z"))
	return s.url + "?" + q.Encode()
}

func cvssSeverity(score float64) domain.Severity {
	switch {
	case score >= 9:
		return domain.SeverityCritical
	case score >= 7:
		return domain.SeverityHigh
	case score >= 4:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
