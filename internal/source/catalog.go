package source

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Feed is one RSS or Atom feed in a family.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`

	// Trusted feeds bypass keyword filtering in families that have one.
	Trusted bool `yaml:"trusted"`
}

// Family is a group of feeds processed by one adapter.
type Family struct {
	Limit int    `yaml:"limit"`
	Feeds []Feed `yaml:"feeds"`
}

// StatusPage is a provider status endpoint polled by the cloud status adapter.
type StatusPage struct {
	Name   string  `yaml:"name"`
	URL    string  `yaml:"url"`
	Format string  `yaml:"format"` // statuspage, gcp, aws
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
}

// Endpoints holds the single-URL upstreams.
type Endpoints struct {
	USGS              string `yaml:"usgs"`
	NOAA              string `yaml:"noaa"`
	MeteoAlarm        string `yaml:"meteoalarm"`
	EnvironmentCanada string `yaml:"environment_canada"`
	BOM               string `yaml:"bom"`
	GDACS             string `yaml:"gdacs"`
	EONET             string `yaml:"eonet"`
	NVD               string `yaml:"nvd"`
	Travel            string `yaml:"travel"`
	Aviation          string `yaml:"aviation"`
	OpenSky           string `yaml:"opensky"`
	AirQuality        string `yaml:"air_quality"`
}

// Catalog lists every upstream the service polls.
type Catalog struct {
	Endpoints         Endpoints    `yaml:"endpoints"`
	News              Family       `yaml:"news"`
	Conflict          Family       `yaml:"conflict"`
	PoliticalBusiness Family       `yaml:"political_business"`
	Maritime          Family       `yaml:"maritime"`
	Cyber             Family       `yaml:"cyber"`
	Nuclear           Family       `yaml:"nuclear"`
	Tech              Family       `yaml:"tech"`
	Financial         Family       `yaml:"financial"`
	Regional          Family       `yaml:"regional"`
	Protest           Family       `yaml:"protest"`
	StatusPages       []StatusPage `yaml:"status_pages"`
}

const defaultFeedLimit = 20

// LoadCatalog reads the catalog at path, or the embedded default when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read feed catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse feed catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var errs []error
	for name, fam := range c.families() {
		if fam.Limit <= 0 {
			fam.Limit = defaultFeedLimit
		}
		for i, f := range fam.Feeds {
			if f.URL == "" || f.Name == "" {
				errs = append(errs, fmt.Errorf("%s feed %d: name and url are required", name, i))
			}
		}
	}
	for i, p := range c.StatusPages {
		switch p.Format {
		case formatStatuspage, formatGCP, formatAWS:
		default:
			errs = append(errs, fmt.Errorf("status page %d (%s): unknown format %q", i, p.Name, p.Format))
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) families() map[string]*Family {
	return map[string]*Family{
		"news":               &c.News,
		"conflict":           &c.Conflict,
		"political_business": &c.PoliticalBusiness,
		"maritime":           &c.Maritime,
		"cyber":              &c.Cyber,
		"nuclear":            &c.Nuclear,
		"tech":               &c.Tech,
		"financial":          &c.Financial,
		"regional":           &c.Regional,
		"protest":            &c.Protest,
	}
}
