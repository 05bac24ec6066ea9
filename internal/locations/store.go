// Package locations serves the normalized Indonesian region hierarchy
// and the JNE destination dataset. The JSON files are produced offline
// from the carrier's tariff-code export and embedded at build time.
package locations

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/*.json
var dataFS embed.FS

// Region is one level of the province > city > district > subdistrict
// hierarchy. ParentID points at the level above; provinces have none.
type Region struct {
	ID         int    `json:"id"`
	ParentID   int    `json:"parent_id,omitempty"`
	Name       string `json:"name"`
	PostalCode string `json:"postal_code,omitempty"`
	JNECode    string `json:"jne_code,omitempty"`
}

// Destination is one JNE tariff-code record.
type Destination struct {
	Code        string `json:"code"`
	Province    string `json:"province"`
	City        string `json:"city"`
	District    string `json:"district"`
	Subdistrict string `json:"subdistrict"`
	Zip         string `json:"zip"`
}

// DestinationResult is a search hit shaped for the checkout address
// selector.
type DestinationResult struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Detail Destination `json:"detail"`
}

type Store struct {
	provinces    []Region
	cities       []Region
	districts    []Region
	subdistricts []Region
	destinations []Destination
}

// NewStore parses the embedded datasets.
func NewStore() (*Store, error) {
	s := &Store{}
	for name, target := range map[string]*[]Region{
		"data/provinces.json":    &s.provinces,
		"data/cities.json":       &s.cities,
		"data/districts.json":    &s.districts,
		"data/subdistricts.json": &s.subdistricts,
	} {
		if err := loadJSON(name, target); err != nil {
			return nil, err
		}
	}
	if err := loadJSON("data/jne-destinations.json", &s.destinations); err != nil {
		return nil, err
	}
	return s, nil
}

func loadJSON(name string, out any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("locations: failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("locations: failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) Provinces() []Region { return s.provinces }

func (s *Store) Cities(provinceID int) []Region {
	return filterByParent(s.cities, provinceID)
}

func (s *Store) Districts(cityID int) []Region {
	return filterByParent(s.districts, cityID)
}

func (s *Store) Subdistricts(districtID int) []Region {
	return filterByParent(s.subdistricts, districtID)
}

func filterByParent(regions []Region, parentID int) []Region {
	filtered := make([]Region, 0)
	for _, r := range regions {
		if r.ParentID == parentID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SearchDestinations matches the query against the full location string
// of each record, case-insensitive, capped at limit results.
func (s *Store) SearchDestinations(query string, limit int) []DestinationResult {
	query = strings.ToLower(query)
	results := make([]DestinationResult, 0, limit)

	for _, d := range s.destinations {
		if len(results) >= limit {
			break
		}
		full := strings.ToLower(fmt.Sprintf("%s %s %s %s %s", d.Province, d.City, d.District, d.Subdistrict, d.Zip))
		if strings.Contains(full, query) {
			results = append(results, DestinationResult{
				ID:     d.Code,
				Label:  fmt.Sprintf("%s, %s, %s, %s (%s)", d.Province, d.City, d.District, d.Subdistrict, d.Zip),
				Detail: d,
			})
		}
	}
	return results
}
