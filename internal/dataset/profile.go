package dataset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role is a semantic category of entity the pipeline resolves from free text.
type Role string

const (
	RoleCountry Role = "country"
	RoleAthlete Role = "athlete"
	RoleCity    Role = "city"
	RoleYear    Role = "year"
	RoleMedal   Role = "medal"
)

// SemanticRoles are the roles resolved through embedding similarity.
var SemanticRoles = []Role{RoleCountry, RoleCity, RoleAthlete}

// Candidates maps a role to an ordered list of column names; the first column
// present in the dataset wins. Year and medal roles use substring rules
// instead and are not listed here.
type Candidates map[Role][]string

// DefaultCandidates reflects the column naming of the Olympic results dumps
// this started from. Datasets with other conventions are supported by loading
// an override file, not by editing conditionals.
func DefaultCandidates() Candidates {
	return Candidates{
		RoleCountry: {"Team", "Country"},
		RoleAthlete: {"Name", "Athlete"},
		RoleCity:    {"City"},
	}
}

// LoadCandidates reads a YAML role→columns override file. Roles absent from
// the file keep their defaults.
func LoadCandidates(path string) (Candidates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}
	var parsed map[string][]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}
	out := DefaultCandidates()
	for role, cols := range parsed {
		out[Role(strings.ToLower(role))] = cols
	}
	return out, nil
}

// Profile records which semantic roles the dataset can answer about and under
// which column name. Derived once per dataset, immutable until it changes.
type Profile struct {
	Columns      map[Role]string `json:"columns"`
	MedalColumns []string        `json:"medal_columns"`
}

func (p Profile) Has(role Role) bool {
	_, ok := p.Columns[role]
	return ok
}

func (p Profile) Column(role Role) string {
	return p.Columns[role]
}

var medalCountColumns = map[string]bool{"Gold": true, "Silver": true, "Bronze": true, "Total": true}

// ProfileSchema inspects column names only; it tolerates zero rows and never
// fails on missing columns.
func ProfileSchema(d *Dataset, cands Candidates) Profile {
	p := Profile{Columns: make(map[Role]string)}
	if d == nil {
		return p
	}
	if cands == nil {
		cands = DefaultCandidates()
	}

	for role, cols := range cands {
		for _, col := range cols {
			if d.HasColumn(col) {
				p.Columns[role] = col
				break
			}
		}
	}

	// First column whose name contains "year", in column order.
	for _, col := range d.Columns {
		if strings.Contains(strings.ToLower(col), "year") {
			p.Columns[RoleYear] = col
			break
		}
	}

	for _, col := range d.Columns {
		if strings.Contains(strings.ToLower(col), "medal") || medalCountColumns[col] {
			p.MedalColumns = append(p.MedalColumns, col)
		}
	}
	if len(p.MedalColumns) > 0 {
		p.Columns[RoleMedal] = p.MedalColumns[0]
	}
	return p
}
