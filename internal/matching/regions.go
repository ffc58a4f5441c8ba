package matching

import (
	_ "embed"
	"fmt"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const otherDistrict = "other"

//go:embed data/regions.yaml
var regionsYAML []byte

var defaultRegions = mustLoadRegions(regionsYAML)

// Regions holds the static lookup tables. It is read-only once loaded.
type Regions struct {
	Adjacency         map[string][]string `yaml:"adjacency"`
	Districts         map[string][]string `yaml:"districts"`
	CulturalTerms     []string            `yaml:"cultural_terms"`
	GoalCompatibility map[string][]string `yaml:"goal_compatibility"`
	IncompatibleGoals [][]string          `yaml:"incompatible_goals"`
	EducationLevels   []string            `yaml:"education_levels"`

	districtOf map[string]string
}

// DefaultRegions returns the embedded tables.
func DefaultRegions() *Regions {
	return defaultRegions
}

// LoadRegions parses a regions document.
func LoadRegions(data []byte) (*Regions, error) {
	var r Regions
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("matching: parse regions: %w", err)
	}

	for i, pair := range r.IncompatibleGoals {
		if len(pair) != 2 {
			return nil, fmt.Errorf("matching: incompatible_goals[%d] must have two entries", i)
		}
	}

	r.districtOf = make(map[string]string)
	for district, lgas := range r.Districts {
		for _, lga := range lgas {
			if prev, ok := r.districtOf[lga]; ok && prev != district {
				return nil, fmt.Errorf("matching: lga %q listed in districts %q and %q", lga, prev, district)
			}
			r.districtOf[lga] = district
		}
	}

	return &r, nil
}

func mustLoadRegions(data []byte) *Regions {
	r, err := LoadRegions(data)
	if err != nil {
		panic(err)
	}
	return r
}

// Adjacent reports whether one LGA is a cluster key and the other one of its neighbours.
func (r *Regions) Adjacent(a, b string) bool {
	for key, members := range r.Adjacency {
		if (a == key && lo.Contains(members, b)) || (b == key && lo.Contains(members, a)) {
			return true
		}
	}
	return false
}

// District returns the senatorial district of an LGA, or "other".
func (r *Regions) District(lga string) string {
	if d, ok := r.districtOf[lga]; ok {
		return d
	}
	return otherDistrict
}

func (r *Regions) isCulturalTerm(word string) bool {
	return lo.Contains(r.CulturalTerms, word)
}

// goalsCompatible looks up b among the goals listed for a. Both are lower case.
func (r *Regions) goalsCompatible(a, b string) bool {
	return lo.Contains(r.GoalCompatibility[a], b)
}

// goalsConflict checks the incompatible pairs in either order. Both are lower case.
func (r *Regions) goalsConflict(a, b string) bool {
	return lo.ContainsBy(r.IncompatibleGoals, func(pair []string) bool {
		return (pair[0] == a && pair[1] == b) || (pair[1] == a && pair[0] == b)
	})
}

// educationRank returns the position of a lower case level, or -1.
func (r *Regions) educationRank(level string) int {
	return lo.IndexOf(r.EducationLevels, level)
}
