package matching

import "errors"

// Weights are percentages and must sum to 100.
type Weights struct {
	Location      float64
	Preferences   float64
	Hobbies       float64
	Demographics  float64
	BioSimilarity float64
}

func (w Weights) sum() float64 {
	return w.Location + w.Preferences + w.Hobbies + w.Demographics + w.BioSimilarity
}

// Config carries the tunables of the engine. It is copied into the Engine
// and never mutated afterwards.
type Config struct {
	Weights Weights

	// CompatibleThreshold is compared against the unrounded score.
	CompatibleThreshold float64

	DefaultAge              int
	DefaultMinAgePreference int
	DefaultMaxAgePreference int

	AcademicBonus     float64
	SingleParentBonus float64
	ProfessionalBonus float64

	ProfessionalMinAge int
	ProfessionalMaxAge int

	// Workers bounds parallel scoring in ScorePool.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Location:      30,
			Preferences:   25,
			Hobbies:       20,
			Demographics:  15,
			BioSimilarity: 10,
		},
		CompatibleThreshold:     40,
		DefaultAge:              25,
		DefaultMinAgePreference: 25,
		DefaultMaxAgePreference: 40,
		AcademicBonus:           15,
		SingleParentBonus:       20,
		ProfessionalBonus:       10,
		ProfessionalMinAge:      25,
		ProfessionalMaxAge:      40,
		Workers:                 8,
	}
}

// Validate checks the weights and bounds.
func (c Config) Validate() error {
	if c.Weights.sum() != 100 {
		return errors.New("matching: weights must sum to 100")
	}
	if c.CompatibleThreshold < 0 || c.CompatibleThreshold > 100 {
		return errors.New("matching: threshold must be within [0, 100]")
	}
	if c.DefaultMinAgePreference > c.DefaultMaxAgePreference {
		return errors.New("matching: default age preference is inverted")
	}
	if c.Workers < 1 {
		return errors.New("matching: workers must be positive")
	}
	return nil
}
