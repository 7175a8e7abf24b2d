package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"adaptcoach/internal/adaptive"
)

// profileFile is the YAML shape of an athlete profile, free text as coaches write it.
type profileFile struct {
	Name          string    `yaml:"name"`
	TrainingLevel string    `yaml:"trainingLevel"`
	ActivityLevel string    `yaml:"activityLevel"`
	Ages          []int     `yaml:"ages"`
	Genders       []string  `yaml:"genders"`
	BMIs          []float64 `yaml:"bmis"`
	Weight        *float64  `yaml:"weight"`
	Injuries      []string  `yaml:"injuries"`
}

func (p profileFile) profile() adaptive.AthleteProfile {
	return adaptive.NewProfile(adaptive.RawProfile{
		TrainingLevel: p.TrainingLevel,
		ActivityLevel: p.ActivityLevel,
		Ages:          p.Ages,
		Genders:       p.Genders,
		BMIs:          p.BMIs,
		Weight:        p.Weight,
		Injuries:      p.Injuries,
	})
}

// baselineFile is one exercise line of a baselines YAML file.
type baselineFile struct {
	Exercise string  `yaml:"exercise"`
	Sets     int     `yaml:"sets"`
	Series   *int    `yaml:"series"`
	Reps     int     `yaml:"reps"`
	LoadKg   float64 `yaml:"load_kg"`
}

func (b baselineFile) baseline() adaptive.Baseline {
	return adaptive.Baseline{Sets: b.Sets, Series: b.Series, Reps: b.Reps, LoadKg: b.LoadKg}
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func readProfile(path string) (profileFile, error) {
	var p profileFile
	if path == "" {
		return p, nil
	}
	err := readYAML(path, &p)
	return p, err
}

func readBaselines(path string) ([]baselineFile, error) {
	var b []baselineFile
	if err := readYAML(path, &b); err != nil {
		return nil, err
	}
	return b, nil
}
