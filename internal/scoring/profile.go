package scoring

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var profilesFS embed.FS

// DefaultProfile is used when no profile is configured
const DefaultProfile = "full"

// Profile selects which pick categories count towards a team's score.
// Every call site scores through the same engine and differs only by profile.
type Profile struct {
	Name             string     `yaml:"name"`
	Description      string     `yaml:"description"`
	Founders         bool       `yaml:"founders"`
	Sweep            bool       `yaml:"sweep"`
	Categories       []Category `yaml:"categories"`
	StreakCategories []Category `yaml:"streak_categories"`
}

// LoadBuiltin loads a built-in profile by name
func LoadBuiltin(name string) (*Profile, error) {
	data, err := profilesFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scoring.LoadBuiltin: unknown profile %q: %w", name, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates a YAML profile
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("scoring.ParseProfile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the names of all built-in profiles
func List() ([]string, error) {
	entries, err := profilesFS.ReadDir("profiles")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks that every category is known, appears once, and that
// streak categories are a subset of the active categories
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile: name is required")
	}
	active := make(map[Category]bool, len(p.Categories))
	for _, c := range p.Categories {
		if !c.Valid() {
			return fmt.Errorf("profile %q: unknown category %q", p.Name, c)
		}
		if active[c] {
			return fmt.Errorf("profile %q: duplicate category %q", p.Name, c)
		}
		active[c] = true
	}
	seen := make(map[Category]bool, len(p.StreakCategories))
	for _, c := range p.StreakCategories {
		if !active[c] {
			return fmt.Errorf("profile %q: streak category %q is not active", p.Name, c)
		}
		if seen[c] {
			return fmt.Errorf("profile %q: duplicate streak category %q", p.Name, c)
		}
		seen[c] = true
	}
	return nil
}

// counts reports whether first place in c counts towards the streak bonus
func (p *Profile) counts(c Category) bool {
	for _, s := range p.StreakCategories {
		if s == c {
			return true
		}
	}
	return false
}
