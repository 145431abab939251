package workflow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/budgetflow/backend/internal/models"
	"gopkg.in/yaml.v3"
)

var ErrTemplateWithoutStages = errors.New("an approval template needs at least one stage")

// Stage is one approval step of a template.
type Stage struct {
	Name   string   `yaml:"name"`
	Notify []string `yaml:"notify"`
}

// Template is an approval workflow applied to transactions whose code
// starts with one of its prefixes.
type Template struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
	Stages   []Stage  `yaml:"stages"`
}

// Templates holds all templates and the default one for codes that no
// template claims.
type Templates struct {
	Default   Template   `yaml:"default"`
	Templates []Template `yaml:"templates"`
}

// DefaultTemplates returns the built in templates: fund adjustments need one
// approval, everything else two.
func DefaultTemplates() Templates {
	return Templates{
		Default: Template{
			Name: "standard",
			Stages: []Stage{
				{Name: "budget-review"},
				{Name: "finance-approval"},
			},
		},
		Templates: []Template{
			{
				Name:     "fund-adjustment",
				Prefixes: []string{models.PrefixFundAdjustment},
				Stages: []Stage{
					{Name: "finance-approval"},
				},
			},
		},
	}
}

// LoadTemplates reads templates from a YAML file.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("could not read workflow templates: %w", err)
	}

	return ParseTemplates(data)
}

// ParseTemplates parses and validates YAML templates.
func ParseTemplates(data []byte) (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Templates{}, fmt.Errorf("could not parse workflow templates: %w", err)
	}

	for _, template := range append([]Template{t.Default}, t.Templates...) {
		if len(template.Stages) == 0 {
			return Templates{}, fmt.Errorf("%w: %q", ErrTemplateWithoutStages, template.Name)
		}
	}

	return t, nil
}

// ForCode returns the template for a transaction code.
func (t Templates) ForCode(code string) Template {
	prefix := models.CodePrefix(code)
	for _, template := range t.Templates {
		for _, p := range template.Prefixes {
			if strings.EqualFold(p, prefix) {
				return template
			}
		}
	}
	return t.Default
}

// Find returns the template with the given name.
func (t Templates) Find(name string) (Template, bool) {
	for _, template := range append([]Template{t.Default}, t.Templates...) {
		if template.Name == name {
			return template, true
		}
	}
	return Template{}, false
}

// Recipients returns the addresses to notify for a stage. Stage numbers
// start at 1.
func (t Template) Recipients(stage int) []string {
	if stage < 1 || stage > len(t.Stages) {
		return nil
	}
	return t.Stages[stage-1].Notify
}
