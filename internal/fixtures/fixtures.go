// Package fixtures loads the static test data shared by the e2e tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/backoffice-qa/backoffice-e2e/internal/ordering"
)

// Annotation is the expected label and link of an annotated form field.
type Annotation struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Countries struct {
	Total         int                   `yaml:"total"`
	OrderingRules []ordering.Rule       `yaml:"ordering_rules"`
	Annotations   map[string]Annotation `yaml:"annotations"`
}

type Geozones struct {
	// Countries are the ISO codes given to generated geozones.
	Countries []string `yaml:"countries"`
}

type Products struct {
	// Images are file names under the images directory.
	Images []string `yaml:"images"`
	// ProcessedSize is the square size the back office resizes uploaded
	// images to.
	ProcessedSize int `yaml:"processed_size"`
}

// Data is the content of fixtures.yaml.
type Data struct {
	Countries Countries `yaml:"countries"`
	Geozones  Geozones  `yaml:"geozones"`
	Products  Products  `yaml:"products"`

	imagesDir string
}

// Load reads fixtures from path; image names resolve against imagesDir.
func Load(path, imagesDir string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	d.imagesDir = imagesDir
	return d, nil
}

// Parse decodes fixtures and checks the values tests rely on.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if d.Countries.Total <= 0 {
		return nil, fmt.Errorf("countries.total must be positive")
	}
	for i, r := range d.Countries.OrderingRules {
		if r.From == "" || r.To == "" {
			return nil, fmt.Errorf("countries.ordering_rules[%d] needs both from and to", i)
		}
	}
	if d.Products.ProcessedSize == 0 {
		d.Products.ProcessedSize = 480
	}
	return &d, nil
}

// ImagePaths returns the product images as paths.
func (d *Data) ImagePaths() []string {
	out := make([]string, len(d.Products.Images))
	for i, img := range d.Products.Images {
		out[i] = filepath.Join(d.imagesDir, img)
	}
	return out
}

// AnnotatedFields returns the annotated input names in stable order.
func (d *Data) AnnotatedFields() []string {
	names := make([]string, 0, len(d.Countries.Annotations))
	for name := range d.Countries.Annotations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
