package content

import "strings"

// DefaultDifficulty is used for examples that do not state one.
const DefaultDifficulty = "Intermediate"

// AllCategories selects every example in Filter.
const AllCategories = "all"

// Example is one card of the examples gallery.
type Example struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Features    []string `yaml:"features" json:"features"`
	Href        string   `yaml:"href" json:"href"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
	New         bool     `yaml:"new" json:"new,omitempty"`
	Popular     bool     `yaml:"popular" json:"popular,omitempty"`
}

// Category is a gallery tab.
type Category struct {
	Slug  string `yaml:"slug" json:"slug"`
	Label string `yaml:"label" json:"label"`
}

// Catalog is the examples gallery of one locale.
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Examples   []Example  `yaml:"examples"`
}

// Filter returns the examples whose title, description or any feature
// contains query (case-insensitive), restricted to category unless it is
// empty or AllCategories.
func (c *Catalog) Filter(query, category string) []Example {
	q := strings.ToLower(strings.TrimSpace(query))
	cat := strings.ToLower(strings.TrimSpace(category))

	var out []Example
	for _, ex := range c.Examples {
		if !ex.matches(q) {
			continue
		}
		if cat != "" && cat != AllCategories && !strings.Contains(strings.ToLower(ex.Category), cat) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func (ex Example) matches(q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(ex.Title), q) || strings.Contains(strings.ToLower(ex.Description), q) {
		return true
	}
	for _, f := range ex.Features {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Featured returns the examples flagged new or popular.
func (c *Catalog) Featured() []Example {
	var out []Example
	for _, ex := range c.Examples {
		if ex.New || ex.Popular {
			out = append(out, ex)
		}
	}
	return out
}

// CategoryLabel returns the display label of slug, or slug itself.
func (c *Catalog) CategoryLabel(slug string) string {
	for _, cat := range c.Categories {
		if cat.Slug == slug {
			return cat.Label
		}
	}
	return slug
}
