package finance

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Category is an expense bucket. The set is closed; see Categories.
type Category string

const (
	CategoryMarketing Category = "Marketing"
	CategoryMaterials Category = "Materials"
	CategoryShipping  Category = "Shipping"
	CategoryFees      Category = "Fees"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMarketing,
	CategoryMaterials,
	CategoryShipping,
	CategoryFees,
	CategoryOther,
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Labels used when asking an inference model to classify expenses.
const (
	LabelMarketing = "Marketing and Advertising"
	LabelMaterials = "Materials and Supplies"
	LabelShipping  = "Shipping and Fulfillment"
	LabelFees      = "Platform Fees"
	LabelOther     = "Other Business Expenses"
)

// InferenceLabels is the fixed label list offered to the inference model.
var InferenceLabels = []string{
	LabelMarketing,
	LabelMaterials,
	LabelShipping,
	LabelFees,
	LabelOther,
}

var labelCategories = map[string]Category{
	strings.ToLower(LabelMarketing): CategoryMarketing,
	strings.ToLower(LabelMaterials): CategoryMaterials,
	strings.ToLower(LabelShipping):  CategoryShipping,
	strings.ToLower(LabelFees):      CategoryFees,
	strings.ToLower(LabelOther):     CategoryOther,
}

// CategoryForLabel maps an inference label (case-insensitive) to its category.
func CategoryForLabel(label string) (Category, bool) {
	c, ok := labelCategories[strings.ToLower(strings.TrimSpace(label))]
	return c, ok
}

// Categorizer assigns a category to a counted cost row.
type Categorizer interface {
	Categorize(rec RawRecord) Category
}

// FixedCategorizer puts every row in the same category.
type FixedCategorizer struct {
	Category Category
}

// Categorize implements Categorizer.
func (f FixedCategorizer) Categorize(RawRecord) Category {
	return f.Category
}

// MaterialsCategorizer is the default strategy for supplier purchases.
func MaterialsCategorizer() Categorizer {
	return FixedCategorizer{Category: CategoryMaterials}
}

// KeywordRule maps any of its keywords to a category.
type KeywordRule struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// KeywordRules is the on-disk form of a keyword categorizer.
type KeywordRules struct {
	Fields []string      `yaml:"fields"`
	Rules  []KeywordRule `yaml:"rules"`
}

// DefaultKeywordRules returns the built-in rule set. Rules are checked in
// order and the first match wins.
func DefaultKeywordRules() KeywordRules {
	return KeywordRules{
		Fields: []string{ColType, ColInfo, ColTitle, ColProductTitle, ColShopName},
		Rules: []KeywordRule{
			{Category: CategoryMarketing, Keywords: []string{"market", "advert", "promo"}},
			{Category: CategoryMaterials, Keywords: []string{"material", "supply", "product"}},
			{Category: CategoryShipping, Keywords: []string{"ship", "fulfil", "deliver"}},
			{Category: CategoryFees, Keywords: []string{"fee", "tax", "commission"}},
		},
	}
}

// LoadKeywordRules reads a YAML rule file.
func LoadKeywordRules(path string) (KeywordRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordRules{}, fmt.Errorf("read keyword rules: %w", err)
	}
	var rules KeywordRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return KeywordRules{}, fmt.Errorf("parse keyword rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return KeywordRules{}, err
	}
	if len(rules.Fields) == 0 {
		rules.Fields = DefaultKeywordRules().Fields
	}
	return rules, nil
}

// Validate rejects rules that point outside the closed category set.
func (k KeywordRules) Validate() error {
	for i, r := range k.Rules {
		if !r.Category.Valid() {
			return fmt.Errorf("rule %d: unknown category %q", i, r.Category)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("rule %d: no keywords for %s", i, r.Category)
		}
	}
	return nil
}

// KeywordCategorizer matches lower-cased keywords against selected text
// columns. Rows matching nothing fall into Other.
type KeywordCategorizer struct {
	fields []string
	rules  []KeywordRule
}

// NewKeywordCategorizer builds a categorizer from a rule set.
func NewKeywordCategorizer(rules KeywordRules) *KeywordCategorizer {
	kc := &KeywordCategorizer{fields: rules.Fields}
	for _, r := range rules.Rules {
		lowered := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				lowered = append(lowered, kw)
			}
		}
		kc.rules = append(kc.rules, KeywordRule{Category: r.Category, Keywords: lowered})
	}
	return kc
}

// Categorize implements Categorizer.
func (k *KeywordCategorizer) Categorize(rec RawRecord) Category {
	parts := make([]string, 0, len(k.fields))
	for _, f := range k.fields {
		if s := rec.Text(f); s != "" {
			parts = append(parts, s)
		}
	}
	return k.CategorizeText(strings.Join(parts, " "))
}

// CategorizeText classifies free text directly.
func (k *KeywordCategorizer) CategorizeText(text string) Category {
	lowered := strings.ToLower(text)
	for _, r := range k.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, kw) {
				return r.Category
			}
		}
	}
	return CategoryOther
}

// LookupCategorizer resolves categories from a precomputed description index,
// typically filled by a remote classifier, and defers to Fallback on a miss.
type LookupCategorizer struct {
	Describe func(RawRecord) string
	Index    map[string]Category
	Fallback Categorizer
}

// Categorize implements Categorizer.
func (l LookupCategorizer) Categorize(rec RawRecord) Category {
	if l.Describe != nil {
		if c, ok := l.Index[l.Describe(rec)]; ok && c.Valid() {
			return c
		}
	}
	if l.Fallback != nil {
		return l.Fallback.Categorize(rec)
	}
	return CategoryOther
}

// CostDescription is the text used to identify a supplier purchase.
func CostDescription(rec RawRecord) string {
	title := rec.Text(ColProductTitle)
	if title == "" {
		title = rec.Text("Product Title")
	}
	return title
}
