package demand

import (
	"regexp"
	"strings"
)

type Category string

const (
	CategorySpices     Category = "Spices"
	CategoryGrains     Category = "Grains"
	CategoryVegetables Category = "Vegetables"
)

var (
	spiceTerms = []string{
		"garlic", "ginger", "chil+i", "pepper", "turmeric", "cumin", "coriander", "cardamom",
		"clove", "cinnamon", "nutmeg", "saffron", "masala", "spice", "fenugreek", "mustard",
		"fennel", "anise", "paprika", "bay leaf",
	}
	grainTerms = []string{
		"rice", "wheat", "maize", "corn", "barley", "millet", "sorghum", "oat", "rye",
		"quinoa", "grain", "flour", "buckwheat", "teff",
	}

	// SpicePattern and GrainPattern are shared with the Mongo aggregation, which
	// applies them with the "i" option.
	SpicePattern = strings.Join(spiceTerms, "|")
	GrainPattern = strings.Join(grainTerms, "|")

	spiceRe = regexp.MustCompile("(?i)" + SpicePattern)
	grainRe = regexp.MustCompile("(?i)" + GrainPattern)
)

// ClassifyCategory infers a category from a product name. Spice terms win over
// grain terms; anything else falls back to Vegetables.
func ClassifyCategory(name string) Category {
	switch {
	case spiceRe.MatchString(name):
		return CategorySpices
	case grainRe.MatchString(name):
		return CategoryGrains
	default:
		return CategoryVegetables
	}
}
