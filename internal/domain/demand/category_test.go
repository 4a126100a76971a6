package demand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"Garlic", CategorySpices},
		{"red CHILLI powder", CategorySpices},
		{"Rice", CategoryGrains},
		{"whole wheat flour", CategoryGrains},
		{"Tomato", CategoryVegetables},
		{"", CategoryVegetables},
		// spice rule has priority over grain rule
		{"Pepper Rice", CategorySpices},
		{"Rice with ginger", CategorySpices},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyCategory(tc.name))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, CategorySpices, ClassifyCategory("Cumin Millet"))
	}
}

func TestProductKey(t *testing.T) {
	blank := "  "
	id := " p1 "
	assert.Equal(t, "", (&Record{}).ProductKey())
	assert.Equal(t, "", (&Record{ProductID: &blank}).ProductKey())
	assert.Equal(t, "p1", (&Record{ProductID: &id}).ProductKey())
	var nilRec *Record
	assert.Equal(t, "", nilRec.ProductKey())
}
