package mongorepo

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
)

func stage(t *testing.T, p bson.A, i int) (string, bson.D) {
	t.Helper()
	d, ok := p[i].(bson.D)
	require.True(t, ok)
	require.Len(t, d, 1)
	body, ok := d[0].Value.(bson.D)
	require.True(t, ok)
	return d[0].Key, body
}

func TestProductsPipelineStages(t *testing.T) {
	p := productsPipeline("u1")
	require.Len(t, p, 5)

	var keys []string
	for i := range p {
		k, _ := stage(t, p, i)
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"$match", "$sort", "$group", "$project", "$sort"}, keys)

	_, match := stage(t, p, 0)
	assert.Equal(t, "u1", match.Map()["userId"])
	pid := match.Map()["productId"].(bson.D).Map()
	assert.Equal(t, true, pid["$exists"])
	assert.Equal(t, bson.A{nil, ""}, pid["$nin"])

	_, firstSeen := stage(t, p, 1)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, firstSeen)

	_, group := stage(t, p, 2)
	assert.Equal(t, "$productId", group.Map()["_id"])

	_, sortStage := stage(t, p, 4)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, sortStage)
}

func TestCategorySwitchMatchesClassifier(t *testing.T) {
	sw := categorySwitch("$name").Map()["$switch"].(bson.D).Map()
	branches := sw["branches"].(bson.A)
	require.Len(t, branches, 2)
	assert.Equal(t, string(types.CategoryVegetables), sw["default"])

	// Evaluate the branches the way the server would, in order.
	classify := func(name string) string {
		for _, b := range branches {
			bm := b.(bson.D).Map()
			rm := bm["case"].(bson.D).Map()["$regexMatch"].(bson.D).Map()
			require.Equal(t, "i", rm["options"])
			if regexp.MustCompile("(?i)" + rm["regex"].(string)).MatchString(name) {
				return bm["then"].(string)
			}
		}
		return sw["default"].(string)
	}

	for _, name := range []string{"Garlic", "Red Chilli", "Basmati Rice", "Ginger rice mix", "Tomato", "CORN flour", ""} {
		assert.Equal(t, string(types.ClassifyCategory(name)), classify(name), name)
	}
}
