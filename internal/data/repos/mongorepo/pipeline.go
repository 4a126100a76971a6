package mongorepo

import (
	"go.mongodb.org/mongo-driver/bson"

	types "github.com/yungbote/pukpuk-backend/internal/domain/demand"
)

// productsPipeline groups a user's classified records by productId. The
// category switch reuses the patterns behind types.ClassifyCategory so both
// backends classify identically.
func productsPipeline(userID string) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "userId", Value: userID},
			{Key: "productId", Value: bson.D{
				{Key: "$exists", Value: true},
				{Key: "$nin", Value: bson.A{nil, ""}},
			}},
		}}},
		// $first below must see the earliest created record, as the SQL fold does.
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$productId"},
			{Key: "name", Value: bson.D{{Key: "$first", Value: "$productName"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "lastUpdated", Value: bson.D{{Key: "$max", Value: "$date"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "id", Value: "$_id"},
			{Key: "name", Value: 1},
			{Key: "count", Value: 1},
			{Key: "lastUpdated", Value: 1},
			{Key: "unit", Value: bson.D{{Key: "$literal", Value: types.ProductUnit}}},
			{Key: "category", Value: categorySwitch("$name")},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}}}},
	}
}

func categorySwitch(field string) bson.D {
	match := func(pattern string) bson.D {
		return bson.D{{Key: "$regexMatch", Value: bson.D{
			{Key: "input", Value: field},
			{Key: "regex", Value: pattern},
			{Key: "options", Value: "i"},
		}}}
	}
	return bson.D{{Key: "$switch", Value: bson.D{
		{Key: "branches", Value: bson.A{
			bson.D{{Key: "case", Value: match(types.SpicePattern)}, {Key: "then", Value: string(types.CategorySpices)}},
			bson.D{{Key: "case", Value: match(types.GrainPattern)}, {Key: "then", Value: string(types.CategoryGrains)}},
		}},
		{Key: "default", Value: string(types.CategoryVegetables)},
	}}}
}
