package demand

import "time"

const ProductUnit = "kg"

// Product is derived from a user's records on every read and never stored.
type Product struct {
	ID       string   `bson:"id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Category Category `bson:"category" json:"category"`
	Unit     string   `bson:"unit" json:"unit"`
}

// ProductAggregate is a Product plus the statistics the grouping produced.
type ProductAggregate struct {
	Product     `bson:",inline"`
	Count       int64     `bson:"count" json:"count"`
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

type ProductSummary struct {
	ProductID      string    `json:"productId"`
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	Unit           string    `json:"unit"`
	Count          int       `json:"count"`
	TotalQuantity  float64   `json:"totalQuantity"`
	MeanQuantity   float64   `json:"meanQuantity"`
	MedianQuantity float64   `json:"medianQuantity"`
	MeanPrice      float64   `json:"meanPrice"`
	FirstDate      time.Time `json:"firstDate"`
	LastDate       time.Time `json:"lastDate"`
}
