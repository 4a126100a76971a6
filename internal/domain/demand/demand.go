package demand

import (
	"strings"
	"time"
)

const DefaultUnit = "kg"

// Record is one logged sales observation. It is stored as-is in the demands
// collection (Mongo) or table (SQL).
type Record struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	Date        time.Time `gorm:"column:date;not null;index:idx_demands_user_date,priority:2" bson:"date" json:"date"`
	ProductName string    `gorm:"column:product_name;type:text;not null" bson:"productName" json:"productName"`
	ProductID   *string   `gorm:"column:product_id;type:varchar(128);index:idx_demands_user_product,priority:2" bson:"productId,omitempty" json:"productId,omitempty"`
	Quantity    float64   `gorm:"column:quantity;not null" bson:"quantity" json:"quantity"`
	Price       float64   `gorm:"column:price;not null" bson:"price" json:"price"`
	Unit        string    `gorm:"column:unit;type:varchar(32);not null;default:'kg'" bson:"unit" json:"unit"`
	UserID      string    `gorm:"column:user_id;type:varchar(128);index:idx_demands_user_date,priority:1;index:idx_demands_user_product,priority:1" bson:"userId" json:"userId"`

	CreatedAt time.Time `gorm:"column:created_at;not null" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" bson:"updatedAt" json:"updatedAt"`
}

func (Record) TableName() string { return "demands" }

// ProductKey returns the grouping key, or "" for unclassified records.
func (r *Record) ProductKey() string {
	if r == nil || r.ProductID == nil {
		return ""
	}
	return strings.TrimSpace(*r.ProductID)
}

// Input is the client-writable part of a Record.
type Input struct {
	Date        string   `json:"date"`
	ProductName string   `json:"productName"`
	ProductID   *string  `json:"productId"`
	Quantity    *float64 `json:"quantity"`
	Price       *float64 `json:"price"`
	Unit        string   `json:"unit"`
}
