package demand

import "time"

// KeyProductsUpdated marks the last change to demand data that derived product
// views depend on.
const KeyProductsUpdated = "products_updated"

type Metadata struct {
	Key       string    `gorm:"column:key;type:varchar(128);primaryKey" bson:"_id" json:"key"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" bson:"updatedAt" json:"updatedAt"`
}

func (Metadata) TableName() string { return "metadata" }
