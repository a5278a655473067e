package domain

// Tag Model, immutable reference data ordered by name
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null" json:"name"`
	Color string `gorm:"size:16;not null" json:"color"` // Hex color, e.g. #E26C2D
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient Model, the same (name, unit) pair may repeat
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}
