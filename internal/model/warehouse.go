package model

// Warehouse is a physical stock location. Events, GRNs and inventory
// configuration all reference warehouses by ID.
type Warehouse struct {
	BaseModel
	Code     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Location string `gorm:"type:varchar(255)" json:"location,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
