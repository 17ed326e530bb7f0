package property

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

type Building struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"size:150;not null" json:"name"`
	Address     string                      `gorm:"size:255;not null" json:"address"`
	TotalFloors int                         `gorm:"not null" json:"totalFloors"`
	TotalFlats  int                         `gorm:"not null" json:"totalFlats"`
	Facilities  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"facilities"`
	ManagerID   uint                        `gorm:"not null;index" json:"managerId"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

type Flat struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	BuildingID         uint                        `gorm:"not null;uniqueIndex:idx_flats_building_number;index:idx_flats_building_status,priority:1" json:"buildingId"`
	Building           *Building                   `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	FlatNumber         string                      `gorm:"size:20;not null;uniqueIndex:idx_flats_building_number" json:"flatNumber"`
	FlatType           string                      `gorm:"size:20;not null;default:'family'" json:"flatType"`
	Floor              int                         `gorm:"not null" json:"floor"`
	Area               float64                     `gorm:"not null" json:"area"`
	Bedrooms           int                         `gorm:"not null" json:"bedrooms"`
	Bathrooms          int                         `gorm:"not null" json:"bathrooms"`
	Washrooms          int                         `gorm:"not null" json:"washrooms"`
	Balconies          int                         `gorm:"not null;default:0" json:"balconies"`
	Kitchens           int                         `gorm:"not null;default:1" json:"kitchens"`
	Orientation        string                      `gorm:"size:20;not null;default:'east'" json:"orientation"`
	Rent               float64                     `gorm:"not null;index" json:"rent"`
	Status             string                      `gorm:"size:20;not null;default:'available';index;index:idx_flats_building_status,priority:2" json:"status"`
	CurrentTenantID    *uint                       `gorm:"index" json:"currentTenantId"`
	OwnerID            *uint                       `gorm:"index" json:"ownerId"`
	DefaultMaintenance float64                     `gorm:"not null;default:0" json:"defaultMaintenance"`
	DefaultCleaning    float64                     `gorm:"not null;default:0" json:"defaultCleaning"`
	DefaultGarbage     float64                     `gorm:"not null;default:0" json:"defaultGarbage"`
	Amenities          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"amenities"`
	Images             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	Description        string                      `gorm:"type:text" json:"description"`
	CreatedAt          time.Time                   `json:"createdAt"`
	UpdatedAt          time.Time                   `json:"updatedAt"`
}

type FlatFilter struct {
	Status     string
	MinRent    *float64
	MaxRent    *float64
	Bedrooms   *int
	BuildingID *uint
}

// ===============================
// Request DTOs
// ===============================

type BuildingInput struct {
	Name        string   `json:"name" binding:"required,max=150"`
	Address     string   `json:"address" binding:"required,max=255"`
	TotalFloors int      `json:"totalFloors" binding:"required,gte=1"`
	TotalFlats  int      `json:"totalFlats" binding:"required,gte=1"`
	Facilities  []string `json:"facilities"`
}

type FlatInput struct {
	BuildingID         uint     `json:"buildingId" binding:"required"`
	FlatNumber         string   `json:"flatNumber" binding:"required,max=20"`
	FlatType           string   `json:"flatType" binding:"omitempty,oneof=bachelor family"`
	Floor              int      `json:"floor" binding:"gte=0"`
	Area               float64  `json:"area" binding:"required,gte=1"`
	Bedrooms           int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms          int      `json:"bathrooms" binding:"gte=0"`
	Washrooms          *int     `json:"washrooms" binding:"omitempty,gte=0"`
	Balconies          int      `json:"balconies" binding:"gte=0"`
	Kitchens           *int     `json:"kitchens" binding:"omitempty,gte=0"`
	Orientation        string   `json:"orientation" binding:"omitempty,oneof=north south east west northeast northwest southeast southwest"`
	Rent               float64  `json:"rent" binding:"gte=0"`
	Status             string   `json:"status" binding:"omitempty,oneof=available occupied maintenance"`
	OwnerID            *uint    `json:"ownerId"`
	DefaultMaintenance float64  `json:"defaultMaintenance" binding:"gte=0"`
	DefaultCleaning    float64  `json:"defaultCleaning" binding:"gte=0"`
	DefaultGarbage     float64  `json:"defaultGarbage" binding:"gte=0"`
	Amenities          []string `json:"amenities"`
	Images             []string `json:"images"`
	Description        string   `json:"description"`
}

// FlatUpdate patches only the fields that are present.
type FlatUpdate struct {
	FlatNumber         *string   `json:"flatNumber" binding:"omitempty,max=20"`
	FlatType           *string   `json:"flatType" binding:"omitempty,oneof=bachelor family"`
	Floor              *int      `json:"floor" binding:"omitempty,gte=0"`
	Area               *float64  `json:"area" binding:"omitempty,gte=1"`
	Bedrooms           *int      `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms          *int      `json:"bathrooms" binding:"omitempty,gte=0"`
	Washrooms          *int      `json:"washrooms" binding:"omitempty,gte=0"`
	Balconies          *int      `json:"balconies" binding:"omitempty,gte=0"`
	Kitchens           *int      `json:"kitchens" binding:"omitempty,gte=0"`
	Orientation        *string   `json:"orientation" binding:"omitempty,oneof=north south east west northeast northwest southeast southwest"`
	Rent               *float64  `json:"rent" binding:"omitempty,gte=0"`
	Status             *string   `json:"status" binding:"omitempty,oneof=available occupied maintenance"`
	OwnerID            *uint     `json:"ownerId"`
	DefaultMaintenance *float64  `json:"defaultMaintenance" binding:"omitempty,gte=0"`
	DefaultCleaning    *float64  `json:"defaultCleaning" binding:"omitempty,gte=0"`
	DefaultGarbage     *float64  `json:"defaultGarbage" binding:"omitempty,gte=0"`
	Amenities          *[]string `json:"amenities"`
	Images             *[]string `json:"images"`
	Description        *string   `json:"description"`
}

// FareInput is the subset of flat pricing an owner may change.
type FareInput struct {
	Rent               *float64 `json:"rent" binding:"omitempty,gte=0"`
	DefaultMaintenance *float64 `json:"defaultMaintenance" binding:"omitempty,gte=0"`
	DefaultCleaning    *float64 `json:"defaultCleaning" binding:"omitempty,gte=0"`
	DefaultGarbage     *float64 `json:"defaultGarbage" binding:"omitempty,gte=0"`
}
