package shop

import "gorm.io/gorm"

// Product is a merchandise item sold in the shop
type Product struct {
	gorm.Model
	Name        string  `json:"name"`
	Description string  `json:"description" gorm:"type:text"`
	Category    string  `json:"category" gorm:"index"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int     `json:"stock" gorm:"default:0"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active" gorm:"default:false"`
}
