package shop

import "gorm.io/gorm"

// Cart is the single shopping cart of a user
type Cart struct {
	gorm.Model
	UserID uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Items  []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

// CartItem holds a product and a positive quantity. Items whose quantity
// drops to zero are deleted.
type CartItem struct {
	gorm.Model
	CartID    uint     `json:"cart_id" gorm:"index:idx_cart_product,unique;not null"`
	ProductID uint     `json:"product_id" gorm:"index:idx_cart_product,unique;not null"`
	Quantity  int      `json:"quantity" gorm:"not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
