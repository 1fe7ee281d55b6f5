package models

import (
	"gorm.io/gorm"
)

// User is provisioned by the external auth provider. The backend only reads
// it for ownership checks, names on certificates and notification emails.
type User struct {
	gorm.Model
	Name    string `json:"name" gorm:"default:''"`
	Email   string `json:"email" gorm:"uniqueIndex;not null"`
	Phone   string `json:"phone" gorm:"default:''"`
	IsAdmin bool   `json:"is_admin" gorm:"default:false"`
}

// Identity is the authenticated caller of a request, as asserted by the
// auth provider's token.
type Identity struct {
	UserID  uint
	IsAdmin bool
}

// CanAccess reports whether the caller may act on a record owned by ownerID.
func (i Identity) CanAccess(ownerID uint) bool {
	return i.IsAdmin || i.UserID == ownerID
}
