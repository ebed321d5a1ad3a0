package model

import "time"

// AuthToken maps an opaque API token to a user. Token issuance happens
// outside this service, the middleware only resolves keys to identities.
type AuthToken struct {
	Key       string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time
}
