package domain

import "time"

// AdminUser represents a back-office operator.
type AdminUser struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
