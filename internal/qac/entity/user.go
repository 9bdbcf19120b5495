package entity

import "time"

// User roles.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleInspector  = "inspector"
)

// User is a login account.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	FullName     string     `json:"full_name" gorm:"size:128"`
	Role         string     `json:"role" gorm:"size:32;not null;default:inspector"`
	IsActive     bool       `json:"is_active" gorm:"not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "qac_users"
}

// ActivityLog is a fire-and-forget audit trail event.
type ActivityLog struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	UserID      string    `json:"user_id" gorm:"size:32;index"`
	UserName    string    `json:"user_name" gorm:"size:64"`
	Action      string    `json:"action" gorm:"size:64;not null"`
	Details     string    `json:"details" gorm:"type:text"`
	TargetTable string    `json:"target_table" gorm:"size:64"`
	TargetID    string    `json:"target_id" gorm:"size:32"`
	IP          string    `json:"ip" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "qac_activity_logs"
}
