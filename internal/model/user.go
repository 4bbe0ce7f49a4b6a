package model

import "time"

type User struct {
	ID               string    `db:"id" json:"id"`
	TelegramID       string    `db:"telegram_id" json:"telegramId"`
	TelegramUsername *string   `db:"telegram_username" json:"telegramUsername,omitempty"`
	FirstName        string    `db:"first_name" json:"firstName"`
	LastName         *string   `db:"last_name" json:"lastName,omitempty"`
	Role             Role      `db:"role" json:"role"`
	HouseholdID      string    `db:"household_id" json:"householdId"`
	HouseholdName    string    `db:"household_name" json:"householdName"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) DisplayName() string {
	if u.LastName != nil && *u.LastName != "" {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}

type Household struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type HouseholdInvite struct {
	ID          string     `db:"id" json:"id"`
	HouseholdID string     `db:"household_id" json:"householdId"`
	InviteCode  string     `db:"invite_code" json:"inviteCode"`
	CreatedBy   string     `db:"created_by" json:"createdBy"`
	UsedBy      *string    `db:"used_by" json:"usedBy,omitempty"`
	UsedAt      *time.Time `db:"used_at" json:"usedAt,omitempty"`
	ExpiresAt   time.Time  `db:"expires_at" json:"expiresAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

type CreateInviteParams struct {
	HouseholdID string
	InviteCode  string
	CreatedBy   string
	ExpiresAt   time.Time
}
