package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserDB struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	Email           string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash    string    `bun:"password_hash,notnull" json:"-"`
	APIKey          string    `bun:"api_key,notnull,unique" json:"api_key"`
	MonthlyEdits    int       `bun:"monthly_edits,notnull,default:0" json:"monthly_edits"`
	TotalEdits      int       `bun:"total_edits,notnull,default:0" json:"total_edits"`
	PlanName        string    `bun:"plan_name,notnull,default:'Free'" json:"plan_name"`
	PlanRenewalDate *string   `bun:"plan_renewal_date" json:"plan_renewal_date,omitempty"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (u *UserDB) ToUser() *User {
	return &User{
		ID:              u.ID,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		APIKey:          u.APIKey,
		MonthlyEdits:    u.MonthlyEdits,
		TotalEdits:      u.TotalEdits,
		PlanName:        u.PlanName,
		PlanRenewalDate: u.PlanRenewalDate,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func UserFromDomain(user *User) *UserDB {
	return &UserDB{
		ID:              user.ID,
		Email:           user.Email,
		PasswordHash:    user.PasswordHash,
		APIKey:          user.APIKey,
		MonthlyEdits:    user.MonthlyEdits,
		TotalEdits:      user.TotalEdits,
		PlanName:        user.PlanName,
		PlanRenewalDate: user.PlanRenewalDate,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
