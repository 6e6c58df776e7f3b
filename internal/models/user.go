package models

import "time"

// User is the domain view of an account. Usage and plan information live
// directly on the user to keep the schema small.
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	APIKey          string    `json:"api_key"`
	MonthlyEdits    int       `json:"monthly_edits"`
	TotalEdits      int       `json:"total_edits"`
	PlanName        string    `json:"plan_name"`
	PlanRenewalDate *string   `json:"plan_renewal_date,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
