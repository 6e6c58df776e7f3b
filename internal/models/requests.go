package models

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type APIKeyResponse struct {
	APIKey string `json:"apiKey"`
}

type PlanInfo struct {
	Name        string  `json:"name"`
	RenewalDate *string `json:"renewalDate"`
}

type UsageResponse struct {
	MonthlyEdits int      `json:"monthlyEdits"`
	TotalEdits   int      `json:"totalEdits"`
	Plan         PlanInfo `json:"plan"`
}

type ProfileResponse struct {
	Email        string `json:"email"`
	APIKey       string `json:"api_key"`
	MonthlyEdits int    `json:"monthly_edits"`
	TotalEdits   int    `json:"total_edits"`
	PlanName     string `json:"plan_name"`
}

// DynamicRunRequest selects a caller-supplied sheet instead of the
// statically configured one.
type DynamicRunRequest struct {
	SheetID   string `json:"sheet_id"`
	SheetName string `json:"sheet_name,omitempty"`
}

type RunResponse struct {
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	RunID     string `json:"run_id,omitempty"`
	SheetID   string `json:"sheet_id,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
}
