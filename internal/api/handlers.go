package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/imagemodify/imagemodify/internal/auth"
	"github.com/imagemodify/imagemodify/internal/models"
	"github.com/imagemodify/imagemodify/internal/user"
)

const (
	invalidRequestMessage     = "Invalid request"
	invalidCredentialsMessage = "Invalid credentials"
	passwordMismatchMessage   = "Passwords do not match"
	duplicateUserMessage      = "User already exists"
	missingCodeMessage        = "Missing Google code"
	googleExchangeMessage     = "Google token exchange failed"
	automationFailedMessage   = "Automation server failed"
)

// GoogleExchanger is the OAuth code-for-email exchange.
type GoogleExchanger interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
}

type Handler struct {
	repo        user.Repository
	tokens      *auth.TokenIssuer
	google      GoogleExchanger
	automation  AutomationTrigger
	frontendURL string
}

func NewHandler(repo user.Repository, tokens *auth.TokenIssuer, google GoogleExchanger, automation AutomationTrigger, frontendURL string) *Handler {
	return &Handler{
		repo:        repo,
		tokens:      tokens,
		google:      google,
		automation:  automation,
		frontendURL: frontendURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// Signup creates an account and returns a bearer token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, invalidRequestMessage, http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, invalidRequestMessage, http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		http.Error(w, passwordMismatchMessage, http.StatusBadRequest)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	if _, err := h.repo.Create(r.Context(), req.Email, passwordHash); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			http.Error(w, duplicateUserMessage, http.StatusBadRequest)
			return
		}
		log.Printf("Failed to create user: %v", err)
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Login validates credentials and returns a bearer token. The response
// never reveals which of email or password was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, invalidRequestMessage, http.StatusBadRequest)
		return
	}

	account, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, invalidCredentialsMessage, http.StatusUnauthorized)
		return
	}

	match, err := auth.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil || !match {
		http.Error(w, invalidCredentialsMessage, http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(account.Email)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// GoogleLogin redirects to Google's consent screen.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.google.AuthURL("login"), http.StatusSeeOther)
}

// GoogleCallback exchanges the authorization code, provisions the account
// on first sign-in and redirects back to the frontend with a token.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, missingCodeMessage, http.StatusBadRequest)
		return
	}

	email, err := h.google.ExchangeCode(r.Context(), code)
	if err != nil {
		log.Printf("Google code exchange failed: %v", err)
		http.Error(w, googleExchangeMessage, http.StatusBadRequest)
		return
	}

	if _, err := h.repo.GetOrCreateByEmail(r.Context(), email); err != nil {
		log.Printf("Failed to provision Google user: %v", err)
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(email)
	if err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	redirect := h.frontendURL + "/login?token=" + url.QueryEscape(token)
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) GetAPIKey(w http.ResponseWriter, r *http.Request) {
	account, ok := GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, models.APIKeyResponse{APIKey: account.APIKey})
}

func (h *Handler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	account, ok := GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	newKey, err := h.repo.RegenerateAPIKey(r.Context(), account.Email)
	if err != nil {
		log.Printf("Failed to regenerate api key: %v", err)
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.APIKeyResponse{APIKey: newKey})
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	account, ok := GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, models.UsageResponse{
		MonthlyEdits: account.MonthlyEdits,
		TotalEdits:   account.TotalEdits,
		Plan: models.PlanInfo{
			Name:        account.PlanName,
			RenewalDate: account.PlanRenewalDate,
		},
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	account, ok := GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, models.ProfileResponse{
		Email:        account.Email,
		APIKey:       account.APIKey,
		MonthlyEdits: account.MonthlyEdits,
		TotalEdits:   account.TotalEdits,
		PlanName:     account.PlanName,
	})
}

// RunAutomation triggers a static-mode batch with the user's API key.
// Usage is incremented only after a successful trigger.
func (h *Handler) RunAutomation(w http.ResponseWriter, r *http.Request) {
	account, ok := GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	if err := h.automation.Trigger(r.Context(), account.APIKey); err != nil {
		log.Printf("Automation trigger failed: %v", err)
		http.Error(w, automationFailedMessage, http.StatusBadGateway)
		return
	}

	if err := h.repo.IncrementUsage(r.Context(), account.Email, 1); err != nil {
		log.Printf("Failed to increment usage for %s: %v", account.Email, err)
	}

	writeJSON(w, http.StatusOK, models.RunResponse{Status: "started", Mode: "static"})
}

// RunAutomationDynamic triggers a batch against a caller-supplied sheet.
func (h *Handler) RunAutomationDynamic(w http.ResponseWriter, r *http.Request) {
	account, ok := GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
		return
	}

	var req models.DynamicRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, invalidRequestMessage, http.StatusBadRequest)
		return
	}
	if req.SheetID == "" {
		http.Error(w, invalidRequestMessage, http.StatusBadRequest)
		return
	}

	if err := h.automation.TriggerDynamic(r.Context(), account.APIKey, req.SheetID, req.SheetName); err != nil {
		log.Printf("Automation trigger failed: %v", err)
		http.Error(w, automationFailedMessage, http.StatusBadGateway)
		return
	}

	if err := h.repo.IncrementUsage(r.Context(), account.Email, 1); err != nil {
		log.Printf("Failed to increment usage for %s: %v", account.Email, err)
	}

	writeJSON(w, http.StatusOK, models.RunResponse{
		Status:    "started",
		Mode:      "dynamic",
		SheetID:   req.SheetID,
		SheetName: req.SheetName,
	})
}
