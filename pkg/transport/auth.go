package transport

import (
	"errors"
	"net/http"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/auth"
	"github.com/cognicase/cognicase/pkg/storage"
)

type requestOTPPayload struct {
	Email string `json:"email"`
}

func (rt *Router) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var p requestOTPPayload
	if err := decodeJSON(r, &p); err != nil || p.Email == "" {
		writeAuthError(w, http.StatusBadRequest, "Email is required.")
		return
	}

	if err := rt.auth.RequestCode(r.Context(), p.Email); err != nil {
		rt.logger.Error("requesting verification code", "error", err)
		writeAuthError(w, http.StatusInternalServerError,
			"Failed to send verification code. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent to your email.",
	})
}

type verifyOTPPayload struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (rt *Router) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var p verifyOTPPayload
	if err := decodeJSON(r, &p); err != nil || p.Email == "" || p.OTP == "" {
		writeAuthError(w, http.StatusBadRequest, "Email and verification code are required.")
		return
	}

	user, token, err := rt.auth.VerifyCode(r.Context(), p.Email, p.OTP)
	switch {
	case errors.Is(err, auth.ErrNoAccount):
		writeAuthError(w, http.StatusBadRequest, "No account found with this email.")
		return
	case errors.Is(err, auth.ErrIncorrectCode):
		writeAuthError(w, http.StatusBadRequest, "Incorrect verification code.")
		return
	case errors.Is(err, auth.ErrCodeExpired):
		writeAuthError(w, http.StatusBadRequest, "Verification code has expired. Please request a new one.")
		return
	case err != nil:
		rt.logger.Error("verifying code", "error", err)
		writeAuthError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"token":   token,
		"message": "OTP verified successfully.",
	})
}

type onboardingPayload struct {
	Name            string   `json:"name"`
	Role            api.Role `json:"role"`
	Organization    string   `json:"organization"`
	PracticeArea    string   `json:"practiceArea"`
	ExperienceYears string   `json:"experienceYears"`
}

func (rt *Router) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var p onboardingPayload
	if err := decodeJSON(r, &p); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if p.Role != "" && !p.Role.Valid() {
		writeAuthError(w, http.StatusBadRequest, "Invalid role.")
		return
	}

	identity := auth.IdentityFromContext(r.Context())

	user, err := rt.auth.CompleteOnboarding(r.Context(), identity.ID, auth.Profile{
		Name:            p.Name,
		Role:            p.Role,
		Organization:    p.Organization,
		PracticeArea:    p.PracticeArea,
		ExperienceYears: p.ExperienceYears,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeAuthError(w, http.StatusNotFound, "User not found.")
			return
		}
		rt.logger.Error("completing onboarding", "error", err)
		writeAuthError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Onboarding completed successfully.",
		"user":    user,
	})
}
