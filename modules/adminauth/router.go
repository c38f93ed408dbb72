package adminauth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handle returns the HTTP surface of the module:
//
//	POST /auth/verify              {email, token}  -> login verification
//	POST /auth/enroll              {email}         -> mint + store a new secret
//	GET  /auth/setup                               -> super admin provisioning info
//	POST /admins/verify-super-admin {totp_code}    -> gate privileged operations
//
// Mount it under the API prefix of the host router:
//
//	r.Mount("/api", authSvc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/verify", s.handleVerify)
	r.Post("/auth/enroll", s.handleEnroll)
	r.Get("/auth/setup", s.handleSetup)
	r.Post("/admins/verify-super-admin", s.handleVerifySuperAdmin)

	return r
}

type verifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

func (s *Service) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Token == "" {
		writeError(w, http.StatusBadRequest, "email and TOTP token are required")
		return
	}

	principal, err := s.VerifyLogin(r.Context(), req.Email, req.Token)
	if err != nil {
		s.writeAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Success: true,
		Message: "authentication successful",
		Email:   principal.Email,
		Name:    principal.Name,
	})
}

type enrollRequest struct {
	Email string `json:"email"`
}

func (s *Service) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	enrollment, err := s.Enroll(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, "invalid email format")
			return
		}
		s.log.ErrorContext(r.Context(), "enrollment failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to enroll account")
		return
	}

	writeJSON(w, http.StatusOK, enrollment)
}

func (s *Service) handleSetup(w http.ResponseWriter, r *http.Request) {
	info, err := s.SetupInfo(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "failed to build setup info", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to get setup information")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type superAdminRequest struct {
	TOTPCode string `json:"totp_code"`
}

type superAdminResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

func (s *Service) handleVerifySuperAdmin(w http.ResponseWriter, r *http.Request) {
	var req superAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TOTPCode == "" {
		writeError(w, http.StatusBadRequest, "TOTP code is required")
		return
	}

	if err := s.VerifySuperAdmin(r.Context(), req.TOTPCode); err != nil {
		s.writeAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, superAdminResponse{
		Success:  true,
		Verified: true,
		Message:  "TOTP verification successful",
	})
}

// writeAuthError maps service errors to HTTP responses. ErrUnknownAccount
// and ErrInvalidCode intentionally produce byte-identical responses so the
// endpoint cannot be used to probe which emails are enrolled; logs keep the
// distinction.
func (s *Service) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidCodeFormat):
		writeError(w, http.StatusBadRequest, "TOTP token must be 6 digits")
	case errors.Is(err, ErrAccountInactive):
		writeError(w, http.StatusForbidden, "account is inactive")
	case errors.Is(err, ErrUnknownAccount), errors.Is(err, ErrInvalidCode):
		s.log.InfoContext(r.Context(), "authentication rejected", slog.Any("error", err))
		writeError(w, http.StatusUnauthorized, "authentication failed")
	default:
		s.log.ErrorContext(r.Context(), "verification failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "authentication failed")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
