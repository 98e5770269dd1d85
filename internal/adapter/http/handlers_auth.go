// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"contactbook/internal/app"
	"contactbook/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
)

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiredAt int64  `json:"expiredAt"`
}

func newTokenResponse(sess domain.Session) tokenResponse {
	return tokenResponse{Token: sess.Token, ExpiredAt: sess.ExpiresAt.UnixMilli()}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.authSvc.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newTokenResponse(sess))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	if err := s.authSvc.Logout(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "OK")
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"ssoEnabled": s.oidcConfig.Enabled,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeFailure(w, http.StatusNotFound, "sso disabled")
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/api/auth/sso",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidcConfig.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

// handleSSOCallback finishes the OIDC code flow and answers with the same
// token payload as a password login.
func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeFailure(w, http.StatusNotFound, "sso disabled")
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		writeFailure(w, http.StatusBadRequest, "invalid state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/api/auth/sso"})

	token, err := s.oidcConfig.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.logger.WarnContext(r.Context(), "sso code exchange failed", "error", err)
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	idToken, err := s.oidcConfig.Provider.Verifier(&oidc.Config{ClientID: s.oidcConfig.OAuth2Config.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		s.logger.WarnContext(r.Context(), "sso id token rejected", "error", err)
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var claims ssoClaims
	if err = idToken.Claims(&claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.authSvc.LoginWithUser(r.Context(), claims.username())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newTokenResponse(sess))
}

type ssoClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// username maps an identity onto a local account. Only a verified email is
// trusted as a username; anything else is namespaced by subject so it cannot
// collide with a self-registered name.
func (c ssoClaims) username() string {
	if c.Email != "" && c.EmailVerified {
		return c.Email
	}
	if c.Sub == "" {
		return ""
	}
	return "oidc:" + c.Sub
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
