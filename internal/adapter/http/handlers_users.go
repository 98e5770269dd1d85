package adapthttp

import (
	"net/http"

	"contactbook/internal/app"
	"contactbook/internal/domain"
)

type userResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{Username: u.ID, Name: u.Name}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.authSvc.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newUserResponse(u))
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	u, err := s.authSvc.CurrentUser(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newUserResponse(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var in app.UpdateUserInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.authSvc.UpdateUser(r.Context(), p, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, newUserResponse(u))
}
