package adapthttp

import (
	"net/http"

	"contactbook/internal/app"
	"contactbook/internal/domain"
)

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var in app.AddressInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.addresses.Create(r.Context(), p, r.PathValue("contactId"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	list, err := s.addresses.List(r.Context(), p, r.PathValue("contactId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	a, err := s.addresses.Get(r.Context(), p, r.PathValue("contactId"), r.PathValue("addressId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var in app.AddressInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.addresses.Update(r.Context(), p, r.PathValue("contactId"), r.PathValue("addressId"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	if err := s.addresses.Delete(r.Context(), p, r.PathValue("contactId"), r.PathValue("addressId")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "OK")
}
