package adapthttp

import (
	"net/http"

	"contactbook/internal/app"
	"contactbook/internal/domain"
)

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var in app.ContactInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.contacts.Create(r.Context(), p, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	c, err := s.contacts.Get(r.Context(), p, r.PathValue("contactId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var in app.ContactInput
	if err := parseJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.contacts.Update(r.Context(), p, r.PathValue("contactId"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	if err := s.contacts.Delete(r.Context(), p, r.PathValue("contactId")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "OK")
}

func (s *Server) handleSearchContacts(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		s.writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	page, err := intQuery(r, "page", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, err := intQuery(r, "size", app.DefaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	res, err := s.contacts.Search(r.Context(), p, app.SearchContactsInput{
		Name:  q.Get("name"),
		Email: q.Get("email"),
		Phone: q.Get("phone"),
		Page:  page,
		Size:  size,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writePaged(w, res.Items, paging{
		CurrentPage: res.CurrentPage,
		TotalPage:   res.TotalPages,
		Size:        res.Size,
	})
}
