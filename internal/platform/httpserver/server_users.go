package httpserver

import (
	"net/http"
	"strings"

	userhttp "rutanagenda/contexts/identity-access/user-service/transport/http"
)

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeUserError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	resp, err := s.users.Handler.ListUsersHandler(r.Context(), userActor(identity))
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSectionHeads(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	resp, err := s.users.Handler.ListSectionHeadsHandler(r.Context(), userActor(identity))
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.users.Handler.GetUserHandler(r.Context(), userActor(identity), userID)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	var req userhttp.CreateUserRequest
	if !s.decodeJSON(w, r, &req, writeUserError) {
		return
	}
	resp, err := s.users.Handler.CreateUserHandler(r.Context(), userActor(identity), req)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req userhttp.UpdateUserRequest
	if !s.decodeJSON(w, r, &req, writeUserError) {
		return
	}
	resp, err := s.users.Handler.UpdateUserHandler(r.Context(), userActor(identity), userID, req)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.users.Handler.DeleteUserHandler(r.Context(), userActor(identity), userID)
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
