package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"microblog-backend/internal/middleware"
	"microblog-backend/internal/models"
	"microblog-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles signup, login and follow-graph HTTP requests
type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
	}
}

// SignupRequest is the body for POST /users/signup
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the user projection plus the issued token
type LoginResponse struct {
	models.PublicUser
	Token string `json:"token"`
}

// Signup handles POST /users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateSignup(&req); !ok {
		respondMessage(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.userService.Register(r.Context(), req.Name, req.Username, req.Email, req.Password); err != nil {
		respondError(w, err)
		return
	}

	log.Info().Str("username", req.Username).Msg("User created")
	respondMessage(w, http.StatusCreated, "User created successfully")
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !strings.Contains(req.Email, "@") || len(req.Password) < 6 {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{PublicUser: *user, Token: token})
}

// Follow handles POST /users/follow/{id}
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actor, targetID, ok := h.followParams(w, r)
	if !ok {
		return
	}

	if err := h.followService.Follow(r.Context(), actor.ID, targetID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().Int64("actor_id", actor.ID).Int64("target_id", targetID).Msg("User followed")
	respondMessage(w, http.StatusOK, "User followed successfully")
}

// Unfollow handles DELETE /users/unfollow/{id}
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actor, targetID, ok := h.followParams(w, r)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(r.Context(), actor.ID, targetID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().Int64("actor_id", actor.ID).Int64("target_id", targetID).Msg("User unfollowed")
	respondMessage(w, http.StatusOK, "User unfollowed successfully")
}

func (h *UserHandler) followParams(w http.ResponseWriter, r *http.Request) (*models.PublicUser, int64, bool) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authentication token missing")
		return nil, 0, false
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid user id")
		return nil, 0, false
	}
	return actor, targetID, true
}

func validateSignup(req *SignupRequest) (string, bool) {
	switch {
	case len(req.Name) < 3:
		return "name must be at least 3 characters", false
	case len(req.Username) < 3:
		return "username must be at least 3 characters", false
	case !strings.Contains(req.Email, "@"):
		return "email must be a valid email", false
	case len(req.Password) < 6:
		return "password must be at least 6 characters", false
	}
	return "", true
}
