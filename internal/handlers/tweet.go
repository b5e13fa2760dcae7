package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"microblog-backend/internal/middleware"
	"microblog-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	maxTweetLength = 280
	maxUploadBytes = 32 << 20
)

// TweetHandler handles feed, tweet authoring and upload HTTP requests
type TweetHandler struct {
	tweetService  *services.TweetService
	uploadService *services.UploadService
}

// NewTweetHandler creates a new tweet handler
func NewTweetHandler(tweetService *services.TweetService, uploadService *services.UploadService) *TweetHandler {
	return &TweetHandler{
		tweetService:  tweetService,
		uploadService: uploadService,
	}
}

// CreateTweetRequest is the body for POST /tweets
type CreateTweetRequest struct {
	Content   string   `json:"content"`
	FilesURLs []string `json:"files_urls"`
}

// GetFeed handles GET /tweets/{page}
func (h *TweetHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authentication token missing")
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		respondMessage(w, http.StatusBadRequest, "page must be a number greater than 0")
		return
	}

	feed, err := h.tweetService.GetFeed(r.Context(), viewer.ID, page)
	if err != nil {
		log.Error().Err(err).Int64("viewer_id", viewer.ID).Int("page", page).Msg("Failed to get feed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, feed)
}

// CreateTweet handles POST /tweets
func (h *TweetHandler) CreateTweet(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authentication token missing")
		return
	}

	var req CreateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" {
		respondMessage(w, http.StatusBadRequest, "content is required")
		return
	}
	if len([]rune(req.Content)) > maxTweetLength {
		respondMessage(w, http.StatusBadRequest, "content must be at most 280 characters")
		return
	}

	if err := h.tweetService.CreateTweet(r.Context(), author.ID, req.Content, req.FilesURLs); err != nil {
		log.Error().Err(err).Int64("author_id", author.ID).Msg("Failed to create tweet")
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Tweet created sucessfully!")
}

// Upload handles POST /tweets/upload
func (h *TweetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		respondMessage(w, http.StatusUnauthorized, "Authentication token missing")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.uploadService.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to upload file")
		respondError(w, err)
		return
	}

	log.Info().Str("key", result.Key).Msg("File uploaded")
	respondJSON(w, http.StatusCreated, result)
}
