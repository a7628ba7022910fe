package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type createEntryRequest struct {
	Website         string `json:"website"`
	AccountUsername string `json:"accountUsername"`
	Password        string `json:"password"`
	Category        string `json:"category"`
	Tags            string `json:"tags"`
}

type createEntryResponse struct {
	EntryID         int64     `json:"entryId"`
	Website         string    `json:"website"`
	AccountUsername string    `json:"accountUsername"`
	CreatedAt       time.Time `json:"createdAt"`
}

// entryPayload is the list representation: ciphertext stays opaque and no
// plaintext field exists.
type entryPayload struct {
	EntryID           int64     `json:"entryId"`
	Website           string    `json:"website"`
	AccountUsername   string    `json:"accountUsername"`
	EncryptedPassword string    `json:"encryptedPassword"`
	Category          string    `json:"category,omitempty"`
	Tags              string    `json:"tags,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type decryptedEntryResponse struct {
	Website         string `json:"website"`
	AccountUsername string `json:"accountUsername"`
	Password        string `json:"password"`
}

type updateEntryResponse struct {
	Website         string    `json:"website"`
	AccountUsername string    `json:"accountUsername"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toEntryPayload(e *models.PasswordEntry) entryPayload {
	return entryPayload{
		EntryID:           e.ID,
		Website:           e.Website,
		AccountUsername:   e.AccountUsername,
		EncryptedPassword: e.EncryptedPassword,
		Category:          e.Category,
		Tags:              e.Tags,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// entryIDParam parses the {entryID} route parameter; a non-numeric id is a
// validation error, not a not-found.
func entryIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "entryID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid entry id", common.ErrorValidation)
	}
	return id, nil
}

func (s *RESTServer) listEntries(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := s.entries.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]entryPayload, 0, len(list))
	for _, e := range list {
		payload = append(payload, toEntryPayload(e))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *RESTServer) createEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := s.entries.Create(r.Context(), claims.UserID,
		req.Website, req.AccountUsername, req.Password, req.Category, req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createEntryResponse{
		EntryID:         entry.ID,
		Website:         entry.Website,
		AccountUsername: entry.AccountUsername,
		CreatedAt:       entry.CreatedAt,
	})
}

func (s *RESTServer) getDecryptedEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// chi routes on the already-decoded path, so the params come back
	// unescaped; decoding again would mangle literal percent sequences
	website := chi.URLParam(r, "website")
	accountUsername := chi.URLParam(r, "accountUsername")

	password, err := s.entries.GetDecrypted(r.Context(), claims.UserID, website, accountUsername)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decryptedEntryResponse{
		Website:         website,
		AccountUsername: accountUsername,
		Password:        password,
	})
}

func (s *RESTServer) updateEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := entryIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req passwordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := s.entries.UpdatePassword(r.Context(), id, claims.UserID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateEntryResponse{
		Website:         entry.Website,
		AccountUsername: entry.AccountUsername,
		UpdatedAt:       entry.UpdatedAt,
	})
}

func (s *RESTServer) deleteEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := entryIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.entries.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "entry deleted")
}
