package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
	"github.com/dmitrijs2005/legacykeeper/internal/server/models"
)

// writeJSON marshals v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service sentinels to HTTP statuses. Unknown
// errors become opaque 500s so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrAlreadyTriggered):
		writeError(w, http.StatusConflict, "transmission already triggered")
	case errors.Is(err, common.ErrConfigInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// RegisterRequest creates an account. Salt and verifier travel base64
// encoded; the password and derived key never leave the client.
type RegisterRequest struct {
	Email    string `json:"email"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Verifier []byte `json:"verifier"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type SaltResponse struct {
	Salt []byte `json:"salt"`
}

type HeartbeatResponse struct {
	LastHeartbeatAt string `json:"last_heartbeat_at"`
}

type SettingsRequest struct {
	HeartbeatIntervalDays int `json:"heartbeat_interval_days"`
	GracePeriodDays       int `json:"grace_period_days"`
}

type AccountResponse struct {
	Email                 string `json:"email"`
	HeartbeatIntervalDays int    `json:"heartbeat_interval_days"`
	GracePeriodDays       int    `json:"grace_period_days"`
	LastHeartbeatAt       string `json:"last_heartbeat_at"`
	TransmissionTriggered bool   `json:"transmission_triggered"`
}

type AddEntryRequest struct {
	Title            string `json:"title"`
	Category         string `json:"category"`
	EncryptedContent string `json:"encrypted_content,omitempty"`
	StorageKey       string `json:"storage_key,omitempty"`
}

type EntryResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	EncryptedContent string `json:"encrypted_content,omitempty"`
	StorageKey       string `json:"storage_key,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type AddHeirRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type HeirResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Notified bool   `json:"notified"`
}

type PresignPutResponse struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

type PresignGetResponse struct {
	URL string `json:"url"`
}

type SweepResponse struct {
	Processed int `json:"processed"`
}

type HeirVaultResponse struct {
	Entries []EntryResponse `json:"entries"`
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		Email:                 a.Email,
		HeartbeatIntervalDays: a.HeartbeatIntervalDays,
		GracePeriodDays:       a.GracePeriodDays,
		LastHeartbeatAt:       a.LastHeartbeatAt.UTC().Format(time.RFC3339),
		TransmissionTriggered: a.TransmissionTriggered,
	}
}

func toEntryResponse(e *models.Entry) EntryResponse {
	return EntryResponse{
		ID:               e.ID,
		Title:            e.Title,
		Category:         string(e.Category),
		EncryptedContent: e.EncryptedContent,
		StorageKey:       e.StorageKey,
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toEntryResponses(entries []*models.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func toHeirResponse(h *models.Heir) HeirResponse {
	return HeirResponse{
		ID:       h.ID,
		Name:     h.Name,
		Email:    h.Email,
		Notified: !h.NotifiedAt.IsZero(),
	}
}
