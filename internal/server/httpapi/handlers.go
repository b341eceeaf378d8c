package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || len(req.Salt) == 0 || len(req.Verifier) == 0 {
		writeError(w, http.StatusBadRequest, "email, salt and verifier are required")
		return
	}

	if _, err := s.accounts.Register(r.Context(), req.Email, req.Salt, req.Verifier); err != nil {
		s.logger.Error(r.Context(), "register failed", "error", err)
		writeError(w, http.StatusConflict, "could not register account")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleGetSalt always answers 200 with a salt, real or random, so the
// response does not reveal whether the email is registered.
func (s *Server) handleGetSalt(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	salt, err := s.accounts.GetSalt(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SaltResponse{Salt: salt})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.accounts.Login(r.Context(), req.Email, req.Verifier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	stored, err := s.accounts.Heartbeat(r.Context(), accountID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HeartbeatResponse{
		LastHeartbeatAt: stored.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.Get(r.Context(), accountID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.accounts.UpdateSettings(r.Context(), accountID(r.Context()), req.HeartbeatIntervalDays, req.GracePeriodDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.vault.ListEntries(r.Context(), accountID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponses(entries))
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.vault.AddEntry(r.Context(), accountID(r.Context()),
		req.Title, common.EntryCategory(req.Category), req.EncryptedContent, req.StorageKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry")
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.vault.GetEntry(r.Context(), accountID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.DeleteEntry(r.Context(), accountID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresignPut(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.storage.PresignedPutURL(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign put failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, PresignPutResponse{StorageKey: key, URL: url})
}

func (s *Server) handlePresignGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.vault.GetEntry(r.Context(), accountID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entry.StorageKey == "" {
		writeError(w, http.StatusBadRequest, "entry has no stored document")
		return
	}

	url, err := s.storage.PresignedGetURL(r.Context(), entry.StorageKey)
	if err != nil {
		s.logger.Error(r.Context(), "presign get failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, PresignGetResponse{URL: url})
}

func (s *Server) handleListHeirs(w http.ResponseWriter, r *http.Request) {
	heirs, err := s.vault.ListHeirs(r.Context(), accountID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]HeirResponse, 0, len(heirs))
	for _, h := range heirs {
		out = append(out, toHeirResponse(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddHeir(w http.ResponseWriter, r *http.Request) {
	var req AddHeirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	heir, err := s.vault.AddHeir(r.Context(), accountID(r.Context()), req.Name, req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid heir")
		return
	}
	writeJSON(w, http.StatusCreated, toHeirResponse(heir))
}

func (s *Server) handleDeleteHeir(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.DeleteHeir(r.Context(), accountID(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSweep runs one sweep pass on behalf of the external scheduler.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	processed, err := s.sweep.Run(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "sweep failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, SweepResponse{Processed: processed})
}

// handleHeirVault serves the encrypted vault behind an heir access link.
// The body is ciphertext only; decryption happens wherever the heir
// enters the passphrase the owner shared with them.
func (s *Server) handleHeirVault(w http.ResponseWriter, r *http.Request) {
	entries, err := s.vault.HeirVault(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HeirVaultResponse{Entries: toEntryResponses(entries)})
}
