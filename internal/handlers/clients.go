package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"mamoolah/internal/middleware"
	"mamoolah/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type clientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r clientRequest) toInput(id, companyID string) (store.ClientInput, error) {
	if r.Name == "" {
		return store.ClientInput{}, errors.New("name is required")
	}
	return store.ClientInput{
		ID:        id,
		CompanyID: companyID,
		Name:      r.Name,
		Email:     optional(r.Email),
		Phone:     optional(r.Phone),
		Address:   optional(r.Address),
	}, nil
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	clientID := uuid.NewString()
	input, err := req.toInput(clientID, companyID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.clients.Create(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name": input.Name})
		return h.audit.Log(r.Context(), tx, userID, "create", "client", clientID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create client")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": clientID})
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	clients, err := h.clients.ListByCompany(r.Context(), companyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load clients")
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	clientID := chi.URLParam(r, "id")
	client, err := h.clients.GetByID(r.Context(), companyID, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	clientID := chi.URLParam(r, "id")
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, err := req.toInput(clientID, companyID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	before, err := h.clients.GetByID(r.Context(), companyID, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load client")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		updated, err := h.clients.Update(r.Context(), tx, companyID, clientID, input)
		if err != nil {
			return err
		}
		if updated == 0 {
			return sql.ErrNoRows
		}
		diff := fieldDiff(map[string][2]string{
			"name":    {before.Name, input.Name},
			"email":   {deref(before.Email), deref(input.Email)},
			"phone":   {deref(before.Phone), deref(input.Phone)},
			"address": {deref(before.Address), deref(input.Address)},
		})
		if len(diff) == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]any{"updated_fields": diff})
		return h.audit.Log(r.Context(), tx, userID, "update", "client", clientID, string(data))
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update client")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": clientID})
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	companyID := chi.URLParam(r, "companyID")
	clientID := chi.URLParam(r, "id")
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		deleted, err := h.clients.Delete(r.Context(), tx, companyID, clientID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return sql.ErrNoRows
		}
		return h.audit.Log(r.Context(), tx, userID, "delete", "client", clientID, "{}")
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "client not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to delete client")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": clientID})
}
