package transport

import (
	"net/http"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

func (rt *Router) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := rt.store.ListClients(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(clients))
}

func (rt *Router) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := rt.store.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Client not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type clientPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (rt *Router) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var p clientPayload
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if p.Name == "" {
		writeMessage(w, http.StatusBadRequest, "Client name is required.")
		return
	}
	if p.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Client email is required.")
		return
	}

	now := rt.nowTime()
	c := &api.Client{
		ID:        api.NewID(),
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Company:   p.Company,
		Address:   p.Address,
		Notes:     p.Notes,
		CreatedBy: storage.GetOwner(r.Context()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := rt.store.CreateClient(r.Context(), c); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type clientPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func (rt *Router) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	c, err := rt.store.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Client not found")
		return
	}

	var p clientPatch
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	c.UpdatedAt = rt.nowTime()

	if err := rt.store.UpdateClient(r.Context(), c); err != nil {
		writeStoreError(w, err, "Client not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rt *Router) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "Client not found")
		return
	}
	writeMessage(w, http.StatusOK, "Client deleted")
}
