package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

func (rt *Router) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := rt.store.ListInvoices(r.Context(), r.URL.Query().Get("caseId"))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(invoices))
}

type invoicePayload struct {
	CaseID      string     `json:"caseId"`
	ClientName  string     `json:"clientName"`
	Amount      float64    `json:"amount"`
	HourlyRate  float64    `json:"hourlyRate"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

func (rt *Router) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var p invoicePayload
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if p.CaseID == "" {
		writeMessage(w, http.StatusBadRequest, "caseId is required")
		return
	}
	if p.Amount == 0 {
		writeMessage(w, http.StatusBadRequest, "Amount is required")
		return
	}

	clientName := p.ClientName
	if clientName == "" {
		clientName = "Client"
	}

	now := rt.nowTime()
	inv := &api.Invoice{
		ID:          api.NewID(),
		CaseID:      p.CaseID,
		ClientName:  clientName,
		Amount:      p.Amount,
		HourlyRate:  p.HourlyRate,
		Hours:       p.Hours,
		Description: p.Description,
		Status:      api.InvoiceDraft,
		DueDate:     p.DueDate,
		CreatedBy:   storage.GetOwner(r.Context()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The store assigns the invoice number from the owner's sequence.
	if err := rt.store.CreateInvoice(r.Context(), inv); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

type invoiceStatusPayload struct {
	Status string `json:"status"`
}

// handleUpdateInvoiceStatus updates only the billing status; all other
// invoice fields are immutable once created.
func (rt *Router) handleUpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	inv, err := rt.store.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Invoice not found")
		return
	}

	var p invoiceStatusPayload
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	status := api.InvoiceStatus(p.Status)
	if !status.Valid() {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid status %q.", p.Status))
		return
	}

	inv.Status = status
	inv.UpdatedAt = rt.nowTime()

	if err := rt.store.UpdateInvoice(r.Context(), inv); err != nil {
		writeStoreError(w, err, "Invoice not found")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (rt *Router) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.DeleteInvoice(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "Invoice not found")
		return
	}
	writeMessage(w, http.StatusOK, "Invoice deleted")
}
