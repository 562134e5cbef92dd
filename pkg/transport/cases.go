package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

func (rt *Router) handleListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := storage.CaseFilter{
		ClientID: q.Get("clientId"),
		Search:   q.Get("search"),
	}
	// "All" is the UI's no-filter sentinel.
	if s := q.Get("status"); s != "" && s != "All" {
		f.Status = api.CaseStatus(s)
	}
	if p := q.Get("priority"); p != "" {
		f.Priority = api.Priority(p)
	}

	cases, err := rt.store.ListCases(r.Context(), f)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(cases))
}

func (rt *Router) handleGetCase(w http.ResponseWriter, r *http.Request) {
	c, err := rt.store.GetCase(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Case not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type casePayload struct {
	Title string `json:"title"`
	// Client carries the plain-text client name from the intake form.
	Client        string     `json:"client"`
	ClientID      string     `json:"clientId"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	Description   string     `json:"description"`
	Court         string     `json:"court"`
	StartDate     *time.Time `json:"startDate"`
	Deadline      *time.Time `json:"deadline"`
	BillableHours float64    `json:"billableHours"`
	Tags          []string   `json:"tags"`
}

func (rt *Router) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var p casePayload
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if p.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Case title is required.")
		return
	}

	status := api.CaseStatus(p.Status)
	if status == "" {
		status = api.CaseOpen
	}
	priority := api.Priority(p.Priority)
	if priority == "" {
		priority = api.PriorityMedium
	}
	if !status.Valid() {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid status %q.", p.Status))
		return
	}
	if !priority.Valid() {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid priority %q.", p.Priority))
		return
	}

	now := rt.nowTime()
	c := &api.Case{
		ID:            api.NewID(),
		Title:         p.Title,
		Description:   p.Description,
		ClientID:      p.ClientID,
		ClientName:    p.Client,
		Status:        status,
		Priority:      priority,
		CaseType:      p.Type,
		Court:         p.Court,
		StartDate:     p.StartDate,
		Deadline:      p.Deadline,
		BillableHours: p.BillableHours,
		Tags:          p.Tags,
		CreatedBy:     storage.GetOwner(r.Context()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := rt.store.CreateCase(r.Context(), c); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	rt.recordActivity(r.Context(), c.ID, api.ActivityCaseCreated,
		fmt.Sprintf("Case %q was created.", c.Title))

	writeJSON(w, http.StatusCreated, c)
}

// casePatch carries a partial update: only fields present in the body
// are applied.
type casePatch struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Client        *string     `json:"client"`
	ClientID      *string     `json:"clientId"`
	ClientName    *string     `json:"clientName"`
	Status        *string     `json:"status"`
	Priority      *string     `json:"priority"`
	CaseType      *string     `json:"caseType"`
	Type          *string     `json:"type"`
	Court         *string     `json:"court"`
	StartDate     *time.Time  `json:"startDate"`
	Deadline      *time.Time  `json:"deadline"`
	BillableHours *float64    `json:"billableHours"`
	Tags          *[]string   `json:"tags"`
}

func (rt *Router) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	c, err := rt.store.GetCase(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Case not found")
		return
	}

	var p casePatch
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	oldStatus := c.Status

	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Client != nil {
		c.ClientName = *p.Client
	}
	if p.ClientName != nil {
		c.ClientName = *p.ClientName
	}
	if p.ClientID != nil {
		c.ClientID = *p.ClientID
	}
	if p.Status != nil {
		status := api.CaseStatus(*p.Status)
		if !status.Valid() {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid status %q.", *p.Status))
			return
		}
		c.Status = status
	}
	if p.Priority != nil {
		priority := api.Priority(*p.Priority)
		if !priority.Valid() {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid priority %q.", *p.Priority))
			return
		}
		c.Priority = priority
	}
	if p.CaseType != nil {
		c.CaseType = *p.CaseType
	}
	if p.Type != nil {
		c.CaseType = *p.Type
	}
	if p.Court != nil {
		c.Court = *p.Court
	}
	if p.StartDate != nil {
		c.StartDate = p.StartDate
	}
	if p.Deadline != nil {
		c.Deadline = p.Deadline
	}
	if p.BillableHours != nil {
		c.BillableHours = *p.BillableHours
	}
	if p.Tags != nil {
		c.Tags = *p.Tags
	}
	c.UpdatedAt = rt.nowTime()

	if err := rt.store.UpdateCase(r.Context(), c); err != nil {
		writeStoreError(w, err, "Case not found")
		return
	}

	if oldStatus != c.Status {
		rt.recordActivity(r.Context(), c.ID, api.ActivityStatusChanged,
			fmt.Sprintf("Status changed from %s to %s.", oldStatus, c.Status))
	}

	writeJSON(w, http.StatusOK, c)
}

func (rt *Router) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.DeleteCase(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "Case not found")
		return
	}
	writeMessage(w, http.StatusOK, "Case deleted")
}

// emptyAsList substitutes an empty JSON array for a nil slice so
// listings never serialize as null.
func emptyAsList[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
