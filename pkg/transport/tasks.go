package transport

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

func (rt *Router) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := rt.store.ListTasks(r.Context(), r.URL.Query().Get("caseId"))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, emptyAsList(tasks))
}

type taskPayload struct {
	Title       string     `json:"title"`
	CaseID      string     `json:"caseId"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (rt *Router) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var p taskPayload
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if p.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Task title is required.")
		return
	}

	priority := api.Priority(p.Priority)
	if priority == "" {
		priority = api.PriorityMedium
	}
	if !priority.Valid() {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid priority %q.", p.Priority))
		return
	}

	now := rt.nowTime()
	t := &api.Task{
		ID:          api.NewID(),
		CaseID:      strings.TrimSpace(p.CaseID),
		Title:       p.Title,
		Description: p.Description,
		// New tasks always start in the backlog.
		Status:    api.TaskTodo,
		Priority:  priority,
		DueDate:   p.DueDate,
		Deadline:  p.DueDate,
		CreatedBy: storage.GetOwner(r.Context()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := rt.store.CreateTask(r.Context(), t); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	if t.CaseID != "" {
		rt.recordActivity(r.Context(), t.CaseID, api.ActivityTaskAdded,
			fmt.Sprintf("New task added: %q", t.Title))
	}

	writeJSON(w, http.StatusCreated, t)
}

type taskPatch struct {
	Title       *string     `json:"title"`
	CaseID      *string     `json:"caseId"`
	Description *string     `json:"description"`
	AssignedTo  *string     `json:"assignedTo"`
	Status      *string     `json:"status"`
	Priority    *string     `json:"priority"`
	DueDate     *time.Time  `json:"dueDate"`
	Deadline    *time.Time  `json:"deadline"`
	CompletedAt *time.Time  `json:"completedAt"`
}

func (rt *Router) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	t, err := rt.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}

	var p taskPatch
	if err := decodeJSON(r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.CaseID != nil {
		t.CaseID = strings.TrimSpace(*p.CaseID)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Status != nil {
		status := api.TaskStatus(*p.Status)
		if !status.Valid() {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid status %q.", *p.Status))
			return
		}
		t.Status = status
	}
	if p.Priority != nil {
		priority := api.Priority(*p.Priority)
		if !priority.Valid() {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid priority %q.", *p.Priority))
			return
		}
		t.Priority = priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Deadline != nil {
		t.Deadline = p.Deadline
	}
	if p.CompletedAt != nil {
		t.CompletedAt = p.CompletedAt
	}
	t.UpdatedAt = rt.nowTime()

	if err := rt.store.UpdateTask(r.Context(), t); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (rt *Router) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := rt.store.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "Task not found")
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted")
}
