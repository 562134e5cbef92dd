package transport

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
)

func TestCreateClientValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := env.do(t, http.MethodPost, "/api/clients", token, map[string]any{"email": "x@y.test"})
	var body map[string]string
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "Client name is required." {
		t.Errorf("missing name: %d %q", rec.Code, body["message"])
	}

	rec = env.do(t, http.MethodPost, "/api/clients", token, map[string]any{"name": "Acme"})
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "Client email is required." {
		t.Errorf("missing email: %d %q", rec.Code, body["message"])
	}
}

func TestClientLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := env.do(t, http.MethodPost, "/api/clients", token, map[string]any{
		"name":    "Acme Corp",
		"email":   "legal@acme.test",
		"company": "Acme",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var c api.Client
	decodeBody(t, rec, &c)

	rec = env.do(t, http.MethodPut, "/api/clients/"+c.ID, token, map[string]any{"phone": "555-0100"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	var updated api.Client
	decodeBody(t, rec, &updated)
	if updated.Phone != "555-0100" || updated.Name != "Acme Corp" {
		t.Errorf("partial update wrong: %+v", updated)
	}

	rec = env.do(t, http.MethodDelete, "/api/clients/"+c.ID, token, nil)
	var body map[string]string
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusOK || body["message"] != "Client deleted" {
		t.Errorf("delete: %d %q", rec.Code, body["message"])
	}
}

func TestCreateTask(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")
	c := createCase(t, env, token, map[string]any{"title": "Smith v. Jones"})

	due := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	rec := env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":   "File motion",
		"caseId":  c.ID,
		"dueDate": due,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var task api.Task
	decodeBody(t, rec, &task)

	// New tasks always start in the backlog regardless of input.
	if task.Status != api.TaskTodo {
		t.Errorf("status = %q, want Todo", task.Status)
	}
	if task.Priority != api.PriorityMedium {
		t.Errorf("priority = %q, want Medium", task.Priority)
	}
	if task.Deadline == nil || !task.Deadline.Equal(due) {
		t.Errorf("deadline should mirror dueDate: %v", task.Deadline)
	}

	// A case-linked task records an activity.
	rec = env.do(t, http.MethodGet, "/api/activities?caseId="+c.ID, token, nil)
	var activities []api.Activity
	decodeBody(t, rec, &activities)
	var found bool
	for _, a := range activities {
		if a.Type == api.ActivityTaskAdded {
			found = true
			if a.Message != `New task added: "File motion"` {
				t.Errorf("message = %q", a.Message)
			}
		}
	}
	if !found {
		t.Error("no TASK_ADDED activity recorded")
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{"caseId": "c1"})
	var body map[string]string
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "Task title is required." {
		t.Errorf("got %d %q", rec.Code, body["message"])
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := env.do(t, http.MethodPost, "/api/tasks", token, map[string]any{"title": "File motion"})
	var task api.Task
	decodeBody(t, rec, &task)

	rec = env.do(t, http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"status": "Completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated api.Task
	decodeBody(t, rec, &updated)
	if updated.Status != api.TaskCompleted {
		t.Errorf("status = %q, want Completed", updated.Status)
	}

	rec = env.do(t, http.MethodPut, "/api/tasks/"+task.ID, token, map[string]any{"status": "Done"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status accepted: %d", rec.Code)
	}
}

func TestNoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")
	c := createCase(t, env, token, map[string]any{"title": "Smith v. Jones"})

	rec := env.do(t, http.MethodPost, "/api/notes", token, map[string]any{"caseId": c.ID})
	var body map[string]string
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "Note content is required." {
		t.Errorf("missing content: %d %q", rec.Code, body["message"])
	}

	rec = env.do(t, http.MethodPost, "/api/notes", token, map[string]any{"content": "x"})
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "caseId is required" {
		t.Errorf("missing caseId: %d %q", rec.Code, body["message"])
	}

	rec = env.do(t, http.MethodPost, "/api/notes", token, map[string]any{
		"caseId":  c.ID,
		"content": "Client called about settlement.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var note api.Note
	decodeBody(t, rec, &note)

	rec = env.do(t, http.MethodGet, "/api/activities?caseId="+c.ID, token, nil)
	var activities []api.Activity
	decodeBody(t, rec, &activities)
	var found bool
	for _, a := range activities {
		if a.Type == api.ActivityNoteAdded && a.Message == "New note added." {
			found = true
		}
	}
	if !found {
		t.Error("no NOTE_ADDED activity recorded")
	}

	rec = env.do(t, http.MethodDelete, "/api/notes/"+note.ID, token, nil)
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusOK || body["message"] != "Note deleted" {
		t.Errorf("delete: %d %q", rec.Code, body["message"])
	}
}

func TestCreateInvoice(t *testing.T) {
	fixed := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(t, WithNowTime(func() time.Time { return fixed }))
	token := env.login(t, "jane@firm.test")

	rec := env.do(t, http.MethodPost, "/api/invoices", token, map[string]any{"amount": 100})
	var body map[string]string
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "caseId is required" {
		t.Errorf("missing caseId: %d %q", rec.Code, body["message"])
	}

	rec = env.do(t, http.MethodPost, "/api/invoices", token, map[string]any{"caseId": "c1"})
	decodeBody(t, rec, &body)
	if rec.Code != http.StatusBadRequest || body["message"] != "Amount is required" {
		t.Errorf("missing amount: %d %q", rec.Code, body["message"])
	}

	rec = env.do(t, http.MethodPost, "/api/invoices", token, map[string]any{
		"caseId": "c1",
		"amount": 1500.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var inv api.Invoice
	decodeBody(t, rec, &inv)

	if inv.Status != api.InvoiceDraft {
		t.Errorf("status = %q, want Draft", inv.Status)
	}
	if inv.ClientName != "Client" {
		t.Errorf("clientName = %q, want fallback", inv.ClientName)
	}
	// The number's year comes from the invoice's creation timestamp,
	// which the handler takes from the router clock.
	if inv.InvoiceNumber != "INV-0001-2026" {
		t.Errorf("invoiceNumber = %q, want %q", inv.InvoiceNumber, "INV-0001-2026")
	}
}

func TestUpdateInvoiceStatusOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	rec := env.do(t, http.MethodPost, "/api/invoices", token, map[string]any{
		"caseId":     "c1",
		"amount":     1500.0,
		"clientName": "Acme",
	})
	var inv api.Invoice
	decodeBody(t, rec, &inv)

	rec = env.do(t, http.MethodPut, "/api/invoices/"+inv.ID, token, map[string]any{"status": "Sent"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated api.Invoice
	decodeBody(t, rec, &updated)
	if updated.Status != api.InvoiceSent {
		t.Errorf("status = %q, want Sent", updated.Status)
	}
	if updated.Amount != 1500 || updated.ClientName != "Acme" || updated.InvoiceNumber != inv.InvoiceNumber {
		t.Errorf("non-status fields changed: %+v", updated)
	}

	rec = env.do(t, http.MethodPut, "/api/invoices/"+inv.ID, token, map[string]any{"status": "Void"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status accepted: %d", rec.Code)
	}
}

func TestGlobalActivityFeedLimit(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "jane@firm.test")

	c := createCase(t, env, token, map[string]any{"title": "Busy case"})
	// CASE_CREATED plus 25 notes gives 26 entries.
	for i := 0; i < 25; i++ {
		rec := env.do(t, http.MethodPost, "/api/notes", token, map[string]any{
			"caseId":  c.ID,
			"content": fmt.Sprintf("note %d", i),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create note %d: %d", i, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/activities/global", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var activities []api.Activity
	decodeBody(t, rec, &activities)
	if len(activities) != 20 {
		t.Errorf("got %d activities, want 20", len(activities))
	}
}
