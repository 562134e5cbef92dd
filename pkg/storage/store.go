package storage

import (
	"context"

	"github.com/cognicase/cognicase/pkg/api"
)

// UserStore manages account records. User operations are not
// owner-scoped: they are only reachable from the auth service and the
// middleware, before or during identity resolution.
type UserStore interface {
	// GetUserByEmail returns the account for the given email, or ErrNotFound.
	// Email comparison is exact (case-sensitive as stored).
	GetUserByEmail(ctx context.Context, email string) (*api.User, error)

	// GetUserByID returns the account with the given identifier, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*api.User, error)

	// CreateUser persists a new account. Returns ErrConflict if the email
	// is already registered.
	CreateUser(ctx context.Context, u *api.User) error

	// UpdateUser overwrites an existing account, including its pending
	// code (which may be nil to clear it). Returns ErrNotFound if absent.
	UpdateUser(ctx context.Context, u *api.User) error
}

// CaseFilter narrows a case listing. Zero values mean "no filter".
type CaseFilter struct {
	Status   api.CaseStatus
	Priority api.Priority
	ClientID string
	// Search matches title or client name, case-insensitively.
	Search string
}

// CaseStore manages case records, scoped by the context owner.
type CaseStore interface {
	ListCases(ctx context.Context, f CaseFilter) ([]*api.Case, error)
	GetCase(ctx context.Context, id string) (*api.Case, error)
	CreateCase(ctx context.Context, c *api.Case) error
	UpdateCase(ctx context.Context, c *api.Case) error
	DeleteCase(ctx context.Context, id string) error
}

// ClientStore manages client records, scoped by the context owner.
type ClientStore interface {
	ListClients(ctx context.Context) ([]*api.Client, error)
	GetClient(ctx context.Context, id string) (*api.Client, error)
	CreateClient(ctx context.Context, c *api.Client) error
	UpdateClient(ctx context.Context, c *api.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// TaskStore manages task records, scoped by the context owner.
// CaseID, when non-empty, restricts the listing to one case.
type TaskStore interface {
	ListTasks(ctx context.Context, caseID string) ([]*api.Task, error)
	GetTask(ctx context.Context, id string) (*api.Task, error)
	CreateTask(ctx context.Context, t *api.Task) error
	UpdateTask(ctx context.Context, t *api.Task) error
	DeleteTask(ctx context.Context, id string) error
}

// DocumentFilter narrows a document listing.
type DocumentFilter struct {
	CaseID string
	// Search matches the document name, case-insensitively.
	Search string
}

// DocumentStore manages document metadata, scoped by the context owner.
type DocumentStore interface {
	ListDocuments(ctx context.Context, f DocumentFilter) ([]*api.Document, error)
	GetDocument(ctx context.Context, id string) (*api.Document, error)
	CreateDocument(ctx context.Context, d *api.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// NoteStore manages case notes, scoped by the context owner.
type NoteStore interface {
	ListNotes(ctx context.Context, caseID string) ([]*api.Note, error)
	CreateNote(ctx context.Context, n *api.Note) error
	DeleteNote(ctx context.Context, id string) error
}

// InvoiceStore manages invoices, scoped by the context owner.
// CreateInvoice assigns the invoice number from a per-owner sequence.
type InvoiceStore interface {
	ListInvoices(ctx context.Context, caseID string) ([]*api.Invoice, error)
	CreateInvoice(ctx context.Context, inv *api.Invoice) error
	UpdateInvoice(ctx context.Context, inv *api.Invoice) error
	GetInvoice(ctx context.Context, id string) (*api.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
}

// ActivityStore manages case history entries, scoped by the context owner.
type ActivityStore interface {
	// ListActivities returns entries for one case, newest first.
	ListActivities(ctx context.Context, caseID string) ([]*api.Activity, error)
	// ListRecentActivities returns the owner's newest entries across all
	// cases, up to limit.
	ListRecentActivities(ctx context.Context, limit int) ([]*api.Activity, error)
	CreateActivity(ctx context.Context, a *api.Activity) error
}

// Store is the full record store backing the service.
type Store interface {
	UserStore
	CaseStore
	ClientStore
	TaskStore
	DocumentStore
	NoteStore
	InvoiceStore
	ActivityStore

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
