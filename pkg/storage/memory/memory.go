// Package memory provides an in-memory implementation of storage.Store
// for testing and storage-less development runs. Records are lost when
// the process restarts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage"
)

// Store is an in-memory storage.Store. All maps are keyed by record ID.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*api.User
	cases      map[string]*api.Case
	clients    map[string]*api.Client
	tasks      map[string]*api.Task
	documents  map[string]*api.Document
	notes      map[string]*api.Note
	invoices   map[string]*api.Invoice
	activities map[string]*api.Activity

	// invoiceSeq advances per owner and never rewinds, so deleted
	// invoices do not free their numbers for reuse.
	invoiceSeq map[string]int
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:      make(map[string]*api.User),
		cases:      make(map[string]*api.Case),
		clients:    make(map[string]*api.Client),
		tasks:      make(map[string]*api.Task),
		documents:  make(map[string]*api.Document),
		notes:      make(map[string]*api.Note),
		invoices:   make(map[string]*api.Invoice),
		activities: make(map[string]*api.Activity),
		invoiceSeq: make(map[string]int),
	}
}

// --- users ---

func (s *Store) GetUserByEmail(_ context.Context, email string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Store) CreateUser(_ context.Context, u *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return storage.ErrConflict
		}
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *Store) UpdateUser(_ context.Context, u *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return storage.ErrNotFound
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

// --- cases ---

func (s *Store) ListCases(ctx context.Context, f storage.CaseFilter) ([]*api.Case, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*api.Case
	for _, c := range s.cases {
		if c.CreatedBy != owner {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Priority != "" && c.Priority != f.Priority {
			continue
		}
		if f.ClientID != "" && c.ClientID != f.ClientID {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.Title), q) &&
				!strings.Contains(strings.ToLower(c.ClientName), q) {
				continue
			}
		}
		out = append(out, copyCase(c))
	}
	sortNewestFirst(out, func(c *api.Case) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func (s *Store) GetCase(ctx context.Context, id string) (*api.Case, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok || c.CreatedBy != owner {
		return nil, storage.ErrNotFound
	}
	return copyCase(c), nil
}

func (s *Store) CreateCase(ctx context.Context, c *api.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[c.ID]; exists {
		return storage.ErrConflict
	}
	s.cases[c.ID] = copyCase(c)
	return nil
}

func (s *Store) UpdateCase(ctx context.Context, c *api.Case) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.cases[c.ID]
	if !ok || existing.CreatedBy != owner {
		return storage.ErrNotFound
	}
	s.cases[c.ID] = copyCase(c)
	return nil
}

func (s *Store) DeleteCase(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[id]
	if !ok || c.CreatedBy != owner {
		return storage.ErrNotFound
	}
	delete(s.cases, id)
	return nil
}

// --- clients ---

func (s *Store) ListClients(ctx context.Context) ([]*api.Client, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*api.Client
	for _, c := range s.clients {
		if c.CreatedBy != owner {
			continue
		}
		out = append(out, copyClient(c))
	}
	sortNewestFirst(out, func(c *api.Client) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*api.Client, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok || c.CreatedBy != owner {
		return nil, storage.ErrNotFound
	}
	return copyClient(c), nil
}

func (s *Store) CreateClient(ctx context.Context, c *api.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[c.ID]; exists {
		return storage.ErrConflict
	}
	s.clients[c.ID] = copyClient(c)
	return nil
}

func (s *Store) UpdateClient(ctx context.Context, c *api.Client) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clients[c.ID]
	if !ok || existing.CreatedBy != owner {
		return storage.ErrNotFound
	}
	s.clients[c.ID] = copyClient(c)
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok || c.CreatedBy != owner {
		return storage.ErrNotFound
	}
	delete(s.clients, id)
	return nil
}

// --- tasks ---

func (s *Store) ListTasks(ctx context.Context, caseID string) ([]*api.Task, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*api.Task
	for _, t := range s.tasks {
		if t.CreatedBy != owner {
			continue
		}
		if caseID != "" && t.CaseID != caseID {
			continue
		}
		out = append(out, copyTask(t))
	}
	sortNewestFirst(out, func(t *api.Task) (time.Time, string) { return t.CreatedAt, t.ID })
	return out, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*api.Task, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.CreatedBy != owner {
		return nil, storage.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *Store) CreateTask(ctx context.Context, t *api.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[t.ID]; exists {
		return storage.ErrConflict
	}
	s.tasks[t.ID] = copyTask(t)
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t *api.Task) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[t.ID]
	if !ok || existing.CreatedBy != owner {
		return storage.ErrNotFound
	}
	s.tasks[t.ID] = copyTask(t)
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.CreatedBy != owner {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// --- documents ---

func (s *Store) ListDocuments(ctx context.Context, f storage.DocumentFilter) ([]*api.Document, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*api.Document
	for _, d := range s.documents {
		if d.CreatedBy != owner {
			continue
		}
		if f.CaseID != "" && d.CaseID != f.CaseID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, copyDocument(d))
	}
	sortNewestFirst(out, func(d *api.Document) (time.Time, string) { return d.CreatedAt, d.ID })
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (*api.Document, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok || d.CreatedBy != owner {
		return nil, storage.ErrNotFound
	}
	return copyDocument(d), nil
}

func (s *Store) CreateDocument(ctx context.Context, d *api.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[d.ID]; exists {
		return storage.ErrConflict
	}
	s.documents[d.ID] = copyDocument(d)
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok || d.CreatedBy != owner {
		return storage.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// --- notes ---

func (s *Store) ListNotes(ctx context.Context, caseID string) ([]*api.Note, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*api.Note
	for _, n := range s.notes {
		if n.CreatedBy != owner {
			continue
		}
		if caseID != "" && n.CaseID != caseID {
			continue
		}
		out = append(out, copyNote(n))
	}
	sortNewestFirst(out, func(n *api.Note) (time.Time, string) { return n.CreatedAt, n.ID })
	return out, nil
}

func (s *Store) CreateNote(ctx context.Context, n *api.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.notes[n.ID]; exists {
		return storage.ErrConflict
	}
	s.notes[n.ID] = copyNote(n)
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.CreatedBy != owner {
		return storage.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

// --- invoices ---

func (s *Store) ListInvoices(ctx context.Context, caseID string) ([]*api.Invoice, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*api.Invoice
	for _, inv := range s.invoices {
		if inv.CreatedBy != owner {
			continue
		}
		if caseID != "" && inv.CaseID != caseID {
			continue
		}
		out = append(out, copyInvoice(inv))
	}
	sortNewestFirst(out, func(i *api.Invoice) (time.Time, string) { return i.CreatedAt, i.ID })
	return out, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*api.Invoice, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok || inv.CreatedBy != owner {
		return nil, storage.ErrNotFound
	}
	return copyInvoice(inv), nil
}

// CreateInvoice assigns the invoice number from the owner's sequence
// before persisting.
func (s *Store) CreateInvoice(ctx context.Context, inv *api.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invoices[inv.ID]; exists {
		return storage.ErrConflict
	}
	s.invoiceSeq[inv.CreatedBy]++
	inv.InvoiceNumber = fmt.Sprintf("INV-%04d-%d", s.invoiceSeq[inv.CreatedBy], inv.CreatedAt.Year())
	s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *api.Invoice) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.invoices[inv.ID]
	if !ok || existing.CreatedBy != owner {
		return storage.ErrNotFound
	}
	s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	owner := storage.GetOwner(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok || inv.CreatedBy != owner {
		return storage.ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

// --- activities ---

func (s *Store) ListActivities(ctx context.Context, caseID string) ([]*api.Activity, error) {
	owner := storage.GetOwner(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*api.Activity
	for _, a := range s.activities {
		if a.CreatedBy != owner {
			continue
		}
		if caseID != "" && a.CaseID != caseID {
			continue
		}
		out = append(out, copyActivity(a))
	}
	sortNewestFirst(out, func(a *api.Activity) (time.Time, string) { return a.CreatedAt, a.ID })
	return out, nil
}

func (s *Store) ListRecentActivities(ctx context.Context, limit int) ([]*api.Activity, error) {
	out, err := s.ListActivities(ctx, "")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateActivity(ctx context.Context, a *api.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.activities[a.ID]; exists {
		return storage.ErrConflict
	}
	s.activities[a.ID] = copyActivity(a)
	return nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// sortNewestFirst orders records by creation time descending, breaking
// ties by ID for stable output.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

// Records are copied on the way in and out so callers can mutate what
// they hold without affecting stored state.

func copyUser(u *api.User) *api.User {
	c := *u
	if u.Pending != nil {
		p := *u.Pending
		c.Pending = &p
	}
	return &c
}

func copyCase(in *api.Case) *api.Case {
	c := *in
	if in.Tags != nil {
		c.Tags = append([]string(nil), in.Tags...)
	}
	return &c
}

func copyClient(in *api.Client) *api.Client     { c := *in; return &c }
func copyTask(in *api.Task) *api.Task           { c := *in; return &c }
func copyDocument(in *api.Document) *api.Document { c := *in; return &c }
func copyNote(in *api.Note) *api.Note           { c := *in; return &c }
func copyInvoice(in *api.Invoice) *api.Invoice  { c := *in; return &c }
func copyActivity(in *api.Activity) *api.Activity { c := *in; return &c }
