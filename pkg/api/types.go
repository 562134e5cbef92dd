// Package api defines the CogniCase domain types shared by transport,
// storage, and the auth service.
package api

import (
	"crypto/subtle"
	"time"
)

// Role is the professional role of an account holder.
type Role string

const (
	RoleAttorney  Role = "Attorney"
	RoleParalegal Role = "Paralegal"
	RolePartner   Role = "Partner"
	RoleAdmin     Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAttorney, RoleParalegal, RolePartner, RoleAdmin:
		return true
	}
	return false
}

// PendingCode is the one-time passcode currently awaiting verification
// for an account, together with its expiry. The two fields are always
// set together: a user either has a complete pending code or none at all.
type PendingCode struct {
	Code      string
	ExpiresAt time.Time
}

// NewPendingCode constructs a pending code expiring at the given time.
func NewPendingCode(code string, expiresAt time.Time) *PendingCode {
	return &PendingCode{Code: code, ExpiresAt: expiresAt}
}

// Matches compares a submitted code against the pending one in constant time.
func (p *PendingCode) Matches(code string) bool {
	if p == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.Code), []byte(code)) == 1
}

// Expired reports whether the code's validity window has elapsed at now.
func (p *PendingCode) Expired(now time.Time) bool {
	if p == nil {
		return true
	}
	return !p.ExpiresAt.After(now)
}

// User is one tenant identity. The pending code is never serialized to
// clients.
type User struct {
	ID              string       `json:"id"`
	Email           string       `json:"email"`
	Name            string       `json:"name"`
	Role            Role         `json:"role"`
	Organization    string       `json:"organization,omitempty"`
	PracticeArea    string       `json:"practiceArea,omitempty"`
	ExperienceYears string       `json:"experienceYears,omitempty"`
	IsOnboarded     bool         `json:"isOnboarded"`
	Pending         *PendingCode `json:"-"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CaseStatus is the lifecycle state of a case.
type CaseStatus string

const (
	CaseOpen       CaseStatus = "Open"
	CaseInProgress CaseStatus = "InProgress"
	CaseClosed     CaseStatus = "Closed"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case CaseOpen, CaseInProgress, CaseClosed:
		return true
	}
	return false
}

// Priority is shared by cases and tasks.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Case is a legal matter tracked by one account. The client is stored as
// a plain name; ClientID is only set when a real Client record exists.
type Case struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ClientID      string     `json:"clientId,omitempty"`
	ClientName    string     `json:"clientName,omitempty"`
	Status        CaseStatus `json:"status"`
	Priority      Priority   `json:"priority"`
	CaseType      string     `json:"caseType,omitempty"`
	Court         string     `json:"court,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	BillableHours float64    `json:"billableHours"`
	Tags          []string   `json:"tags,omitempty"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Client is a person or company an account works for.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskOnHold     TaskStatus = "On Hold"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted, TaskOnHold:
		return true
	}
	return false
}

// Task is a to-do item, optionally linked to a case.
type Task struct {
	ID          string     `json:"id"`
	CaseID      string     `json:"caseId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Document is uploaded file metadata, optionally linked to a case.
// The file bytes themselves live in blob storage under FileURL.
type Document struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"caseId,omitempty"`
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	Category    string    `json:"category,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
	FileSize    string    `json:"fileSize,omitempty"`
	FileType    string    `json:"fileType,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Note is a free-form note attached to a case.
type Note struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"caseId"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceSent    InvoiceStatus = "Sent"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// Invoice is a bill issued against a case.
type Invoice struct {
	ID            string        `json:"id"`
	CaseID        string        `json:"caseId"`
	ClientName    string        `json:"clientName"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Amount        float64       `json:"amount"`
	HourlyRate    float64       `json:"hourlyRate"`
	Hours         float64       `json:"hours"`
	Description   string        `json:"description,omitempty"`
	Status        InvoiceStatus `json:"status"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	CreatedBy     string        `json:"createdBy"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ActivityType classifies a case history entry.
type ActivityType string

const (
	ActivityCaseCreated   ActivityType = "CASE_CREATED"
	ActivityStatusChanged ActivityType = "STATUS_CHANGED"
	ActivityTaskAdded     ActivityType = "TASK_ADDED"
	ActivityDocumentAdded ActivityType = "DOCUMENT_ADDED"
	ActivityNoteAdded     ActivityType = "NOTE_ADDED"
)

// Activity is one entry in a case's history feed. User is the display
// name of whoever caused the event.
type Activity struct {
	ID        string       `json:"id"`
	CaseID    string       `json:"caseId"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message,omitempty"`
	User      string       `json:"user,omitempty"`
	CreatedBy string       `json:"createdBy"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
