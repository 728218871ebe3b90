package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// ContactStatus is the handling status of a contact message
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "Nouveau"
	ContactStatusRead      ContactStatus = "Lu"
	ContactStatusProcessed ContactStatus = "Traité"
	ContactStatusArchived  ContactStatus = "Archivé"
)

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusProcessed, ContactStatusArchived:
		return true
	default:
		return false
	}
}

// ContactProcessorFallback is recorded as processor when the acting user is unknown
const ContactProcessorFallback = "Admin"

// ContactMeta is extra request data captured at submission
type ContactMeta struct {
	Referer *string `json:"referer"`
}

// ContactMessage is a message sent through the public contact form
type ContactMessage struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Company       *string       `json:"company"`
	Subject       *string       `json:"subject"`
	Message       string        `json:"message"`
	Website       *string       `json:"website"`
	IsSpam        bool          `json:"is_spam"`
	Status        ContactStatus `json:"status"`
	InternalNotes *string       `json:"internal_notes"`
	ProcessedBy   *string       `json:"processed_by"`
	ProcessedAt   *time.Time    `json:"processed_at"`
	IPAddress     *string       `json:"ip_address"`
	UserAgent     *string       `json:"user_agent"`
	Meta          ContactMeta   `json:"meta"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeletedAt     *time.Time    `json:"deleted_at"`
	DeletedBy     *string       `json:"deleted_by"`
}

// SubmissionContext is the request metadata stored with a contact message
type SubmissionContext struct {
	IP        string
	UserAgent string
	Referer   string
}

// CreateContactMessageInput is the public contact form. Website is a honeypot field.
type CreateContactMessageInput struct {
	Name    string  `json:"name" binding:"required,max=120"`
	Email   string  `json:"email" binding:"required,email,max=255"`
	Phone   string  `json:"phone" binding:"required,max=30,phone"`
	Company *string `json:"company" binding:"omitempty,max=150"`
	Subject *string `json:"subject" binding:"omitempty,max=180"`
	Message string  `json:"message" binding:"required,max=65535"`
	Website *string `json:"website" binding:"omitempty,max=200"`
}

var (
	phoneSeparators  = regexp.MustCompile(`[\s\-]+`)
	contactPhoneRule = regexp.MustCompile(`^\+?\d{6,15}$`)
)

// IsValidContactPhone checks a phone already stripped of spaces and dashes
func IsValidContactPhone(phone string) bool {
	return contactPhoneRule.MatchString(phone)
}

// Normalize removes spaces and dashes from the phone number
func (in *CreateContactMessageInput) Normalize() {
	in.Phone = phoneSeparators.ReplaceAllString(in.Phone, "")
}

// NewContactMessage builds the message to store. A filled honeypot marks it as spam
// and files it directly as archived.
func NewContactMessage(in CreateContactMessageInput, sub SubmissionContext) *ContactMessage {
	isSpam := in.Website != nil && *in.Website != ""

	status := ContactStatusNew
	if isSpam {
		status = ContactStatusArchived
	}

	msg := &ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Subject:   in.Subject,
		Message:   in.Message,
		Website:   in.Website,
		IsSpam:    isSpam,
		Status:    status,
		IPAddress: nilIfEmpty(sub.IP),
		UserAgent: &sub.UserAgent,
		Meta:      ContactMeta{Referer: nilIfEmpty(sub.Referer)},
	}
	return msg
}

// UpdateContactMessageInput is the back-office update of a contact message
type UpdateContactMessageInput struct {
	Status        *ContactStatus `json:"status" binding:"omitempty,contact_status"`
	InternalNotes *string        `json:"internal_notes"`
}

// Apply sets status and notes as given and stamps the processor on every call
func (in *UpdateContactMessageInput) Apply(m *ContactMessage, actor string, now time.Time) {
	if in.Status != nil {
		m.Status = *in.Status
	}
	if in.InternalNotes != nil {
		m.InternalNotes = nilIfEmpty(strings.TrimSpace(*in.InternalNotes))
	}

	if strings.TrimSpace(actor) == "" {
		actor = ContactProcessorFallback
	}
	m.ProcessedBy = &actor
	m.ProcessedAt = &now
}

// ContactMessageFilter holds the back-office list filters
type ContactMessageFilter struct {
	Status string
	Page   int
}

// ContactMessageColumns is the column list expected by ScanContactMessage
const ContactMessageColumns = `id, name, email, phone, company, subject, message, website, is_spam, status,
	internal_notes, processed_by, processed_at, ip_address, user_agent, meta, created_at, updated_at,
	deleted_at, deleted_by`

// ScanContactMessage scans a row selected with ContactMessageColumns
func ScanContactMessage(row pgx.Row) (*ContactMessage, error) {
	var m ContactMessage
	var meta []byte

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Company,
		&m.Subject,
		&m.Message,
		&m.Website,
		&m.IsSpam,
		&m.Status,
		&m.InternalNotes,
		&m.ProcessedBy,
		&m.ProcessedAt,
		&m.IPAddress,
		&m.UserAgent,
		&meta,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
		&m.DeletedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &m.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode contact meta: %w", err)
		}
	}

	return &m, nil
}
