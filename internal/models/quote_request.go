package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// QuoteStatus is the processing status of a quote request
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "En attente"
	QuoteStatusProcessed QuoteStatus = "Traité"
	QuoteStatusArchived  QuoteStatus = "Archivé"
)

func (s QuoteStatus) IsValid() bool {
	return s == QuoteStatusPending || s == QuoteStatusProcessed || s == QuoteStatusArchived
}

// QuoteProcessorFallback is recorded as processor when the acting user is unknown
const QuoteProcessorFallback = "backoffice"

// QuoteRequest (demande de devis) is a quote request submitted from the public site
type QuoteRequest struct {
	ID              int64       `json:"id"`
	Formation       string      `json:"formation"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           *string     `json:"phone"`
	Notes           *string     `json:"notes"`
	Status          QuoteStatus `json:"status"`
	ProcessedAt     *time.Time  `json:"processed_at"`
	ProcessedBy     *string     `json:"processed_by"`
	TraitementNotes *string     `json:"traitement_notes"`
	ClientIP        *string     `json:"client_ip"`
	UserAgent       *string     `json:"user_agent"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	DeletedAt       *time.Time  `json:"deleted_at"`
	DeletedBy       *string     `json:"deleted_by"`
}

// ApplyStatus moves the request to status, keeping the attribution fields consistent:
// the first transition to processed stamps processed_at/processed_by, going back to
// pending clears both, any other status leaves them untouched.
func (q *QuoteRequest) ApplyStatus(status QuoteStatus, actor string, now time.Time) {
	q.Status = status

	switch status {
	case QuoteStatusProcessed:
		if q.ProcessedAt == nil {
			if strings.TrimSpace(actor) == "" {
				actor = QuoteProcessorFallback
			}
			q.ProcessedAt = &now
			q.ProcessedBy = &actor
		}
	case QuoteStatusPending:
		q.ProcessedAt = nil
		q.ProcessedBy = nil
	}
}

// CreateQuoteRequestInput is the public quote form.
// nom and telephone are accepted for the French front end.
type CreateQuoteRequestInput struct {
	Formation string  `json:"formation" binding:"required,min=3"`
	Name      string  `json:"name" binding:"required,min=3"`
	Nom       string  `json:"nom" binding:"-"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone" binding:"omitempty,min=6"`
	Telephone *string `json:"telephone" binding:"-"`
	Notes     *string `json:"notes" binding:"omitempty,max=5000"`
}

var (
	phoneDisallowedChars = regexp.MustCompile(`[^\d+()\s\-.]`)
	htmlTagPattern       = regexp.MustCompile(`<[^>]*>`)
)

// Normalize resolves aliases, trims text, strips phone noise and HTML from notes
func (in *CreateQuoteRequestInput) Normalize() {
	if in.Name == "" && in.Nom != "" {
		in.Name = in.Nom
	}
	if in.Phone == nil && in.Telephone != nil {
		in.Phone = in.Telephone
	}
	in.Nom, in.Telephone = "", nil

	in.Formation = strings.TrimSpace(in.Formation)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Phone != nil {
		phone := phoneDisallowedChars.ReplaceAllString(strings.TrimSpace(*in.Phone), "")
		in.Phone = nilIfEmpty(phone)
	}
	if in.Notes != nil {
		notes := strings.TrimSpace(htmlTagPattern.ReplaceAllString(*in.Notes, ""))
		in.Notes = nilIfEmpty(notes)
	}
}

// UpdateQuoteRequestInput is the back-office partial update. Nil fields are left unchanged.
type UpdateQuoteRequestInput struct {
	Status          *QuoteStatus `json:"status" binding:"omitempty,quote_status"`
	TraitementNotes *string      `json:"traitement_notes" binding:"omitempty,max=10000"`
	Name            *string      `json:"name" binding:"omitempty,min=2,max=255"`
	Email           *string      `json:"email" binding:"omitempty,email,max=255"`
	Phone           *string      `json:"phone" binding:"omitempty,max=50"`
	Formation       *string      `json:"formation" binding:"omitempty,min=2,max=255"`
	Notes           *string      `json:"notes" binding:"omitempty,max=5000"`
}

// Merge copies every supplied field onto the record. Status is applied separately.
func (in *UpdateQuoteRequestInput) Merge(q *QuoteRequest) {
	if in.Name != nil {
		q.Name = *in.Name
	}
	if in.Email != nil {
		q.Email = *in.Email
	}
	if in.Formation != nil {
		q.Formation = *in.Formation
	}
	if in.Phone != nil {
		q.Phone = nilIfEmpty(*in.Phone)
	}
	if in.Notes != nil {
		q.Notes = nilIfEmpty(*in.Notes)
	}
	if in.TraitementNotes != nil {
		q.TraitementNotes = nilIfEmpty(*in.TraitementNotes)
	}
}

// QuoteRequestFilter holds the back-office list filters
type QuoteRequestFilter struct {
	Search    string
	Status    string
	Formation string
	Page      int
}

// QuoteRequestColumns is the column list expected by ScanQuoteRequest
const QuoteRequestColumns = `id, formation, name, email, phone, notes, status, processed_at, processed_by,
	traitement_notes, client_ip, user_agent, created_at, updated_at, deleted_at, deleted_by`

// ScanQuoteRequest scans a row selected with QuoteRequestColumns
func ScanQuoteRequest(row pgx.Row) (*QuoteRequest, error) {
	var q QuoteRequest
	err := row.Scan(
		&q.ID,
		&q.Formation,
		&q.Name,
		&q.Email,
		&q.Phone,
		&q.Notes,
		&q.Status,
		&q.ProcessedAt,
		&q.ProcessedBy,
		&q.TraitementNotes,
		&q.ClientIP,
		&q.UserAgent,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.DeletedAt,
		&q.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
