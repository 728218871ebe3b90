package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// NotificationKind tags what a notification is about
type NotificationKind string

const (
	NotificationNewQuoteRequest NotificationKind = "new_demande"
	NotificationNewContact      NotificationKind = "new_contact"
)

// VirtualRecipientID addresses notifications created while no admin user exists
const VirtualRecipientID int64 = 0

// NotifiableUser is the notifiable_type of notifications addressed to users
const NotifiableUser = "user"

const (
	DefaultNotificationLimit = 15
	MaxNotificationLimit     = 50
)

// ClampNotificationLimit applies the default and the cap of the notification list
func ClampNotificationLimit(limit int) int {
	if limit <= 0 {
		return DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		return MaxNotificationLimit
	}
	return limit
}

// NotificationPayload is the snapshot of the created entity stored with a notification.
// Formation is set for quote requests, Subject and Message for contact messages.
type NotificationPayload struct {
	Kind      NotificationKind `json:"kind"`
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     *string          `json:"phone"`
	Formation *string          `json:"formation,omitempty"`
	Subject   *string          `json:"subject,omitempty"`
	Message   *string          `json:"message,omitempty"`
	Status    string           `json:"status"`
}

// QuoteRequestPayload snapshots a quote request
func QuoteRequestPayload(q *QuoteRequest) NotificationPayload {
	formation := q.Formation
	return NotificationPayload{
		Kind:      NotificationNewQuoteRequest,
		ID:        q.ID,
		Name:      q.Name,
		Email:     q.Email,
		Phone:     q.Phone,
		Formation: &formation,
		Status:    string(q.Status),
	}
}

// ContactMessagePayload snapshots a contact message
func ContactMessagePayload(m *ContactMessage) NotificationPayload {
	phone := m.Phone
	body := m.Message
	return NotificationPayload{
		Kind:    NotificationNewContact,
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Phone:   &phone,
		Subject: m.Subject,
		Message: &body,
		Status:  string(m.Status),
	}
}

// Notification is a persisted back-office notification
type Notification struct {
	ID             string              `json:"id"`
	Type           NotificationKind    `json:"type"`
	NotifiableType string              `json:"-"`
	NotifiableID   int64               `json:"-"`
	Data           NotificationPayload `json:"data"`
	ReadAt         *time.Time          `json:"read_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"-"`
}

// NotificationColumns is the column list expected by ScanNotification
const NotificationColumns = `id, type, notifiable_type, notifiable_id, data, read_at, created_at, updated_at`

// ScanNotification scans a row selected with NotificationColumns
func ScanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	var data []byte

	err := row.Scan(
		&n.ID,
		&n.Type,
		&n.NotifiableType,
		&n.NotifiableID,
		&data,
		&n.ReadAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to decode notification data: %w", err)
		}
	}

	return &n, nil
}

// UnreadCount is the body of the unread counter endpoint
type UnreadCount struct {
	Count int `json:"count"`
}
