package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/cabinetrenov/renov-api/config"
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/mailer"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// MailQueue accepts outgoing mails without blocking the caller
type MailQueue interface {
	Enqueue(msg mailer.Message) bool
}

var quoteMailTemplate = template.Must(template.New("quote").Parse(`<p>Bonjour</p>
<p>Une nouvelle demande de devis a été reçue.</p>
<p>Formation : {{.Formation}}<br>Client : {{.Name}} ({{.Email}})</p>
<p><a href="{{.URL}}">Ouvrir le tableau de bord</a></p>
<p>ID demande : #{{.ID}}</p>`))

// NotificationService persists back-office notifications and mails new quote requests
type NotificationService struct {
	notifications repository.NotificationStore
	users         repository.UserStore
	mail          MailQueue
	notifyEmails  []string
	dashboardURL  string
	now           func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifications repository.NotificationStore,
	users repository.UserStore,
	mail MailQueue,
	cfg *config.Config,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		mail:          mail,
		notifyEmails:  cfg.Notify.Emails,
		dashboardURL:  strings.TrimRight(cfg.Server.FrontURL, "/") + "/dashboard/students",
		now:           time.Now,
	}
}

// NotifyQuoteRequest mails the configured addresses and the admin, then stores exactly one
// notification: for the admin, or for the virtual recipient when no admin exists.
func (s *NotificationService) NotifyQuoteRequest(ctx context.Context, q *models.QuoteRequest) error {
	msg, err := quoteRequestMail(q, s.dashboardURL)
	if err != nil {
		return err
	}

	if len(s.notifyEmails) > 0 {
		routed := msg
		routed.To = s.notifyEmails
		s.enqueue(routed, q.ID)
	}

	admin, err := s.users.FirstAdmin(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}

	if err := s.store(ctx, admin, models.QuoteRequestPayload(q)); err != nil {
		return err
	}

	if admin != nil {
		direct := msg
		direct.To = []string{admin.Email}
		s.enqueue(direct, q.ID)
	}
	return nil
}

// NotifyContactMessage stores the notification of a new contact message. There is no mail channel.
func (s *NotificationService) NotifyContactMessage(ctx context.Context, m *models.ContactMessage) error {
	admin, err := s.users.FirstAdmin(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}
	return s.store(ctx, admin, models.ContactMessagePayload(m))
}

func (s *NotificationService) store(ctx context.Context, admin *models.User, payload models.NotificationPayload) error {
	recipientID := models.VirtualRecipientID
	recipient := "virtual"
	if admin != nil {
		recipientID = admin.ID
		recipient = "admin"
	}

	n := &models.Notification{
		ID:             uuid.NewString(),
		Type:           payload.Kind,
		NotifiableType: models.NotifiableUser,
		NotifiableID:   recipientID,
		Data:           payload,
		CreatedAt:      s.now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store %s notification: %w", payload.Kind, err)
	}

	metrics.NotificationsCreated.WithLabelValues(string(payload.Kind), recipient).Inc()
	logger.Info("Notification stored",
		zap.String("kind", string(payload.Kind)),
		zap.Int64("entity_id", payload.ID),
		zap.String("recipient", recipient))
	return nil
}

func (s *NotificationService) enqueue(msg mailer.Message, quoteID int64) {
	if !s.mail.Enqueue(msg) {
		logger.Warn("Quote request mail not queued", zap.Int64("quote_request_id", quoteID), zap.Strings("to", msg.To))
	}
}

func quoteRequestMail(q *models.QuoteRequest, dashboardURL string) (mailer.Message, error) {
	var body bytes.Buffer
	err := quoteMailTemplate.Execute(&body, map[string]interface{}{
		"ID":        q.ID,
		"Formation": q.Formation,
		"Name":      q.Name,
		"Email":     q.Email,
		"URL":       dashboardURL,
	})
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to render quote request mail: %w", err)
	}

	return mailer.Message{
		Subject: fmt.Sprintf("Nouvelle demande de devis #%d", q.ID),
		HTML:    body.String(),
		ReplyTo: q.Email,
	}, nil
}

// recipientFor scopes notification reads: the acting user, else the first admin, else everyone (nil)
func (s *NotificationService) recipientFor(ctx context.Context, actor *models.Actor) (*int64, error) {
	if actor != nil {
		id := actor.UserID
		return &id, nil
	}

	admin, err := s.users.FirstAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve notification recipient: %w", err)
	}
	if admin == nil {
		return nil, nil
	}
	return &admin.ID, nil
}

// List returns the latest notifications visible to actor
func (s *NotificationService) List(ctx context.Context, actor *models.Actor, limit int) ([]*models.Notification, error) {
	recipient, err := s.recipientFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.notifications.List(ctx, recipient, models.ClampNotificationLimit(limit))
}

// UnreadCount counts unread notifications visible to actor
func (s *NotificationService) UnreadCount(ctx context.Context, actor *models.Actor) (int, error) {
	recipient, err := s.recipientFor(ctx, actor)
	if err != nil {
		return 0, err
	}
	return s.notifications.CountUnread(ctx, recipient)
}

// MarkRead marks a notification read. The actor's own notifications are searched first,
// then every notification regardless of owner.
func (s *NotificationService) MarkRead(ctx context.Context, actor *models.Actor, id string) (*models.Notification, error) {
	recipient, err := s.recipientFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	var n *models.Notification
	if recipient != nil {
		n, err = s.notifications.Find(ctx, id, recipient)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	if n == nil {
		n, err = s.notifications.Find(ctx, id, nil)
		if err != nil {
			return nil, err
		}
		logger.Debug("Notification marked read outside of recipient scope", zap.String("id", id))
	}

	return s.notifications.MarkRead(ctx, n.ID, s.now())
}
