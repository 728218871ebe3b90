package services

import (
	"context"
	"strconv"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"go.uber.org/zap"
)

// ContactMessagesPerPage is the back-office page size of contact messages
const ContactMessagesPerPage = 25

// ContactService handles messages of the public contact form
type ContactService struct {
	repo     repository.ContactMessageStore
	notifier Notifier
	now      func() time.Time
}

// NewContactService creates a new contact service instance
func NewContactService(repo repository.ContactMessageStore, notifier Notifier) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create stores a contact message. Honeypot hits are stored too, archived and flagged as spam.
func (s *ContactService) Create(ctx context.Context, in *models.CreateContactMessageInput, sub models.SubmissionContext) (*models.ContactMessage, error) {
	msg := models.NewContactMessage(*in, sub)

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	metrics.ContactMessagesReceived.WithLabelValues(strconv.FormatBool(msg.IsSpam)).Inc()

	if msg.IsSpam {
		logger.Warn("Contact message flagged as spam", zap.Int64("id", msg.ID), zap.String("ip", sub.IP))
	}

	if err := s.notifier.NotifyContactMessage(ctx, msg); err != nil {
		logger.Error("Failed to notify contact message", zap.Int64("id", msg.ID), zap.Error(err))
	}
	return msg, nil
}

// List returns one page of active contact messages
func (s *ContactService) List(ctx context.Context, filter models.ContactMessageFilter) (models.Page[*models.ContactMessage], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	items, total, err := s.repo.List(ctx, filter, ContactMessagesPerPage)
	if err != nil {
		return models.Page[*models.ContactMessage]{}, err
	}
	return models.NewPage(items, filter.Page, ContactMessagesPerPage, total), nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.ContactMessage, error) {
	return s.repo.GetByID(ctx, id)
}

// Update sets status and notes and stamps the processor on every call
func (s *ContactService) Update(ctx context.Context, id int64, in *models.UpdateContactMessageInput, actor *models.Actor) (*models.ContactMessage, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(msg, models.ActorName(actor), s.now())

	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete moves a contact message to the trash
func (s *ContactService) Delete(ctx context.Context, id int64, actor *models.Actor) error {
	return softDelete(ctx, s.repo, id, actor)
}
