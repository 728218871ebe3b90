package services

import (
	"context"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"go.uber.org/zap"
)

// QuoteRequestsPerPage is the back-office page size of quote requests
const QuoteRequestsPerPage = 20

// QuoteRequestService handles quote requests (demandes de devis)
type QuoteRequestService struct {
	repo     repository.QuoteRequestStore
	notifier Notifier
	now      func() time.Time
}

// NewQuoteRequestService creates a new quote request service
func NewQuoteRequestService(repo repository.QuoteRequestStore, notifier Notifier) *QuoteRequestService {
	return &QuoteRequestService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create stores a public quote request as pending and notifies the back office.
// Notification failures are logged and never fail the creation.
func (s *QuoteRequestService) Create(ctx context.Context, in *models.CreateQuoteRequestInput, sub models.SubmissionContext) (*models.QuoteRequest, error) {
	q := &models.QuoteRequest{
		Formation: in.Formation,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
		Status:    models.QuoteStatusPending,
	}
	if sub.IP != "" {
		q.ClientIP = &sub.IP
	}
	if sub.UserAgent != "" {
		q.UserAgent = &sub.UserAgent
	}

	if err := s.repo.Create(ctx, q); err != nil {
		metrics.QuoteRequestsCreated.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.QuoteRequestsCreated.WithLabelValues("success").Inc()

	if err := s.notifier.NotifyQuoteRequest(ctx, q); err != nil {
		logger.Error("Failed to notify quote request", zap.Int64("id", q.ID), zap.Error(err))
	}
	return q, nil
}

// List returns one page of active quote requests
func (s *QuoteRequestService) List(ctx context.Context, filter models.QuoteRequestFilter) (models.Page[*models.QuoteRequest], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	items, total, err := s.repo.List(ctx, filter, QuoteRequestsPerPage)
	if err != nil {
		return models.Page[*models.QuoteRequest]{}, err
	}
	return models.NewPage(items, filter.Page, QuoteRequestsPerPage, total), nil
}

// Get returns an active quote request
func (s *QuoteRequestService) Get(ctx context.Context, id int64) (*models.QuoteRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// Update merges the supplied fields, then applies the status transition when a status is given
func (s *QuoteRequestService) Update(ctx context.Context, id int64, in *models.UpdateQuoteRequestInput, actor *models.Actor) (*models.QuoteRequest, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := q.Status
	in.Merge(q)
	if in.Status != nil {
		q.ApplyStatus(*in.Status, models.ActorName(actor), s.now())
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}

	if in.Status != nil && from != q.Status {
		metrics.QuoteRequestStatusUpdates.WithLabelValues(string(from), string(q.Status)).Inc()
		logger.Info("Quote request status changed",
			zap.Int64("id", q.ID),
			zap.String("from", string(from)),
			zap.String("to", string(q.Status)))
	}
	return q, nil
}

// Delete moves a quote request to the trash
func (s *QuoteRequestService) Delete(ctx context.Context, id int64, actor *models.Actor) error {
	return softDelete(ctx, s.repo, id, actor)
}
