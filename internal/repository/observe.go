package repository

import (
	"errors"
	"time"

	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// observe records duration and outcome of a database call
func observe(operation string, start time.Time, err error, fields ...zap.Field) {
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, apperrors.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
		fields = append(fields, zap.Error(err))
	}

	duration := metrics.RecordDB(operation, status, start)
	logger.LogDBCall(operation, status, duration, fields...)
}
