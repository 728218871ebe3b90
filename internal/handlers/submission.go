package handlers

import (
	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/gin-gonic/gin"
)

func submissionContext(c *gin.Context) models.SubmissionContext {
	return models.SubmissionContext{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	}
}
