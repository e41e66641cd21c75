package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"smart-contact-form/internal/service"
	"smart-contact-form/internal/store"
)

const securityCheckFailedMessage = "Security check failed."

// SubmitForm handles a contact-form submission
func (h *Handlers) SubmitForm(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, FormResponse{
			Success: false,
			Data:    "Invalid request body.",
		})
		return
	}

	outcome := h.service.Submit(req.Name, req.Email, req.Message)
	switch outcome.Status {
	case service.Accepted:
		c.JSON(http.StatusOK, FormResponse{Success: true, Data: outcome.Confirmation})
	case service.Rejected:
		c.JSON(http.StatusBadRequest, FormResponse{Success: false, Data: outcome.FieldErrors})
	default:
		c.JSON(http.StatusInternalServerError, FormResponse{Success: false, Data: outcome.Message})
	}
}

// ListSubmissions returns recent submissions as JSON for the admin API.
// Field values are returned as stored; consumers rendering markup must
// escape them.
func (h *Handlers) ListSubmissions(c *gin.Context) {
	limit := h.admin.ListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "Limit must be a positive integer",
				Code:    http.StatusBadRequest,
			})
			return
		}
		limit = parsed
	}

	submissions, err := h.service.ListSubmissions(limit)
	if err != nil {
		if errors.Is(err, store.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "Limit must be a positive integer",
				Code:    http.StatusBadRequest,
			})
			return
		}
		logrus.WithError(err).Error("Failed to list submissions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch submissions",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, SubmissionResponse{
			ID:        submission.ID,
			Name:      submission.Name,
			Email:     submission.Email,
			Message:   submission.Message,
			CreatedAt: submission.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// GetFormToken issues a fresh anti-forgery token for API clients that do
// not load the form page
func (h *Handlers) GetFormToken(c *gin.Context) {
	c.JSON(http.StatusOK, FormTokenResponse{Token: h.tokens.Issue(time.Now())})
}

// VerifyFormToken rejects submissions without a valid anti-forgery token.
// The token travels in the X-Form-Token header or the token form field.
func (h *Handlers) VerifyFormToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.security.RequireToken {
			c.Next()
			return
		}

		tok := c.GetHeader("X-Form-Token")
		if tok == "" {
			tok = c.PostForm("token")
		}

		if err := h.tokens.Verify(tok, time.Now()); err != nil {
			h.metrics.TokenFailures.Inc()
			logrus.WithError(err).Warn("Form token verification failed")
			c.AbortWithStatusJSON(http.StatusForbidden, FormResponse{
				Success: false,
				Data:    securityCheckFailedMessage,
			})
			return
		}
		c.Next()
	}
}
