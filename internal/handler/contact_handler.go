package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portfolio-api/internal/repository"
)

// SubmitContact stores a contact form submission
func (h *Handlers) SubmitContact(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_error",
			Message: validationMessage(err, &req),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	contact, err := h.service.Submit(c.Request.Context(), req.Name, req.Email, *req.Message)
	if err != nil {
		logrus.WithError(err).Error("Failed to submit contact message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to submit contact message",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, SubmitContactResponse{
		Success: true,
		Message: "Contact message submitted successfully",
		ID:      contact.ID,
	})
}

// GetContacts returns all contact messages, newest first
func (h *Handlers) GetContacts(c *gin.Context) {
	contacts, err := h.service.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch contact messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch contact messages",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// GetContact returns a single contact message
func (h *Handlers) GetContact(c *gin.Context) {
	id := c.Param("id")

	contact, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Contact message not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		logrus.WithError(err).WithField("contact_id", id).Error("Failed to fetch contact message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch contact message",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateContactStatus sets the status given in the status query parameter
func (h *Handlers) UpdateContactStatus(c *gin.Context) {
	id := c.Param("id")

	status, ok := c.GetQuery("status")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_error",
			Message: "Missing required query parameter: status",
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Contact message not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		logrus.WithError(err).WithField("contact_id", id).Error("Failed to update contact status")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update contact status",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Status updated successfully",
	})
}
