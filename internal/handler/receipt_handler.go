package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/middleware"
	"github.com/financehub/financehub-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt image HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// UploadReceipt godoc
// @Summary Attach a receipt image to a transaction
// @Description Uploads a receipt image, stores resized variants, and returns presigned URLs
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Transaction ID"
// @Param file formData file true "Receipt image (JPEG, PNG, WebP)"
// @Success 201 {object} service.ReceiptURLs
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/{id}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	// Without storage there is nothing to upload to; fail before reading the body.
	if !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	transactionID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", []ValidationError{
			{Field: "id", Message: "Must be a positive integer"},
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded receipt")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded receipt")
		return NewInternalError(c, "Failed to read file")
	}

	urls, err := h.receiptService.Attach(c.Request().Context(), userID, transactionID, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrReceiptInvalidFormat),
			errors.Is(err, service.ErrReceiptTooSmall),
			errors.Is(err, service.ErrReceiptInvalidData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: err.Error()},
			})
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Int32("transaction_id", transactionID).Msg("Failed to attach receipt")
			return NewInternalError(c, "Failed to upload receipt")
		}
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("transaction_id", transactionID).
		Msg("Receipt attached")

	return c.JSON(http.StatusCreated, urls)
}

// GetReceipt godoc
// @Summary Get presigned URLs for a transaction's receipt
// @Tags receipts
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} service.ReceiptURLs
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	transactionID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", []ValidationError{
			{Field: "id", Message: "Must be a positive integer"},
		})
	}

	urls, err := h.receiptService.URLs(c.Request().Context(), userID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrNoReceipt):
			return NewNotFoundError(c, "Transaction has no receipt")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Int32("transaction_id", transactionID).Msg("Failed to get receipt URLs")
			return NewInternalError(c, "Failed to get receipt")
		}
	}

	return c.JSON(http.StatusOK, urls)
}

// DeleteReceipt godoc
// @Summary Remove a transaction's receipt
// @Tags receipts
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id}/receipt [delete]
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt deletion is disabled (storage not configured)")
	}

	transactionID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", []ValidationError{
			{Field: "id", Message: "Must be a positive integer"},
		})
	}

	err = h.receiptService.Remove(c.Request().Context(), userID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrNoReceipt):
			return NewNotFoundError(c, "Transaction has no receipt")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Int32("transaction_id", transactionID).Msg("Failed to remove receipt")
			return NewInternalError(c, "Failed to remove receipt")
		}
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("transaction_id", transactionID).
		Msg("Receipt removed")

	return c.NoContent(http.StatusNoContent)
}
