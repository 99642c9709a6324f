package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/financehub/financehub-backend/internal/repository/storage"
	"github.com/google/uuid"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 800
	JPEGQuality      = 85
	// receiptURLExpiry bounds how long a presigned receipt link stays valid
	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrReceiptInvalidData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
	ErrNoReceipt                   = errors.New("transaction has no receipt")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptURLs contains presigned URLs for the stored receipt variants
type ReceiptURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService attaches receipt images to transactions: validation,
// resizing, object storage, and presigned read access.
type ReceiptService struct {
	storage         storage.ReceiptRepository
	transactionRepo domain.TransactionRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, transactionRepo domain.TransactionRepository) *ReceiptService {
	return &ReceiptService{storage: storage, transactionRepo: transactionRepo}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrReceiptInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}
	return img, nil
}

// Attach validates, resizes, and stores a receipt image for a transaction,
// then records its object key on the transaction row. Re-attaching replaces
// the previous receipt.
func (s *ReceiptService) Attach(ctx context.Context, userID uuid.UUID, transactionID int32, data []byte, filename string) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	tx, err := s.transactionRepo.GetByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	// Old variants become unreachable once the key is replaced; delete them
	// first so they don't linger in the bucket.
	if tx.ReceiptKey != nil {
		s.deleteVariants(ctx, *tx.ReceiptKey)
	}

	baseKey := fmt.Sprintf("receipts/%s/%d/%s", userID, transactionID, uuid.New())

	display := imaging.Resize(img, DisplayWidth, 0, imaging.Lanczos)
	thumbnail := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)

	uploads := []struct {
		suffix string
		img    image.Image
	}{
		{"original", img},
		{"display", display},
		{"thumb", thumbnail},
	}
	for _, u := range uploads {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, u.img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode %s variant: %w", u.suffix, err)
		}
		key := fmt.Sprintf("%s_%s.jpg", baseKey, u.suffix)
		if _, err := s.storage.Upload(ctx, key, &buf, "image/jpeg", int64(buf.Len())); err != nil {
			return nil, err
		}
	}

	if _, err := s.transactionRepo.SetReceiptKey(ctx, userID, transactionID, &baseKey); err != nil {
		return nil, err
	}
	return s.urls(ctx, baseKey)
}

// URLs returns presigned URLs for a transaction's receipt variants.
func (s *ReceiptService) URLs(ctx context.Context, userID uuid.UUID, transactionID int32) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	tx, err := s.transactionRepo.GetByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.ReceiptKey == nil {
		return nil, ErrNoReceipt
	}
	return s.urls(ctx, *tx.ReceiptKey)
}

// Remove deletes a transaction's receipt variants and clears the key.
func (s *ReceiptService) Remove(ctx context.Context, userID uuid.UUID, transactionID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	tx, err := s.transactionRepo.GetByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	if tx.ReceiptKey == nil {
		return ErrNoReceipt
	}

	s.deleteVariants(ctx, *tx.ReceiptKey)
	_, err = s.transactionRepo.SetReceiptKey(ctx, userID, transactionID, nil)
	return err
}

func (s *ReceiptService) urls(ctx context.Context, baseKey string) (*ReceiptURLs, error) {
	thumb, err := s.storage.GeneratePresignedURL(ctx, baseKey+"_thumb.jpg", receiptURLExpiry)
	if err != nil {
		return nil, err
	}
	display, err := s.storage.GeneratePresignedURL(ctx, baseKey+"_display.jpg", receiptURLExpiry)
	if err != nil {
		return nil, err
	}
	original, err := s.storage.GeneratePresignedURL(ctx, baseKey+"_original.jpg", receiptURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ReceiptURLs{ThumbnailURL: thumb, DisplayURL: display, OriginalURL: original}, nil
}

func (s *ReceiptService) deleteVariants(ctx context.Context, baseKey string) {
	for _, suffix := range []string{"_original.jpg", "_display.jpg", "_thumb.jpg"} {
		// Best effort; a dangling object is preferable to failing the request.
		_ = s.storage.Delete(ctx, baseKey+suffix)
	}
}
