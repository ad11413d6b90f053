package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedReceiptExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true, ".pdf": true,
}

// AttachmentService stores receipt files on disk and links them to
// transactions. Files are served from /uploads.
type AttachmentService struct {
	attachmentRepo repository.AttachmentStore
	txRepo         repository.TransactionStore
	uploadDir      string
	maxSize        int64
	logger         *zap.Logger
}

func NewAttachmentService(
	attachmentRepo repository.AttachmentStore,
	txRepo repository.TransactionStore,
	uploadDir string,
	maxSize int64,
	logger *zap.Logger,
) *AttachmentService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		txRepo:         txRepo,
		uploadDir:      uploadDir,
		maxSize:        maxSize,
		logger:         logger,
	}
}

func (s *AttachmentService) Upload(ctx context.Context, userID, transactionID uuid.UUID, file io.Reader, fileName string, size int64) (*dto.AttachmentResponse, error) {
	if _, err := s.txRepo.GetByID(ctx, userID, transactionID); err != nil {
		return nil, storeErr(err)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedReceiptExt[ext] {
		return nil, invalid("unsupported file type %q", ext)
	}
	if size > s.maxSize {
		return nil, invalid("file exceeds %d bytes", s.maxSize)
	}

	fileID := uuid.New()
	newFileName := fileID.String() + ext
	filePath := filepath.Join(s.uploadDir, newFileName)

	fileSize, err := writeFile(filePath, file, s.maxSize)
	if err != nil {
		os.Remove(filePath)
		return nil, err
	}

	a := &models.Attachment{
		ID:            fileID,
		UserID:        userID,
		TransactionID: transactionID,
		FileName:      sanitizeUTF8(filepath.Base(fileName)),
		FileSize:      fileSize,
		FileURL:       "/uploads/" + newFileName,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.attachmentRepo.Create(ctx, a); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	return toAttachmentResponse(a), nil
}

// writeFile copies at most limit bytes of r to path. The file is closed
// before returning so that a failed flush is reported.
func writeFile(path string, r io.Reader, limit int64) (int64, error) {
	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	// one extra byte detects bodies larger than the declared size
	n, err := io.Copy(dst, io.LimitReader(r, limit+1))
	if closeErr := dst.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	if n > limit {
		return 0, invalid("file exceeds %d bytes", limit)
	}
	return n, nil
}

func (s *AttachmentService) List(ctx context.Context, userID, transactionID uuid.UUID) ([]*dto.AttachmentResponse, error) {
	if _, err := s.txRepo.GetByID(ctx, userID, transactionID); err != nil {
		return nil, storeErr(err)
	}
	attachments, err := s.attachmentRepo.ListByTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, toAttachmentResponse(a))
	}
	return out, nil
}

func toAttachmentResponse(a *models.Attachment) *dto.AttachmentResponse {
	return &dto.AttachmentResponse{
		ID:        a.ID.String(),
		FileName:  a.FileName,
		FileSize:  a.FileSize,
		FileURL:   a.FileURL,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}
