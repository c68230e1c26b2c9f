// Package exports builds CSV extracts of an organization's work orders and
// stores them in object storage behind expiring download links.
package exports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"easypcm_backend/internal/workorder/repository"
	"easypcm_backend/platform/logger"
)

const exportLimit = 10000

// WorkOrderLister is the slice of the lifecycle store the export needs.
type WorkOrderLister interface {
	List(ctx context.Context, orgID int64, status string, limit int) ([]repository.WorkOrder, error)
}

type Service struct {
	workOrders WorkOrderLister
	storage    *Storage
	logger     *logger.Logger
}

func NewService(workOrders WorkOrderLister, storage *Storage, log *logger.Logger) *Service {
	return &Service{workOrders: workOrders, storage: storage, logger: log}
}

// Result describes a finished export.
type Result struct {
	FileKey     string    `json:"fileKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
	RowCount    int       `json:"rowCount"`
}

// Export builds a CSV of the organization's work orders, optionally
// filtered by status, and uploads it.
func (s *Service) Export(ctx context.Context, orgID int64, status string) (Result, error) {
	orders, err := s.workOrders.List(ctx, orgID, status, exportLimit)
	if err != nil {
		return Result{}, err
	}

	data, err := BuildCSV(orders)
	if err != nil {
		return Result{}, fmt.Errorf("build csv: %w", err)
	}

	fileKey := fmt.Sprintf("org-%d/work-orders-%s-%s.csv",
		orgID, time.Now().UTC().Format("20060102-150405"), uuid.New().String()[:8])

	url, expiresAt, err := s.storage.Put(ctx, fileKey, data)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("export finished", "org_id", orgID, "file_key", fileKey, "rows", len(orders))
	return Result{FileKey: fileKey, DownloadURL: url, ExpiresAt: expiresAt, RowCount: len(orders)}, nil
}
