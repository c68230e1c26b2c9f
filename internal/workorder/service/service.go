// Package service implements the work-order lifecycle: creation, listing,
// status updates and closure, plus material and technician registration.
package service

import (
	"context"
	"errors"
	"strings"

	"easypcm_backend/internal/events"
	"easypcm_backend/internal/workorder/repository"
	"easypcm_backend/platform/apperr"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel placeholder persisted instead of empty or null field values.
const NoInformation = "SEM INFORMAÇÃO"

// Canonical status values. The store accepts any string; this closed set is
// only enforced where the status menu is rendered and selected.
const (
	StatusOpen              = "ABERTA"
	StatusInProgress        = "EM_ANDAMENTO"
	StatusWaitingPurchase   = "AGUARDANDO_COMPRAS"
	StatusWaitingIT         = "AGUARDANDO_TI"
	StatusWaitingSafety     = "AGUARDANDO_SEGURANCA"
	StatusWaitingStoppage   = "AGUARDANDO_PARADA"
	StatusWaitingThirdParty = "AGUARDANDO_TERCEIRO"
	StatusWaitingOther      = "AGUARDANDO_OUTROS"
	StatusClosed            = "FECHADA"
	StatusCancelled         = "CANCELADA"
)

const workOrderNotFound = "OS não encontrada."

type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
}

func New(repo *repository.Repository, eventBus events.Bus) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
	}
}

// orEmpty replaces a blank value with the sentinel.
func orEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return NoInformation
	}
	return v
}

// CreateOpen records a new work order with status ABERTA. Blank fields are
// stored as the sentinel, never as empty strings.
func (s *Service) CreateOpen(ctx context.Context, orgID int64, chatID, equipment, sector, problem, stopped string) (repository.WorkOrder, error) {
	wo, err := s.repo.Create(ctx, repository.WorkOrder{
		OrganizationID:     orgID,
		ChatID:             chatID,
		Equipment:          orEmpty(equipment),
		Sector:             orEmpty(sector),
		Requester:          NoInformation,
		Executor:           NoInformation,
		ProblemDescription: orEmpty(problem),
		MaintenanceType:    NoInformation,
		Stopped:            orEmpty(stopped),
		Status:             StatusOpen,
		SolutionApplied:    NoInformation,
		PartsCost:          NoInformation,
	})
	if err != nil {
		return repository.WorkOrder{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.WorkOrderOpened{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: wo.OrganizationID,
			WorkOrderID:    wo.ID,
			Equipment:      wo.Equipment,
			Sector:         wo.Sector,
		})
	}

	return wo, nil
}

// ExtractedFields carries the ten structured fields produced by the
// free-text extraction collaborator, already normalized to sentinels.
type ExtractedFields struct {
	Equipment          string
	Sector             string
	Requester          string
	Executor           string
	ProblemDescription string
	MaintenanceType    string
	Status             string
	TimeSpentMinutes   int
	PartsCost          string
	SolutionApplied    string
}

// CreateFromExtraction persists a work order assembled from free-form
// technician narration, keeping the original text as source.
func (s *Service) CreateFromExtraction(ctx context.Context, orgID int64, chatID string, f ExtractedFields, sourceText string) (repository.WorkOrder, error) {
	wo, err := s.repo.Create(ctx, repository.WorkOrder{
		OrganizationID:     orgID,
		ChatID:             chatID,
		Equipment:          orEmpty(f.Equipment),
		Sector:             orEmpty(f.Sector),
		Requester:          orEmpty(f.Requester),
		Executor:           orEmpty(f.Executor),
		ProblemDescription: orEmpty(f.ProblemDescription),
		MaintenanceType:    orEmpty(f.MaintenanceType),
		Stopped:            NoInformation,
		Status:             orEmpty(f.Status),
		SolutionApplied:    orEmpty(f.SolutionApplied),
		TimeSpentMinutes:   f.TimeSpentMinutes,
		PartsCost:          orEmpty(f.PartsCost),
		SourceText:         sourceText,
	})
	if err != nil {
		return repository.WorkOrder{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.WorkOrderOpened{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: wo.OrganizationID,
			WorkOrderID:    wo.ID,
			Equipment:      wo.Equipment,
			Sector:         wo.Sector,
		})
	}

	return wo, nil
}

// ListOpen returns the organization's open work orders, newest first.
func (s *Service) ListOpen(ctx context.Context, orgID int64, limit int) ([]repository.WorkOrder, error) {
	return s.repo.ListOpen(ctx, orgID, limit)
}

// List returns the organization's work orders, optionally filtered by status.
func (s *Service) List(ctx context.Context, orgID int64, status string, limit int) ([]repository.WorkOrder, error) {
	return s.repo.List(ctx, orgID, status, limit)
}

// Get fetches one work order scoped to the organization.
func (s *Service) Get(ctx context.Context, orgID, workOrderID int64) (repository.WorkOrder, error) {
	wo, err := s.repo.Get(ctx, orgID, workOrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.WorkOrder{}, apperr.NotFound(workOrderNotFound)
	}
	return wo, err
}

// Close transitions the work order to FECHADA exactly once. A repeated close
// attempt misses the open set and surfaces as not found.
func (s *Service) Close(ctx context.Context, orgID, workOrderID int64, solution string, minutes int, partsCost string) (repository.WorkOrder, error) {
	wo, err := s.repo.Close(ctx, orgID, workOrderID, orEmpty(solution), minutes, orEmpty(partsCost))
	if errors.Is(err, repository.ErrNotFound) {
		return repository.WorkOrder{}, apperr.NotFound(workOrderNotFound)
	}
	if err != nil {
		return repository.WorkOrder{}, err
	}

	if s.eventBus != nil {
		techs, techErr := s.repo.ListTechnicians(ctx, wo.ID)
		if techErr != nil {
			techs = nil
		}
		s.eventBus.Publish(ctx, events.WorkOrderClosed{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: wo.OrganizationID,
			WorkOrderID:    wo.ID,
			Equipment:      wo.Equipment,
			Sector:         wo.Sector,
			Solution:       wo.SolutionApplied,
			Minutes:        wo.TimeSpentMinutes,
			PartsCost:      wo.PartsCost,
			Technicians:    techs,
		})
	}

	return wo, nil
}

// UpdateStatus overwrites the status and observation and stamps the change.
func (s *Service) UpdateStatus(ctx context.Context, orgID, workOrderID int64, status, note string) (repository.WorkOrder, error) {
	wo, err := s.repo.UpdateStatus(ctx, orgID, workOrderID, status, strings.TrimSpace(note))
	if errors.Is(err, repository.ErrNotFound) {
		return repository.WorkOrder{}, apperr.NotFound(workOrderNotFound)
	}
	if err != nil {
		return repository.WorkOrder{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.WorkOrderStatusUpdated{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: wo.OrganizationID,
			WorkOrderID:    wo.ID,
			Status:         wo.Status,
			Note:           wo.StatusNote,
		})
	}

	return wo, nil
}

// AddMaterials records one free-text row per description.
func (s *Service) AddMaterials(ctx context.Context, workOrderID int64, descriptions []string) error {
	return s.repo.AddMaterials(ctx, workOrderID, descriptions)
}

// ListMaterials returns the material descriptions, insertion order.
func (s *Service) ListMaterials(ctx context.Context, workOrderID int64) ([]string, error) {
	materials, err := s.repo.ListMaterials(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	descriptions := make([]string, 0, len(materials))
	for _, m := range materials {
		descriptions = append(descriptions, m.Description)
	}
	return descriptions, nil
}

// AddTechnicians canonicalizes each name and registers it against the work
// order, returning the canonical forms saved. Re-registering the same
// technician is a no-op.
func (s *Service) AddTechnicians(ctx context.Context, workOrderID int64, names []string) ([]string, error) {
	saved := make([]string, 0, len(names))
	for _, name := range names {
		canonical := s.CanonicalName(name)
		if canonical == "" {
			continue
		}
		if err := s.repo.AddTechnician(ctx, workOrderID, canonical); err != nil {
			return saved, err
		}
		saved = append(saved, canonical)
	}
	return saved, nil
}

// ListTechnicians returns the sorted canonical technician names.
func (s *Service) ListTechnicians(ctx context.Context, workOrderID int64) ([]string, error) {
	return s.repo.ListTechnicians(ctx, workOrderID)
}

// CanonicalName normalizes a technician name: whitespace collapsed, each
// space-delimited token title-cased ("joão  da silva" → "João Da Silva").
// A cases.Caser carries transform state and is not safe for concurrent use,
// so one is built per call; webhook and API requests canonicalize in parallel.
func (s *Service) CanonicalName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	if collapsed == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(collapsed)
}
