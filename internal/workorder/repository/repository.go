// Package repository provides data access for work orders, their materials
// and their technician assignments. Every work-order query is scoped by
// organization id; cross-tenant lookups miss instead of erroring.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type WorkOrder struct {
	ID                 int64
	OrganizationID     int64
	ChatID             string
	Equipment          string
	Sector             string
	Requester          string
	Executor           string
	ProblemDescription string
	MaintenanceType    string
	Stopped            string
	Status             string
	StatusNote         string
	SolutionApplied    string
	TimeSpentMinutes   int
	PartsCost          string
	SourceText         string
	StatusUpdatedAt    time.Time
	OpenedAt           time.Time
	ClosedAt           *time.Time
}

type Material struct {
	ID          int64
	WorkOrderID int64
	Description string
}

const workOrderColumns = `
    id, organization_id, chat_id, equipment, sector, requester, executor,
    problem_description, maintenance_type, stopped, status, status_note,
    solution_applied, time_spent_minutes, parts_cost, source_text,
    status_updated_at, opened_at, closed_at
  `

func scanWorkOrder(row pgx.Row) (WorkOrder, error) {
	var wo WorkOrder
	err := row.Scan(
		&wo.ID, &wo.OrganizationID, &wo.ChatID, &wo.Equipment, &wo.Sector,
		&wo.Requester, &wo.Executor, &wo.ProblemDescription, &wo.MaintenanceType,
		&wo.Stopped, &wo.Status, &wo.StatusNote, &wo.SolutionApplied,
		&wo.TimeSpentMinutes, &wo.PartsCost, &wo.SourceText,
		&wo.StatusUpdatedAt, &wo.OpenedAt, &wo.ClosedAt,
	)
	return wo, err
}

// Create inserts a new work order. Field normalization (blank → sentinel)
// happens at the service layer; this is a plain insert.
func (r *Repository) Create(ctx context.Context, wo WorkOrder) (WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `
    INSERT INTO work_orders (
      organization_id, chat_id, equipment, sector, requester, executor,
      problem_description, maintenance_type, stopped, status, status_note,
      solution_applied, time_spent_minutes, parts_cost, source_text
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    RETURNING`+workOrderColumns,
		wo.OrganizationID, wo.ChatID, wo.Equipment, wo.Sector, wo.Requester,
		wo.Executor, wo.ProblemDescription, wo.MaintenanceType, wo.Stopped,
		wo.Status, wo.StatusNote, wo.SolutionApplied, wo.TimeSpentMinutes,
		wo.PartsCost, wo.SourceText,
	)
	return scanWorkOrder(row)
}

// ListOpen returns the organization's open work orders, newest first.
// Open is defined as status outside the closed set.
func (r *Repository) ListOpen(ctx context.Context, orgID int64, limit int) ([]WorkOrder, error) {
	rows, err := r.pool.Query(ctx, listOpenQuery, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, wo)
	}
	return result, rows.Err()
}

const listOpenQuery = `
    SELECT` + workOrderColumns + `
    FROM work_orders
    WHERE organization_id = $1 AND status NOT IN ('FECHADA', 'CANCELADA')
    ORDER BY id DESC
    LIMIT $2
  `

// List returns the organization's work orders, optionally filtered by status.
func (r *Repository) List(ctx context.Context, orgID int64, status string, limit int) ([]WorkOrder, error) {
	query := `
    SELECT` + workOrderColumns + `
    FROM work_orders
    WHERE organization_id = $1 AND ($2 = '' OR status = $2)
    ORDER BY id DESC
    LIMIT $3
  `
	rows, err := r.pool.Query(ctx, query, orgID, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, wo)
	}
	return result, rows.Err()
}

// Get fetches one work order scoped to the organization.
func (r *Repository) Get(ctx context.Context, orgID, workOrderID int64) (WorkOrder, error) {
	row := r.pool.QueryRow(ctx, getQuery, orgID, workOrderID)
	wo, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkOrder{}, ErrNotFound
	}
	return wo, err
}

const getQuery = `
    SELECT` + workOrderColumns + `
    FROM work_orders
    WHERE organization_id = $1 AND id = $2
  `

// Close transitions an open work order to FECHADA. The open-set predicate in
// the WHERE clause makes a second close attempt miss, so the transition
// happens at most once.
func (r *Repository) Close(ctx context.Context, orgID, workOrderID int64, solution string, minutes int, partsCost string) (WorkOrder, error) {
	row := r.pool.QueryRow(ctx, closeQuery, orgID, workOrderID, solution, minutes, partsCost)
	wo, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkOrder{}, ErrNotFound
	}
	return wo, err
}

const closeQuery = `
    UPDATE work_orders
    SET solution_applied = $3,
        time_spent_minutes = $4,
        parts_cost = $5,
        status = 'FECHADA',
        status_updated_at = now(),
        closed_at = now()
    WHERE organization_id = $1 AND id = $2
      AND status NOT IN ('FECHADA', 'CANCELADA')
    RETURNING` + workOrderColumns

// UpdateStatus overwrites status and note. No enum constraint here; the
// status menu at the dialogue layer is the only gate.
func (r *Repository) UpdateStatus(ctx context.Context, orgID, workOrderID int64, status, note string) (WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `
    UPDATE work_orders
    SET status = $3,
        status_note = $4,
        status_updated_at = now()
    WHERE organization_id = $1 AND id = $2
    RETURNING`+workOrderColumns,
		orgID, workOrderID, status, note,
	)
	wo, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkOrder{}, ErrNotFound
	}
	return wo, err
}

// AddMaterials appends one row per description. Duplicates are legitimate;
// the same part may be used twice.
func (r *Repository) AddMaterials(ctx context.Context, workOrderID int64, descriptions []string) error {
	for _, desc := range descriptions {
		if _, err := r.pool.Exec(ctx, `
      INSERT INTO materials (work_order_id, description)
      VALUES ($1, $2)
    `, workOrderID, desc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) ListMaterials(ctx context.Context, workOrderID int64) ([]Material, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT id, work_order_id, description
    FROM materials
    WHERE work_order_id = $1
    ORDER BY id
  `, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.WorkOrderID, &m.Description); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// AddTechnician looks up or creates the technician by canonical name and
// associates it with the work order. Both steps are idempotent.
func (r *Repository) AddTechnician(ctx context.Context, workOrderID int64, name string) error {
	var techID int64
	// DO UPDATE instead of DO NOTHING so RETURNING yields the id on conflict.
	err := r.pool.QueryRow(ctx, `
    INSERT INTO technicians (name)
    VALUES ($1)
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, name).Scan(&techID)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
    INSERT INTO work_order_technicians (work_order_id, technician_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING
  `, workOrderID, techID)
	return err
}

// ListTechnicians returns the canonical technician names assigned to the
// work order, sorted.
func (r *Repository) ListTechnicians(ctx context.Context, workOrderID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
    SELECT t.name
    FROM work_order_technicians wt
    JOIN technicians t ON t.id = wt.technician_id
    WHERE wt.work_order_id = $1
    ORDER BY t.name
  `, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
