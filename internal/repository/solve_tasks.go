package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

func (r *Repository) CreateSolveTask(task *domain.SolveTask) error {
	query := `
		INSERT INTO solve_tasks (
			instance_id,
			max_jobs_per_employee,
			max_job_duration,
			solution_count,
			relative_gap,
			time_limit_seconds,
			notify_email,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		task.InstanceID,
		task.MaxJobsPerEmployee,
		task.MaxJobDuration,
		task.SolutionCount,
		task.RelativeGap,
		task.TimeLimitSeconds,
		task.NotifyEmail,
		task.Status,
	}
	dst := []any{&task.ID, &task.CreatedAt, &task.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSolveTaskByID(id int64) (*domain.SolveTask, error) {
	query := `
		SELECT
			instance_id,
			max_jobs_per_employee,
			max_job_duration,
			solution_count,
			relative_gap,
			time_limit_seconds,
			notify_email,
			status,
			error_message,
			created_at,
			version
		FROM solve_tasks
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	task := &domain.SolveTask{
		ID: id,
	}

	dst := []any{
		&task.InstanceID,
		&task.MaxJobsPerEmployee,
		&task.MaxJobDuration,
		&task.SolutionCount,
		&task.RelativeGap,
		&task.TimeLimitSeconds,
		&task.NotifyEmail,
		&task.Status,
		&task.ErrorMessage,
		&task.CreatedAt,
		&task.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *Repository) GetSolveTasksByInstanceID(instanceID int64) ([]*domain.SolveTask, error) {
	query := `
		SELECT
			id,
			max_jobs_per_employee,
			max_job_duration,
			solution_count,
			relative_gap,
			time_limit_seconds,
			notify_email,
			status,
			error_message,
			created_at,
			version
		FROM solve_tasks
		WHERE instance_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*domain.SolveTask{}
	for rows.Next() {
		task := domain.SolveTask{
			InstanceID: instanceID,
		}

		dst := []any{
			&task.ID,
			&task.MaxJobsPerEmployee,
			&task.MaxJobDuration,
			&task.SolutionCount,
			&task.RelativeGap,
			&task.TimeLimitSeconds,
			&task.NotifyEmail,
			&task.Status,
			&task.ErrorMessage,
			&task.CreatedAt,
			&task.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *Repository) UpdateSolveTaskStatus(task *domain.SolveTask) error {
	query := `
		UPDATE solve_tasks
		SET
			status = $1,
			error_message = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{task.Status, task.ErrorMessage, task.ID, task.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&task.Version); err != nil {
		return err
	}

	return nil
}
