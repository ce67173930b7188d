package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

func (r *Repository) InsertSchedules(taskID int64, schedules []*domain.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 同一个任务重复求解时，先把之前的排班表删除
	query := `DELETE FROM schedules WHERE task_id = $1`
	if _, err := tx.ExecContext(ctx, query, taskID); err != nil {
		return err
	}

	for _, schedule := range schedules {
		query := `
			INSERT INTO schedules (task_id, rank, objective, proven_optimal)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`

		params := []any{taskID, schedule.Rank, schedule.Objective, schedule.ProvenOptimal}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&schedule.ID, &schedule.CreatedAt); err != nil {
			return err
		}
		schedule.TaskID = taskID

		for employeeName, days := range schedule.Employees {
			for day, entry := range days {
				query := `
					INSERT INTO schedule_assignments (schedule_id, employee_name, day, job_name, qualification)
					VALUES ($1, $2, $3, $4, $5)
				`

				params := []any{schedule.ID, employeeName, day, entry.JobName, entry.Qualification}
				if _, err := tx.ExecContext(ctx, query, params...); err != nil {
					return err
				}
			}
		}

		for _, summary := range schedule.Jobs {
			query := `
				INSERT INTO schedule_job_summaries (schedule_id, job_name, start_day, end_day, complete, lateness, profit)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`

			params := []any{
				schedule.ID,
				summary.JobName,
				summary.StartDay,
				summary.EndDay,
				summary.Complete,
				summary.Lateness,
				summary.Profit,
			}
			if _, err := tx.ExecContext(ctx, query, params...); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSchedulesByTaskID(taskID int64) ([]*domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, rank, objective, proven_optimal, created_at
		FROM schedules
		WHERE task_id = $1
		ORDER BY rank
	`

	rows, err := r.dbpool.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []*domain.Schedule{}
	schedulesByID := make(map[int64]*domain.Schedule)

	for rows.Next() {
		schedule := domain.Schedule{
			TaskID:    taskID,
			Employees: make(map[string]map[int32]domain.ScheduleEntry),
			Jobs:      []domain.JobSummary{},
		}

		dst := []any{
			&schedule.ID,
			&schedule.Rank,
			&schedule.Objective,
			&schedule.ProvenOptimal,
			&schedule.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		schedules = append(schedules, &schedule)
		schedulesByID[schedule.ID] = &schedule
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(schedules) == 0 {
		return schedules, nil
	}

	query = `
		SELECT sa.schedule_id, sa.employee_name, sa.day, sa.job_name, sa.qualification
		FROM schedule_assignments sa
		JOIN schedules s ON sa.schedule_id = s.id
		WHERE s.task_id = $1
	`

	assignmentRows, err := r.dbpool.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer assignmentRows.Close()

	for assignmentRows.Next() {
		var scheduleID int64
		var employeeName string
		var day int32
		var entry domain.ScheduleEntry

		dst := []any{&scheduleID, &employeeName, &day, &entry.JobName, &entry.Qualification}
		if err := assignmentRows.Scan(dst...); err != nil {
			return nil, err
		}

		schedule := schedulesByID[scheduleID]
		if _, exists := schedule.Employees[employeeName]; !exists {
			schedule.Employees[employeeName] = make(map[int32]domain.ScheduleEntry)
		}
		schedule.Employees[employeeName][day] = entry
	}
	if err := assignmentRows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT sjs.schedule_id, sjs.job_name, sjs.start_day, sjs.end_day, sjs.complete, sjs.lateness, sjs.profit
		FROM schedule_job_summaries sjs
		JOIN schedules s ON sjs.schedule_id = s.id
		WHERE s.task_id = $1
		ORDER BY sjs.id
	`

	summaryRows, err := r.dbpool.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer summaryRows.Close()

	for summaryRows.Next() {
		var scheduleID int64
		var summary domain.JobSummary

		dst := []any{
			&scheduleID,
			&summary.JobName,
			&summary.StartDay,
			&summary.EndDay,
			&summary.Complete,
			&summary.Lateness,
			&summary.Profit,
		}
		if err := summaryRows.Scan(dst...); err != nil {
			return nil, err
		}

		schedule := schedulesByID[scheduleID]
		schedule.Jobs = append(schedule.Jobs, summary)
	}
	if err := summaryRows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}
