package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

func (r *Repository) CreateProblemInstance(instance *domain.ProblemInstance) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	qualifications, err := json.Marshal(instance.Qualifications)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO problem_instances (name, horizon, qualifications)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	dst := []any{&instance.ID, &instance.CreatedAt, &instance.Version}
	if err := tx.QueryRowContext(ctx, query, instance.Name, instance.Horizon, qualifications).Scan(dst...); err != nil {
		return err
	}

	for i := range instance.Staff {
		employee := &instance.Staff[i]

		employeeQualifications, err := json.Marshal(employee.Qualifications)
		if err != nil {
			return err
		}
		vacations, err := json.Marshal(employee.Vacations)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO instance_employees (instance_id, name, qualifications, vacations)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		if err := tx.QueryRowContext(ctx, query, instance.ID, employee.Name, employeeQualifications, vacations).Scan(&employee.ID); err != nil {
			return err
		}
	}

	for i := range instance.Jobs {
		job := &instance.Jobs[i]

		workingDays, err := json.Marshal(job.WorkingDaysPerQualification)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO instance_jobs (instance_id, name, gain, due_date, daily_penalty, working_days)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`

		params := []any{instance.ID, job.Name, job.Gain, job.DueDate, job.DailyPenalty, workingDays}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&job.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetProblemInstanceByID(id int64) (*domain.ProblemInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, horizon, qualifications, created_at, version
		FROM problem_instances
		WHERE id = $1
	`

	instance := &domain.ProblemInstance{
		ID: id,
	}

	var qualifications []byte
	dst := []any{
		&instance.Name,
		&instance.Horizon,
		&qualifications,
		&instance.CreatedAt,
		&instance.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(qualifications, &instance.Qualifications); err != nil {
		return nil, err
	}

	query = `
		SELECT id, name, qualifications, vacations
		FROM instance_employees
		WHERE instance_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instance.Staff = []domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		var employeeQualifications, vacations []byte

		dst := []any{
			&employee.ID,
			&employee.Name,
			&employeeQualifications,
			&vacations,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(employeeQualifications, &employee.Qualifications); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(vacations, &employee.Vacations); err != nil {
			return nil, err
		}

		instance.Staff = append(instance.Staff, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT id, name, gain, due_date, daily_penalty, working_days
		FROM instance_jobs
		WHERE instance_id = $1
		ORDER BY id
	`

	jobRows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer jobRows.Close()

	instance.Jobs = []domain.Job{}
	for jobRows.Next() {
		var job domain.Job
		var workingDays []byte

		dst := []any{
			&job.ID,
			&job.Name,
			&job.Gain,
			&job.DueDate,
			&job.DailyPenalty,
			&workingDays,
		}
		if err := jobRows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(workingDays, &job.WorkingDaysPerQualification); err != nil {
			return nil, err
		}

		instance.Jobs = append(instance.Jobs, job)
	}
	if err := jobRows.Err(); err != nil {
		return nil, err
	}

	return instance, nil
}

func (r *Repository) GetAllProblemInstances() ([]*domain.ProblemInstance, error) {
	// 列表页不需要员工和项目的明细，只取实例本身的元信息
	query := `
		SELECT id, name, horizon, qualifications, created_at, version
		FROM problem_instances
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := []*domain.ProblemInstance{}
	for rows.Next() {
		var instance domain.ProblemInstance
		var qualifications []byte

		dst := []any{
			&instance.ID,
			&instance.Name,
			&instance.Horizon,
			&qualifications,
			&instance.CreatedAt,
			&instance.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(qualifications, &instance.Qualifications); err != nil {
			return nil, err
		}

		instances = append(instances, &instance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instances, nil
}

func (r *Repository) DeleteProblemInstance(id int64) error {
	// instance_employees 和 instance_jobs 上有级联删除，这里只需要删实例本身
	query := `
		DELETE FROM problem_instances WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
