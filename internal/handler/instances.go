package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/utils"
)

func (h *Handler) CreateProblemInstance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string   `json:"name" validate:"required"`
		Horizon        int32    `json:"horizon" validate:"required,min=1"`
		Qualifications []string `json:"qualifications" validate:"required,min=1"`
		Staff          []struct {
			Name           string   `json:"name" validate:"required"`
			Qualifications []string `json:"qualifications"`
			Vacations      []int32  `json:"vacations"`
		} `json:"staff" validate:"required,min=1,dive"`
		Jobs []struct {
			Name                        string           `json:"name" validate:"required"`
			Gain                        int64            `json:"gain"`
			DueDate                     int32            `json:"dueDate" validate:"required,min=1"`
			DailyPenalty                int64            `json:"dailyPenalty"`
			WorkingDaysPerQualification map[string]int32 `json:"workingDaysPerQualification" validate:"required,min=1"`
		} `json:"jobs" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	instance := &domain.ProblemInstance{
		Name:           req.Name,
		Horizon:        req.Horizon,
		Qualifications: req.Qualifications,
		Staff:          make([]domain.Employee, 0, len(req.Staff)),
		Jobs:           make([]domain.Job, 0, len(req.Jobs)),
	}

	for _, employee := range req.Staff {
		instance.Staff = append(instance.Staff, domain.Employee{
			Name:           employee.Name,
			Qualifications: employee.Qualifications,
			Vacations:      employee.Vacations,
		})
	}
	for _, job := range req.Jobs {
		instance.Jobs = append(instance.Jobs, domain.Job{
			Name:                        job.Name,
			Gain:                        job.Gain,
			DueDate:                     job.DueDate,
			DailyPenalty:                job.DailyPenalty,
			WorkingDaysPerQualification: job.WorkingDaysPerQualification,
		})
	}

	// 结构上的合法性由 validator 保证，这里检查业务上的一致性
	if err := utils.ValidateProblemInstance(instance); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateProblemInstance(instance); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "problem_instances_name_key":
			h.badRequest(w, r, errors.New("实例名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "问题实例创建成功", instance)
}

func (h *Handler) GetAllProblemInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := h.repository.GetAllProblemInstances()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取问题实例列表成功", instances)
}

func (h *Handler) GetProblemInstance(w http.ResponseWriter, r *http.Request) {
	instance := r.Context().Value(ProblemInstanceCtx).(*domain.ProblemInstance)
	h.successResponse(w, r, "获取问题实例成功", instance)
}

func (h *Handler) DeleteProblemInstance(w http.ResponseWriter, r *http.Request) {
	instance := r.Context().Value(ProblemInstanceCtx).(*domain.ProblemInstance)

	if err := h.repository.DeleteProblemInstance(instance.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除问题实例成功", nil)
}
