package solver

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/utils"
)

// Solver 负责一次完整的求解流程：建模 -> 求解 -> 还原排班表
// 建模和提取都是同步的，真正耗时的只有中间那一步求解调用
type Solver struct {
	instance *domain.ProblemInstance
	params   *Parameters
}

// Outcome: 一次求解的业务结果
// 不可行或未知时 Schedules 为空，调用方不应该尝试读取排班表
type Outcome struct {
	Status        Status
	ProvenOptimal bool
	Objective     int64
	Schedules     []*domain.Schedule
}

func New(instance *domain.ProblemInstance, params *Parameters) (*Solver, error) {
	if err := utils.ValidateProblemInstance(instance); err != nil {
		return nil, err
	}

	if params.MaxJobsPerEmployee <= 0 {
		return nil, errors.New("每名员工的最大项目数必须为正数")
	}
	if params.MaxJobDuration <= 0 {
		return nil, errors.New("项目的最长持续天数必须为正数")
	}
	if params.SolutionCount <= 0 {
		return nil, errors.New("请求的解数量必须为正数")
	}

	return &Solver{
		instance: instance,
		params:   params,
	}, nil
}

func (s *Solver) Solve() (*Outcome, error) {
	model, err := buildModel(s.instance, s.params)
	if err != nil {
		return nil, err
	}

	result, err := solveModel(model)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Status:        result.Status,
		ProvenOptimal: result.ProvenOptimal,
		Objective:     result.Objective,
	}

	if len(result.Solutions) == 0 {
		return outcome, nil
	}

	for rank, snap := range result.Solutions {
		schedule, err := extractSchedule(model, snap)
		if err != nil {
			return nil, fmt.Errorf("解码第 %d 个解失败: %w", rank+1, err)
		}
		schedule.Rank = int32(rank + 1)
		schedule.ProvenOptimal = result.ProvenOptimal && rank == 0

		// 还需要检查排班表是否满足全部约束条件（调用 utils 包中的方法就可以了）
		if err := utils.ValidateScheduleWithInstance(schedule, s.instance, s.params.MaxJobsPerEmployee, s.params.MaxJobDuration); err != nil {
			return nil, fmt.Errorf("第 %d 个解没有通过校验: %w", rank+1, err)
		}

		outcome.Schedules = append(outcome.Schedules, schedule)
	}

	return outcome, nil
}
