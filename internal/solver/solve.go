package solver

import (
	"fmt"
	"sort"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"
)

// Status: 求解的终止状态
type Status string

const (
	StatusOptimal    Status = "已证最优"
	StatusFeasible   Status = "可行但未证最优"
	StatusInfeasible Status = "不可行"
	StatusUnknown    Status = "未知"
)

// Snapshot: 一个解中全部变量的取值，按变量下标索引，提取侧只读
type Snapshot []int64

func (s Snapshot) boolValue(v cpmodel.BoolVar) bool {
	return s[int(v.Index())] != 0
}

func (s Snapshot) intValue(v cpmodel.IntVar) int64 {
	return s[int(v.Index())]
}

// Result: 一次求解调用的原始结果
// 不可行或未知时 Solutions 为空，调用方不应该尝试提取
type Result struct {
	Status        Status
	ProvenOptimal bool
	Objective     int64
	Solutions     []Snapshot
}

// solveModel 调用 CP-SAT 做一次求解
// 解池的枚举完全交给求解器（SolutionPoolSize + FillAdditionalSolutionsInResponse），
// 不做逐解加割再重解的手工循环
func solveModel(m *Model) (*Result, error) {
	params := &sppb.SatParameters{}
	if m.params.TimeLimitSeconds > 0 {
		params.MaxTimeInSeconds = proto.Float64(m.params.TimeLimitSeconds)
	}
	if m.params.SolutionCount > 1 {
		params.SolutionPoolSize = proto.Int32(m.params.SolutionCount)
		params.FillAdditionalSolutionsInResponse = proto.Bool(true)
		if m.params.RelativeGap > 0 {
			params.RelativeGapLimit = proto.Float64(m.params.RelativeGap)
		}
	}

	response, err := cpmodel.SolveCpModelWithParameters(m.proto, params)
	if err != nil {
		return nil, fmt.Errorf("调用求解器失败: %w", err)
	}

	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
		// 继续提取解
	case cmpb.CpSolverStatus_INFEASIBLE:
		return &Result{Status: StatusInfeasible}, nil
	case cmpb.CpSolverStatus_MODEL_INVALID:
		// 有限的时间范围和有限的变量值域下不应该出现，一旦出现说明建模代码有缺陷
		return nil, fmt.Errorf("模型无效: %s", response.GetSolutionInfo())
	default:
		// 在时限内连一个可行解都没有找到
		return &Result{Status: StatusUnknown}, nil
	}

	result := &Result{
		Status:        StatusFeasible,
		ProvenOptimal: response.GetStatus() == cmpb.CpSolverStatus_OPTIMAL,
		Objective:     int64(response.GetObjectiveValue()),
	}
	if result.ProvenOptimal {
		result.Status = StatusOptimal
	}

	if m.params.SolutionCount > 1 && len(response.GetAdditionalSolutions()) > 0 {
		for _, solution := range response.GetAdditionalSolutions() {
			result.Solutions = append(result.Solutions, Snapshot(solution.GetValues()))
		}

		// 解池中解的顺序求解器不做保证，这里统一按目标值从优到劣排，
		// 目标值相同的解保持求解器给出的先后顺序，并且不做去重：
		// 对称员工互换技能标签得到的排班表是不同的解
		sort.SliceStable(result.Solutions, func(a, b int) bool {
			return m.objectiveOf(result.Solutions[a]) > m.objectiveOf(result.Solutions[b])
		})

		if len(result.Solutions) > int(m.params.SolutionCount) {
			result.Solutions = result.Solutions[:m.params.SolutionCount]
		}
	} else {
		result.Solutions = []Snapshot{Snapshot(response.GetSolution())}
	}

	return result, nil
}

// objectiveOf 按模型的目标函数计算一个快照的目标值
func (m *Model) objectiveOf(snap Snapshot) int64 {
	var total int64
	for j, job := range m.instance.Jobs {
		if snap.boolValue(m.vars.complete[j]) {
			total += job.Gain
		}
		total -= job.DailyPenalty * snap.intValue(m.vars.lateness[j])
	}
	return total
}
