package solver

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

// buildModel 把问题实例和策略参数编码成一个混合整数模型
//
// 目标：最大化 Σ_j (gain_j × complete_j − dailyPenalty_j × lateness_j)
// 延期罚金没有被 complete 门控：没完成的项目拿不到收益，但只要有人日
// 落在截止日之后，罚金照扣。由于禁止超额投入，给注定完不成的项目安排
// 人日毫无收益，最优解自然不会这么做
func buildModel(instance *domain.ProblemInstance, params *Parameters) (*Model, error) {
	builder := cpmodel.NewCpModelBuilder()

	horizon := int(instance.Horizon)
	numEmployees := len(instance.Staff)
	numJobs := len(instance.Jobs)
	numQualifications := len(instance.Qualifications)

	vars := &variables{
		assign:   make([][][][]cpmodel.BoolVar, numEmployees),
		complete: make([]cpmodel.BoolVar, numJobs),
		lateness: make([]cpmodel.IntVar, numJobs),
		end:      make([]cpmodel.IntVar, numJobs),
		start:    make([]cpmodel.IntVar, numJobs),
		onJob:    make([][]cpmodel.BoolVar, numEmployees),
	}

	for e := 0; e < numEmployees; e++ {
		vars.assign[e] = make([][][]cpmodel.BoolVar, numJobs)
		vars.onJob[e] = make([]cpmodel.BoolVar, numJobs)
		for j := 0; j < numJobs; j++ {
			vars.assign[e][j] = make([][]cpmodel.BoolVar, numQualifications)
			vars.onJob[e][j] = builder.NewBoolVar()
			for q := 0; q < numQualifications; q++ {
				vars.assign[e][j][q] = make([]cpmodel.BoolVar, horizon)
				for t := 0; t < horizon; t++ {
					vars.assign[e][j][q][t] = builder.NewBoolVar()
				}
			}
		}
	}

	for j := 0; j < numJobs; j++ {
		vars.complete[j] = builder.NewBoolVar()
		vars.lateness[j] = builder.NewIntVar(0, int64(horizon))
		vars.end[j] = builder.NewIntVar(1, int64(horizon))
		vars.start[j] = builder.NewIntVar(1, int64(horizon))
	}

	// feasible 表示这个槽位有可能被赋值：员工持有该技能并且项目需要该技能
	feasible := func(e, j, q int) bool {
		return instance.Staff[e].HasQualification(instance.Qualifications[q]) &&
			instance.Jobs[j].RequiresQualification(instance.Qualifications[q])
	}

	// 约束 1：每名员工每天最多做一件事
	for e := 0; e < numEmployees; e++ {
		for t := 0; t < horizon; t++ {
			worksToday := cpmodel.NewLinearExpr()
			for j := 0; j < numJobs; j++ {
				for q := 0; q < numQualifications; q++ {
					worksToday.Add(vars.assign[e][j][q][t])
				}
			}
			builder.AddLessOrEqual(worksToday, cpmodel.NewConstant(1))
		}
	}

	// 约束 2：休假日不能工作
	for e, employee := range instance.Staff {
		for _, day := range employee.Vacations {
			t := int(day) - 1
			worksToday := cpmodel.NewLinearExpr()
			for j := 0; j < numJobs; j++ {
				for q := 0; q < numQualifications; q++ {
					worksToday.Add(vars.assign[e][j][q][t])
				}
			}
			builder.AddEquality(worksToday, cpmodel.NewConstant(0))
		}
	}

	// 约束 3：员工没有这项技能、或项目根本不需要这项技能时，槽位强制为 0
	// 这是硬性的结构剪枝，不是偏好
	for e := 0; e < numEmployees; e++ {
		for j := 0; j < numJobs; j++ {
			for q := 0; q < numQualifications; q++ {
				if feasible(e, j, q) {
					continue
				}
				for t := 0; t < horizon; t++ {
					builder.AddEquality(vars.assign[e][j][q][t], cpmodel.NewConstant(0))
				}
			}
		}
	}

	// 约束 4 和 5：项目要算完成，每种所需技能投入的人日数必须达到要求；
	// 同时超出要求的投入是被禁止的，不只是浪费
	for j, job := range instance.Jobs {
		for q, qualification := range instance.Qualifications {
			required, exists := job.WorkingDaysPerQualification[qualification]
			if !exists {
				continue
			}

			total := cpmodel.NewLinearExpr()
			for e := 0; e < numEmployees; e++ {
				for t := 0; t < horizon; t++ {
					total.Add(vars.assign[e][j][q][t])
				}
			}

			requiredIfComplete := cpmodel.NewLinearExpr().AddTerm(vars.complete[j], int64(required))
			builder.AddLessOrEqual(requiredIfComplete, total)
			builder.AddLessOrEqual(total, cpmodel.NewConstant(int64(required)))
		}
	}

	// 约束 6 和 7：完工日不早于任何一个实际工作日，开工日不晚于任何一个实际工作日
	// 半具体化（OnlyEnforceIf）代替大 M 线性化，槽位没被赋值时约束不生效，
	// 此时 end 和 start 在值域内自由取值，提取侧会把这种项目当作从未开工处理
	for e := 0; e < numEmployees; e++ {
		for j := 0; j < numJobs; j++ {
			for q := 0; q < numQualifications; q++ {
				if !feasible(e, j, q) {
					continue
				}
				for t := 0; t < horizon; t++ {
					day := cpmodel.NewConstant(int64(t + 1))
					builder.AddGreaterOrEqual(vars.end[j], day).OnlyEnforceIf(vars.assign[e][j][q][t])
					builder.AddLessOrEqual(vars.start[j], day).OnlyEnforceIf(vars.assign[e][j][q][t])
				}
			}
		}
	}

	// 约束 8：延期天数不小于 完工日 − 截止日（值域已经保证不小于 0）
	for j, job := range instance.Jobs {
		overdue := cpmodel.NewLinearExpr().Add(vars.end[j]).AddConstant(-int64(job.DueDate))
		builder.AddLessOrEqual(overdue, vars.lateness[j])
	}

	// 约束 9：onJob 和 assign 的双向联动，两个方向都要有才能把 onJob 钉死
	for e := 0; e < numEmployees; e++ {
		for j := 0; j < numJobs; j++ {
			total := cpmodel.NewLinearExpr()
			for q := 0; q < numQualifications; q++ {
				if !feasible(e, j, q) {
					continue
				}
				for t := 0; t < horizon; t++ {
					total.Add(vars.assign[e][j][q][t])
					builder.AddGreaterOrEqual(vars.onJob[e][j], vars.assign[e][j][q][t])
				}
			}
			builder.AddLessOrEqual(vars.onJob[e][j], total)
		}
	}

	// 约束 10：每名员工参与的项目数不超过上限
	for e := 0; e < numEmployees; e++ {
		jobCount := cpmodel.NewLinearExpr()
		for j := 0; j < numJobs; j++ {
			jobCount.Add(vars.onJob[e][j])
		}
		builder.AddLessOrEqual(jobCount, cpmodel.NewConstant(int64(params.MaxJobsPerEmployee)))
	}

	// 约束 11：项目持续时间不超过上限（含首尾的天数计数）
	for j := 0; j < numJobs; j++ {
		duration := cpmodel.NewLinearExpr().Add(vars.end[j]).AddTerm(vars.start[j], -1)
		builder.AddLessOrEqual(duration, cpmodel.NewConstant(int64(params.MaxJobDuration-1)))
	}

	// 目标函数
	objective := cpmodel.NewLinearExpr()
	for j, job := range instance.Jobs {
		objective.AddTerm(vars.complete[j], job.Gain)
		objective.AddTerm(vars.lateness[j], -job.DailyPenalty)
	}
	builder.Maximize(objective)

	proto, err := builder.Model()
	if err != nil {
		return nil, err
	}

	return &Model{
		instance: instance,
		params:   params,
		proto:    proto,
		vars:     vars,
	}, nil
}
