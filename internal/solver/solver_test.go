package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

func defaultParams() *Parameters {
	return &Parameters{
		MaxJobsPerEmployee: 3,
		MaxJobDuration:     5,
		SolutionCount:      1,
		TimeLimitSeconds:   30,
	}
}

func TestNewRejectsInvalidInstance(t *testing.T) {
	// 项目没有任何技能需求
	instance := &domain.ProblemInstance{
		Name:           "非法实例",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{}},
		},
	}

	_, err := New(instance, defaultParams())
	require.Error(t, err)
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	instance := &domain.ProblemInstance{
		Name:           "实例",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 2}},
		},
	}

	params := defaultParams()
	params.MaxJobsPerEmployee = 0
	_, err := New(instance, params)
	require.Error(t, err)

	params = defaultParams()
	params.SolutionCount = 0
	_, err = New(instance, params)
	require.Error(t, err)
}

func TestSolveCompletesJobOnTime(t *testing.T) {
	instance := &domain.ProblemInstance{
		Name:           "按期完成",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 2}},
		},
	}

	s, err := New(instance, defaultParams())
	require.NoError(t, err)

	outcome, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, outcome.Status)
	require.Equal(t, int64(100), outcome.Objective)
	require.Len(t, outcome.Schedules, 1)

	schedule := outcome.Schedules[0]
	require.True(t, schedule.ProvenOptimal)
	require.Len(t, schedule.Employees["张伟"], 2)

	require.Len(t, schedule.Jobs, 1)
	summary := schedule.Jobs[0]
	require.True(t, summary.Complete)
	require.Equal(t, int32(0), summary.Lateness)
	require.Equal(t, int64(100), summary.Profit)
	require.LessOrEqual(t, summary.EndDay, instance.Jobs[0].DueDate)
}

func TestSolveAcceptsLatenessWhenProfitable(t *testing.T) {
	// 两天的工作量不可能在第 1 天前做完，延期一天仍然比放弃划算
	instance := &domain.ProblemInstance{
		Name:           "延期仍划算",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 1, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 2}},
		},
	}

	s, err := New(instance, defaultParams())
	require.NoError(t, err)

	outcome, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, outcome.Status)
	require.Equal(t, int64(90), outcome.Objective)

	summary := outcome.Schedules[0].Jobs[0]
	require.True(t, summary.Complete)
	require.Equal(t, int32(1), summary.Lateness)
	require.Equal(t, int64(90), summary.Profit)
}

func TestSolveWorksAroundVacation(t *testing.T) {
	// 第 2 天休假，两个人日只能落在第 1 天和第 3 天，造成一天延期
	instance := &domain.ProblemInstance{
		Name:           "绕开休假",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}, Vacations: []int32{2}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 2}},
		},
	}

	s, err := New(instance, defaultParams())
	require.NoError(t, err)

	outcome, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, outcome.Status)
	require.Equal(t, int64(90), outcome.Objective)

	schedule := outcome.Schedules[0]
	_, workedOnVacation := schedule.Employees["张伟"][2]
	require.False(t, workedOnVacation)

	summary := schedule.Jobs[0]
	require.Equal(t, int32(1), summary.StartDay)
	require.Equal(t, int32(3), summary.EndDay)
	require.Equal(t, int32(1), summary.Lateness)
}

func TestSolveSkipsJobWithoutQualifiedStaff(t *testing.T) {
	// 没有人持有项目需要的技能，模型仍然可行，项目只是不会被完成
	instance := &domain.ProblemInstance{
		Name:           "无人胜任",
		Horizon:        3,
		Qualifications: []string{"开发", "测试"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"测试": 1}},
		},
	}

	s, err := New(instance, defaultParams())
	require.NoError(t, err)

	outcome, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, outcome.Status)
	require.Equal(t, int64(0), outcome.Objective)

	schedule := outcome.Schedules[0]
	require.Empty(t, schedule.Employees["张伟"])

	summary := schedule.Jobs[0]
	require.False(t, summary.Complete)
	require.Equal(t, int32(0), summary.StartDay)
	require.Equal(t, int32(0), summary.EndDay)
	require.Equal(t, int64(0), summary.Profit)
}

func TestSolveRespectsMaxJobsPerEmployee(t *testing.T) {
	// 两个项目都只需要一个人日，但每名员工最多参与一个项目
	instance := &domain.ProblemInstance{
		Name:           "项目数上限",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 3, DailyPenalty: 1, WorkingDaysPerQualification: map[string]int32{"开发": 1}},
			{Name: "项目2", Gain: 60, DueDate: 3, DailyPenalty: 1, WorkingDaysPerQualification: map[string]int32{"开发": 1}},
		},
	}

	params := defaultParams()
	params.MaxJobsPerEmployee = 1

	s, err := New(instance, params)
	require.NoError(t, err)

	outcome, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, outcome.Status)
	// 只能挑收益更高的那个项目
	require.Equal(t, int64(100), outcome.Objective)
}

func TestSolvePoolReturnsRankedSchedules(t *testing.T) {
	// 两名对称的员工，谁来做这一个人日都是最优解
	instance := &domain.ProblemInstance{
		Name:           "解池",
		Horizon:        2,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
			{Name: "李芳", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 1}},
		},
	}

	params := defaultParams()
	params.SolutionCount = 3

	s, err := New(instance, params)
	require.NoError(t, err)

	outcome, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, outcome.Status)
	require.Equal(t, int64(100), outcome.Objective)

	require.NotEmpty(t, outcome.Schedules)
	require.LessOrEqual(t, len(outcome.Schedules), 3)

	// 名次连续，目标值从优到劣
	for i, schedule := range outcome.Schedules {
		require.Equal(t, int32(i+1), schedule.Rank)
		if i > 0 {
			require.GreaterOrEqual(t, outcome.Schedules[i-1].Objective, schedule.Objective)
		}
	}
	require.Equal(t, int64(100), outcome.Schedules[0].Objective)
}
