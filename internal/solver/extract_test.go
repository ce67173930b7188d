package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

// 构造一个最小的模型，测试直接伪造解的快照来驱动提取逻辑
func buildTestModel(t *testing.T, instance *domain.ProblemInstance) *Model {
	t.Helper()

	m, err := buildModel(instance, defaultParams())
	require.NoError(t, err)
	return m
}

func emptySnapshot(m *Model) Snapshot {
	return make(Snapshot, len(m.proto.GetVariables()))
}

func TestExtractScheduleBuildsAssignments(t *testing.T) {
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
	m := buildTestModel(t, instance)

	snap := emptySnapshot(m)
	snap[int(m.vars.assign[0][0][0][0].Index())] = 1
	snap[int(m.vars.assign[0][0][0][1].Index())] = 1
	snap[int(m.vars.complete[0].Index())] = 1

	schedule, err := extractSchedule(m, snap)
	require.NoError(t, err)

	require.Equal(t, int64(100), schedule.Objective)
	require.Equal(t, domain.ScheduleEntry{JobName: "项目1", Qualification: "开发"}, schedule.Employees["张伟"][1])
	require.Equal(t, domain.ScheduleEntry{JobName: "项目1", Qualification: "开发"}, schedule.Employees["张伟"][2])

	require.Len(t, schedule.Jobs, 1)
	summary := schedule.Jobs[0]
	require.Equal(t, int32(1), summary.StartDay)
	require.Equal(t, int32(2), summary.EndDay)
	require.True(t, summary.Complete)
	require.Equal(t, int32(0), summary.Lateness)
	require.Equal(t, int64(100), summary.Profit)
}

func TestExtractScheduleDerivesLatenessFromAssignments(t *testing.T) {
	instance := &domain.ProblemInstance{
		Name:           "实例",
		Horizon:        3,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 1, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 2}},
		},
	}
	m := buildTestModel(t, instance)

	// 人日落在第 2 和第 3 天，截止日是第 1 天，延期两天
	snap := emptySnapshot(m)
	snap[int(m.vars.assign[0][0][0][1].Index())] = 1
	snap[int(m.vars.assign[0][0][0][2].Index())] = 1
	snap[int(m.vars.complete[0].Index())] = 1
	snap[int(m.vars.lateness[0].Index())] = 2

	schedule, err := extractSchedule(m, snap)
	require.NoError(t, err)
	require.Equal(t, int64(80), schedule.Objective)

	summary := schedule.Jobs[0]
	require.Equal(t, int32(2), summary.StartDay)
	require.Equal(t, int32(3), summary.EndDay)
	require.Equal(t, int32(2), summary.Lateness)
	require.Equal(t, int64(80), summary.Profit)
}

func TestExtractScheduleMarksNeverStartedJobs(t *testing.T) {
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
	m := buildTestModel(t, instance)

	schedule, err := extractSchedule(m, emptySnapshot(m))
	require.NoError(t, err)

	summary := schedule.Jobs[0]
	require.False(t, summary.Complete)
	require.Equal(t, int32(0), summary.StartDay)
	require.Equal(t, int32(0), summary.EndDay)
	require.Equal(t, int32(0), summary.Lateness)
	require.Equal(t, int64(0), summary.Profit)
}

func TestExtractScheduleRejectsDoubleBooking(t *testing.T) {
	instance := &domain.ProblemInstance{
		Name:           "实例",
		Horizon:        2,
		Qualifications: []string{"开发"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 2, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 1}},
			{Name: "项目2", Gain: 50, DueDate: 2, DailyPenalty: 5, WorkingDaysPerQualification: map[string]int32{"开发": 1}},
		},
	}
	m := buildTestModel(t, instance)

	// 同一天被安排到两个项目，这样的快照不可能来自合法的解
	snap := emptySnapshot(m)
	snap[int(m.vars.assign[0][0][0][0].Index())] = 1
	snap[int(m.vars.assign[0][1][0][0].Index())] = 1

	_, err := extractSchedule(m, snap)
	require.Error(t, err)
}

func TestExtractScheduleIsRepeatable(t *testing.T) {
	instance := &domain.ProblemInstance{
		Name:           "实例",
		Horizon:        3,
		Qualifications: []string{"开发", "测试"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}},
			{Name: "刘敏", Qualifications: []string{"测试"}},
		},
		Jobs: []domain.Job{
			{Name: "项目1", Gain: 100, DueDate: 3, DailyPenalty: 10, WorkingDaysPerQualification: map[string]int32{"开发": 1, "测试": 1}},
		},
	}
	m := buildTestModel(t, instance)

	snap := emptySnapshot(m)
	snap[int(m.vars.assign[0][0][0][0].Index())] = 1
	snap[int(m.vars.assign[1][0][1][1].Index())] = 1
	snap[int(m.vars.complete[0].Index())] = 1

	first, err := extractSchedule(m, snap)
	require.NoError(t, err)
	second, err := extractSchedule(m, snap)
	require.NoError(t, err)

	// 同一个快照提取多少次都必须得到完全一样的排班表
	require.Equal(t, first, second)
}
