package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

func validInstance() *domain.ProblemInstance {
	return &domain.ProblemInstance{
		Name:           "实例",
		Horizon:        5,
		Qualifications: []string{"开发", "测试"},
		Staff: []domain.Employee{
			{Name: "张伟", Qualifications: []string{"开发"}, Vacations: []int32{3}},
			{Name: "刘敏", Qualifications: []string{"测试"}},
		},
		Jobs: []domain.Job{
			{
				Name:                        "项目1",
				Gain:                        100,
				DueDate:                     4,
				DailyPenalty:                10,
				WorkingDaysPerQualification: map[string]int32{"开发": 2, "测试": 1},
			},
		},
	}
}

func TestValidateProblemInstance(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(instance *domain.ProblemInstance)
		wantErr bool
	}{
		{
			name:    "合法实例",
			mutate:  func(instance *domain.ProblemInstance) {},
			wantErr: false,
		},
		{
			name: "排班天数小于一",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Horizon = 0
			},
			wantErr: true,
		},
		{
			name: "技能重复",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Qualifications = []string{"开发", "开发"}
			},
			wantErr: true,
		},
		{
			name: "员工重名",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Staff[1].Name = "张伟"
			},
			wantErr: true,
		},
		{
			name: "员工技能不在全局技能表中",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Staff[0].Qualifications = []string{"运维"}
			},
			wantErr: true,
		},
		{
			name: "休假日超出排班范围",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Staff[0].Vacations = []int32{6}
			},
			wantErr: true,
		},
		{
			name: "项目没有任何技能需求",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Jobs[0].WorkingDaysPerQualification = map[string]int32{}
			},
			wantErr: true,
		},
		{
			name: "项目需要的技能不在全局技能表中",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Jobs[0].WorkingDaysPerQualification = map[string]int32{"运维": 1}
			},
			wantErr: true,
		},
		{
			name: "人日需求为零",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Jobs[0].WorkingDaysPerQualification["开发"] = 0
			},
			wantErr: true,
		},
		{
			name: "截止日超出排班范围",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Jobs[0].DueDate = 6
			},
			wantErr: true,
		},
		{
			name: "收益为负数",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Jobs[0].Gain = -1
			},
			wantErr: true,
		},
		{
			name: "罚金为负数",
			mutate: func(instance *domain.ProblemInstance) {
				instance.Jobs[0].DailyPenalty = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instance := validInstance()
			tt.mutate(instance)

			err := ValidateProblemInstance(instance)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func validSchedule() *domain.Schedule {
	return &domain.Schedule{
		Objective: 100,
		Employees: map[string]map[int32]domain.ScheduleEntry{
			"张伟": {
				1: {JobName: "项目1", Qualification: "开发"},
				2: {JobName: "项目1", Qualification: "开发"},
			},
			"刘敏": {
				2: {JobName: "项目1", Qualification: "测试"},
			},
		},
		Jobs: []domain.JobSummary{
			{JobName: "项目1", StartDay: 1, EndDay: 2, Complete: true, Lateness: 0, Profit: 100},
		},
	}
}

func TestValidateScheduleWithInstance(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(schedule *domain.Schedule)
		wantErr bool
	}{
		{
			name:    "合法排班表",
			mutate:  func(schedule *domain.Schedule) {},
			wantErr: false,
		},
		{
			name: "排班表中出现未知员工",
			mutate: func(schedule *domain.Schedule) {
				schedule.Employees["王强"] = map[int32]domain.ScheduleEntry{
					1: {JobName: "项目1", Qualification: "开发"},
				}
			},
			wantErr: true,
		},
		{
			name: "休假日被安排工作",
			mutate: func(schedule *domain.Schedule) {
				schedule.Employees["张伟"][3] = domain.ScheduleEntry{JobName: "项目1", Qualification: "开发"}
			},
			wantErr: true,
		},
		{
			name: "员工不持有被安排的技能",
			mutate: func(schedule *domain.Schedule) {
				schedule.Employees["刘敏"][2] = domain.ScheduleEntry{JobName: "项目1", Qualification: "开发"}
			},
			wantErr: true,
		},
		{
			name: "超出排班范围的日历日",
			mutate: func(schedule *domain.Schedule) {
				schedule.Employees["张伟"][6] = domain.ScheduleEntry{JobName: "项目1", Qualification: "开发"}
			},
			wantErr: true,
		},
		{
			name: "超额投入",
			mutate: func(schedule *domain.Schedule) {
				// 测试技能只需要一个人日，第二个人日属于超额
				schedule.Employees["刘敏"][4] = domain.ScheduleEntry{JobName: "项目1", Qualification: "测试"}
			},
			wantErr: true,
		},
		{
			name: "标记完成但投入不足",
			mutate: func(schedule *domain.Schedule) {
				delete(schedule.Employees["刘敏"], 2)
			},
			wantErr: true,
		},
		{
			name: "持续时间超过上限",
			mutate: func(schedule *domain.Schedule) {
				// 把开发的第二个人日挪到第 5 天，项目横跨 5 天
				delete(schedule.Employees["张伟"], 2)
				schedule.Employees["张伟"][5] = domain.ScheduleEntry{JobName: "项目1", Qualification: "开发"}
				schedule.Jobs[0].EndDay = 5
				schedule.Jobs[0].Lateness = 1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := validSchedule()
			tt.mutate(schedule)

			err := ValidateScheduleWithInstance(schedule, validInstance(), 3, 3)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
