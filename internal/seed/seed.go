package seed

import (
	"log/slog"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/repository"
)

// DemoInstance 是一个手工构造的小实例，方便在开发环境中验证完整的求解链路
// 前两个项目可以按期完成，第三个项目人手不够，只能延期或者放弃
var DemoInstance = domain.ProblemInstance{
	Name:           "演示实例",
	Horizon:        7,
	Qualifications: []string{"前端", "后端", "测试"},
	Staff: []domain.Employee{
		{
			Name:           "张伟",
			Qualifications: []string{"前端", "测试"},
			Vacations:      []int32{6, 7},
		},
		{
			Name:           "李芳",
			Qualifications: []string{"后端"},
			Vacations:      []int32{},
		},
		{
			Name:           "王强",
			Qualifications: []string{"前端", "后端"},
			Vacations:      []int32{1},
		},
		{
			Name:           "刘敏",
			Qualifications: []string{"测试"},
			Vacations:      []int32{},
		},
	},
	Jobs: []domain.Job{
		{
			Name:         "官网改版",
			Gain:         100,
			DueDate:      4,
			DailyPenalty: 10,
			WorkingDaysPerQualification: map[string]int32{
				"前端": 2,
				"测试": 1,
			},
		},
		{
			Name:         "接口重构",
			Gain:         80,
			DueDate:      5,
			DailyPenalty: 5,
			WorkingDaysPerQualification: map[string]int32{
				"后端": 3,
			},
		},
		{
			Name:         "压测平台",
			Gain:         150,
			DueDate:      3,
			DailyPenalty: 20,
			WorkingDaysPerQualification: map[string]int32{
				"前端": 2,
				"后端": 2,
				"测试": 2,
			},
		},
	},
}

func SeedDemoInstance(r *repository.Repository) {
	instance := DemoInstance

	if err := r.CreateProblemInstance(&instance); err != nil {
		slog.Error("无法插入演示实例", "error", err)
		return
	}

	slog.Info("插入演示实例成功", "id", instance.ID)
}
