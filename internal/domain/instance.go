package domain

import "time"

// ProblemInstance: 一次排班求解的完整输入
// Horizon 表示可排班的天数，日历日从 1 开始编号
type ProblemInstance struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Horizon        int32      `json:"horizon"`
	Qualifications []string   `json:"qualifications"` // 全局技能表，员工和项目引用的技能都必须出现在这里
	Staff          []Employee `json:"staff"`
	Jobs           []Job      `json:"jobs"`
	CreatedAt      time.Time  `json:"createdAt"`
	Version        int32      `json:"-"`
}
