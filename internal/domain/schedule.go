package domain

import "time"

// ScheduleEntry: 某位员工在某一天做的事情
type ScheduleEntry struct {
	JobName       string `json:"jobName"`
	Qualification string `json:"qualification"`
}

// JobSummary: 单个项目在一个解中的汇总指标
// 项目从未开工时 StartDay 和 EndDay 均为 0
type JobSummary struct {
	JobName  string `json:"jobName"`
	StartDay int32  `json:"startDay"`
	EndDay   int32  `json:"endDay"`
	Complete bool   `json:"complete"`
	Lateness int32  `json:"lateness"`
	Profit   int64  `json:"profit"`
}

// Schedule: 从求解器的一个解中还原出来的排班表
// 每次提取都会构建一个全新的 Schedule，构建后只读
type Schedule struct {
	ID            int64                              `json:"id"`
	TaskID        int64                              `json:"taskID"`
	Rank          int32                              `json:"rank"` // 在解池中的名次，1 为最优
	Objective     int64                              `json:"objective"`
	ProvenOptimal bool                               `json:"provenOptimal"`
	Employees     map[string]map[int32]ScheduleEntry `json:"employees"` // 员工名 -> 日历日 -> 工作内容
	Jobs          []JobSummary                       `json:"jobs"`
	CreatedAt     time.Time                          `json:"createdAt"`
}
