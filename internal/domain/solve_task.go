package domain

import "time"

type SolveTaskStatus string

const (
	SolveTaskStatusQueued     SolveTaskStatus = "排队中"
	SolveTaskStatusSolving    SolveTaskStatus = "求解中"
	SolveTaskStatusFinished   SolveTaskStatus = "已完成"
	SolveTaskStatusInfeasible SolveTaskStatus = "不可行"
	SolveTaskStatusFailed     SolveTaskStatus = "失败"
)

// SolveTask: 一次异步求解请求
type SolveTask struct {
	ID                 int64           `json:"id"`
	InstanceID         int64           `json:"instanceID"`
	MaxJobsPerEmployee int32           `json:"maxJobsPerEmployee"`
	MaxJobDuration     int32           `json:"maxJobDuration"`
	SolutionCount      int32           `json:"solutionCount"` // 求解池大小，1 表示只要最优解
	RelativeGap        float64         `json:"relativeGap"`   // 求解池允许的相对最优间隙
	TimeLimitSeconds   float64         `json:"timeLimitSeconds"`
	NotifyEmail        string          `json:"notifyEmail"`
	Status             SolveTaskStatus `json:"status"`
	ErrorMessage       string          `json:"errorMessage"`
	CreatedAt          time.Time       `json:"createdAt"`
	Version            int32           `json:"-"`
}

// SolveTaskMessage: 发到消息队列中的求解任务
type SolveTaskMessage struct {
	TaskID int64 `json:"taskID"`
}
