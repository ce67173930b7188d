package domain

// SolveFinishedMailData: 求解完成通知邮件的模板数据
type SolveFinishedMailData struct {
	InstanceName  string
	Status        string
	Objective     int64
	SolutionCount int
}
