package domain

// Job: 问题实例中的一个项目
// WorkingDaysPerQualification 表示完成这个项目每种技能各需要多少个人日
type Job struct {
	ID                          int64            `json:"id"`
	Name                        string           `json:"name"`
	Gain                        int64            `json:"gain"`         // 项目完成后获得的收益
	DueDate                     int32            `json:"dueDate"`      // 预期完成日（1 开始）
	DailyPenalty                int64            `json:"dailyPenalty"` // 每延期一天的罚金
	WorkingDaysPerQualification map[string]int32 `json:"workingDaysPerQualification"`
}

func (j *Job) RequiresQualification(qualification string) bool {
	_, exists := j.WorkingDaysPerQualification[qualification]
	return exists
}
