package domain

import "slices"

// Employee: 问题实例中的一名员工
// 注意这个和 User 不是一回事，User 是系统的登录用户，Employee 是被排班的对象
type Employee struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Qualifications []string `json:"qualifications"`
	Vacations      []int32  `json:"vacations"` // 休假的日历日（1 开始）
}

func (e *Employee) HasQualification(qualification string) bool {
	return slices.Contains(e.Qualifications, qualification)
}

func (e *Employee) IsOnVacation(day int32) bool {
	return slices.Contains(e.Vacations, day)
}
