package utils

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

// ValidateProblemInstance 在建模之前检查实例数据的一致性
// 数据不一致必须在这里拦下来，而不是等它悄悄变成一个不可满足或错误的模型
func ValidateProblemInstance(instance *domain.ProblemInstance) error {
	if instance.Horizon < 1 {
		return errors.New("排班天数必须至少为 1")
	}

	qualificationSet := make(map[string]bool, len(instance.Qualifications))
	for _, qualification := range instance.Qualifications {
		if qualification == "" {
			return errors.New("技能标签不能为空")
		}
		if qualificationSet[qualification] {
			return fmt.Errorf("技能 %s 在全局技能表中重复出现", qualification)
		}
		qualificationSet[qualification] = true
	}

	employeeNames := make(map[string]bool, len(instance.Staff))
	for _, employee := range instance.Staff {
		if employee.Name == "" {
			return errors.New("员工姓名不能为空")
		}
		if employeeNames[employee.Name] {
			return fmt.Errorf("员工 %s 重复出现", employee.Name)
		}
		employeeNames[employee.Name] = true

		for _, qualification := range employee.Qualifications {
			if !qualificationSet[qualification] {
				return fmt.Errorf("员工 %s 持有的技能 %s 不在全局技能表中", employee.Name, qualification)
			}
		}

		for _, day := range employee.Vacations {
			if day < 1 || day > instance.Horizon {
				return fmt.Errorf("员工 %s 的休假日 %d 超出了排班范围", employee.Name, day)
			}
		}
	}

	jobNames := make(map[string]bool, len(instance.Jobs))
	for _, job := range instance.Jobs {
		if job.Name == "" {
			return errors.New("项目名称不能为空")
		}
		if jobNames[job.Name] {
			return fmt.Errorf("项目 %s 重复出现", job.Name)
		}
		jobNames[job.Name] = true

		// 没有任何技能需求的项目没有意义，直接拒绝
		if len(job.WorkingDaysPerQualification) == 0 {
			return fmt.Errorf("项目 %s 没有任何技能需求", job.Name)
		}

		if job.DueDate < 1 || job.DueDate > instance.Horizon {
			return fmt.Errorf("项目 %s 的截止日 %d 超出了排班范围", job.Name, job.DueDate)
		}
		if job.Gain < 0 {
			return fmt.Errorf("项目 %s 的收益不能为负数", job.Name)
		}
		if job.DailyPenalty < 0 {
			return fmt.Errorf("项目 %s 的延期罚金不能为负数", job.Name)
		}

		for qualification, required := range job.WorkingDaysPerQualification {
			if !qualificationSet[qualification] {
				return fmt.Errorf("项目 %s 需要的技能 %s 不在全局技能表中", job.Name, qualification)
			}
			if required < 1 {
				return fmt.Errorf("项目 %s 对技能 %s 的人日需求必须为正数", job.Name, qualification)
			}
		}
	}

	return nil
}

// ValidateScheduleWithInstance 校验一张排班表是否满足实例的全部硬约束
// 求解结束后必须再过一遍这个校验，求解器或解码的 bug 不能悄悄流到结果里
func ValidateScheduleWithInstance(schedule *domain.Schedule, instance *domain.ProblemInstance, maxJobsPerEmployee int32, maxJobDuration int32) error {
	employeesByName := make(map[string]*domain.Employee, len(instance.Staff))
	for i := range instance.Staff {
		employeesByName[instance.Staff[i].Name] = &instance.Staff[i]
	}
	jobsByName := make(map[string]*domain.Job, len(instance.Jobs))
	for i := range instance.Jobs {
		jobsByName[instance.Jobs[i].Name] = &instance.Jobs[i]
	}

	// 项目名 -> 技能 -> 实际投入的人日数
	workedDays := make(map[string]map[string]int32)

	for employeeName, days := range schedule.Employees {
		employee, exists := employeesByName[employeeName]
		if !exists {
			return fmt.Errorf("排班表中出现了实例中不存在的员工 %s", employeeName)
		}

		jobSet := make(map[string]bool)
		for day, entry := range days {
			if day < 1 || day > instance.Horizon {
				return fmt.Errorf("员工 %s 的第 %d 天超出了排班范围", employeeName, day)
			}
			if employee.IsOnVacation(day) {
				return fmt.Errorf("员工 %s 在休假日 %d 被安排了工作", employeeName, day)
			}

			job, exists := jobsByName[entry.JobName]
			if !exists {
				return fmt.Errorf("排班表中出现了实例中不存在的项目 %s", entry.JobName)
			}
			if !employee.HasQualification(entry.Qualification) {
				return fmt.Errorf("员工 %s 不持有技能 %s，不能被安排到项目 %s", employeeName, entry.Qualification, entry.JobName)
			}
			if !job.RequiresQualification(entry.Qualification) {
				return fmt.Errorf("项目 %s 不需要技能 %s", entry.JobName, entry.Qualification)
			}

			jobSet[entry.JobName] = true
			if _, exists := workedDays[entry.JobName]; !exists {
				workedDays[entry.JobName] = make(map[string]int32)
			}
			workedDays[entry.JobName][entry.Qualification]++
		}

		if int32(len(jobSet)) > maxJobsPerEmployee {
			return fmt.Errorf("员工 %s 参与了 %d 个项目，超过了上限 %d", employeeName, len(jobSet), maxJobsPerEmployee)
		}
	}

	// 任何项目的任何技能都不允许超额投入
	for jobName, perQualification := range workedDays {
		job := jobsByName[jobName]
		for qualification, worked := range perQualification {
			if worked > job.WorkingDaysPerQualification[qualification] {
				return fmt.Errorf("项目 %s 的技能 %s 实际投入 %d 人日，超过了要求的 %d", jobName, qualification, worked, job.WorkingDaysPerQualification[qualification])
			}
		}
	}

	for _, summary := range schedule.Jobs {
		job, exists := jobsByName[summary.JobName]
		if !exists {
			return fmt.Errorf("排班表汇总中出现了实例中不存在的项目 %s", summary.JobName)
		}

		// 标记为完成的项目，每种技能的投入必须恰好等于需求
		if summary.Complete {
			for qualification, required := range job.WorkingDaysPerQualification {
				if workedDays[job.Name][qualification] != required {
					return fmt.Errorf("项目 %s 被标记为完成，但技能 %s 实际投入 %d 人日，与要求的 %d 不符", job.Name, qualification, workedDays[job.Name][qualification], required)
				}
			}
		}

		if summary.StartDay != 0 && summary.EndDay-summary.StartDay > maxJobDuration-1 {
			return fmt.Errorf("项目 %s 从第 %d 天持续到第 %d 天，超过了最长持续天数 %d", job.Name, summary.StartDay, summary.EndDay, maxJobDuration)
		}
	}

	return nil
}
