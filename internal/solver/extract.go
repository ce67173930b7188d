package solver

import (
	"fmt"

	"github.com/sysu-ecnc-dev/staffing-optimizer/backend/internal/domain"
)

// extractSchedule 把一个解的快照还原成排班表
//
// 开工日和完工日直接从赋值矩阵推导，而不读 start/end 辅助变量：
// start 只被每个实际工作日从上方约束住，没有被赋值的项目的 start 和 end
// 在值域内自由取值，直接读变量可能把没有意义的值带进结果
func extractSchedule(m *Model, snap Snapshot) (*domain.Schedule, error) {
	instance := m.instance

	schedule := &domain.Schedule{
		Objective: m.objectiveOf(snap),
		Employees: make(map[string]map[int32]domain.ScheduleEntry, len(instance.Staff)),
		Jobs:      make([]domain.JobSummary, 0, len(instance.Jobs)),
	}

	type jobSpan struct {
		worked bool
		start  int32
		end    int32
	}
	spans := make([]jobSpan, len(instance.Jobs))

	for e, employee := range instance.Staff {
		days := make(map[int32]domain.ScheduleEntry)

		for j, job := range instance.Jobs {
			for q, qualification := range instance.Qualifications {
				for t := 0; t < int(instance.Horizon); t++ {
					if !snap.boolValue(m.vars.assign[e][j][q][t]) {
						continue
					}

					day := int32(t + 1)
					entry := domain.ScheduleEntry{JobName: job.Name, Qualification: qualification}

					// 约束 1 保证了同一天不可能有两份工作，
					// 一旦出现说明建模或解码有 bug，必须当作致命错误上报
					if existing, exists := days[day]; exists {
						return nil, fmt.Errorf(
							"员工 %s 在第 %d 天被同时安排了 (%s, %s) 和 (%s, %s)",
							employee.Name, day,
							existing.JobName, existing.Qualification,
							entry.JobName, entry.Qualification,
						)
					}
					days[day] = entry

					span := &spans[j]
					if !span.worked || day < span.start {
						span.start = day
					}
					if !span.worked || day > span.end {
						span.end = day
					}
					span.worked = true
				}
			}
		}

		schedule.Employees[employee.Name] = days
	}

	for j, job := range instance.Jobs {
		summary := domain.JobSummary{
			JobName:  job.Name,
			Complete: snap.boolValue(m.vars.complete[j]),
		}

		// 没有任何人日落在这个项目上时视为从未开工，开工日和完工日保持 0
		if spans[j].worked {
			summary.StartDay = spans[j].start
			summary.EndDay = spans[j].end
			if summary.EndDay > job.DueDate {
				summary.Lateness = summary.EndDay - job.DueDate
			}
		}

		if summary.Complete {
			summary.Profit = job.Gain - job.DailyPenalty*int64(summary.Lateness)
		}

		schedule.Jobs = append(schedule.Jobs, summary)
	}

	return schedule, nil
}
