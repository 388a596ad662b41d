package service

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"crm_server/models"
)

// SafeRate 计算比率，分母为0时返回0而不是NaN
func SafeRate(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// countByCategory 按类别分组计数，按首次出现顺序输出
func countByCategory(keys []string) []models.ChartDataItem {
	counts := make(map[string]int)
	order := []string{}

	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	items := []models.ChartDataItem{}
	for _, key := range order {
		items = append(items, models.ChartDataItem{Name: key, Value: counts[key]})
	}
	return items
}

// BuildFollowUpAnalytics 计算跟进统计，每次请求全量重算
func BuildFollowUpAnalytics(followUps []models.DailyFollowUp, now time.Time) models.FollowUpAnalytics {
	analytics := models.FollowUpAnalytics{Total: len(followUps)}

	statuses := make([]string, 0, len(followUps))
	priorities := make([]string, 0, len(followUps))
	types := make([]string, 0, len(followUps))
	overdueDays := []float64{}

	for i := range followUps {
		f := &followUps[i]
		timing := EvaluateTiming(ResolveDueDate(f), f.Status, now)

		if f.Status == models.FollowUpStatusCOMPLETED {
			analytics.CompletedCount++
		}
		if timing.IsOverdue {
			analytics.OverdueCount++
			overdueDays = append(overdueDays, float64(timing.DaysOverdue))
		} else if timing.IsToday {
			analytics.TodayCount++
		} else if timing.DaysUntilFollowUp > 0 {
			analytics.UpcomingCount++
		}

		statuses = append(statuses, string(f.Status))
		priorities = append(priorities, string(f.Priority))
		types = append(types, string(f.Type))
	}

	analytics.CompletionRate = SafeRate(analytics.CompletedCount, analytics.Total)
	if len(overdueDays) > 0 {
		// 空集合时 stats.Mean 会报错，这里保持0
		if mean, err := stats.Mean(overdueDays); err == nil {
			analytics.AvgDaysOverdue = mean
		}
	}

	analytics.StatusDistribution = countByCategory(statuses)
	analytics.PriorityDistribution = countByCategory(priorities)
	analytics.TypeDistribution = countByCategory(types)

	return analytics
}

// BuildFollowUpInsights 根据统计结果生成提示文案
func BuildFollowUpInsights(analytics models.FollowUpAnalytics) models.FollowUpInsights {
	insights := models.FollowUpInsights{Messages: []string{}}

	if analytics.OverdueCount > 0 {
		insights.Messages = append(insights.Messages,
			fmt.Sprintf("有 %d 条跟进已逾期，请尽快处理并填写逾期原因", analytics.OverdueCount))
	}
	if analytics.TodayCount > 0 {
		insights.Messages = append(insights.Messages,
			fmt.Sprintf("今天有 %d 条跟进到期", analytics.TodayCount))
	}
	if analytics.Total > 0 {
		insights.Messages = append(insights.Messages,
			fmt.Sprintf("当前完成率 %.0f%%", analytics.CompletionRate*100))
	}

	return insights
}

// BuildConversionFunnel 构建线索转化漏斗
// 每一层统计"到达过该阶段"的线索数: 全部 -> 已联系 -> 已验证 -> 已转商机
func BuildConversionFunnel(leads []models.Lead) []models.ChartDataItem {
	total := len(leads)
	contacted := 0
	qualified := 0
	converted := 0

	for i := range leads {
		switch leads[i].Status {
		case models.LeadStatusCONTACTED:
			contacted++
		case models.LeadStatusQUALIFIED:
			contacted++
			qualified++
		case models.LeadStatusCONVERTED:
			contacted++
			qualified++
			converted++
		}
	}

	return []models.ChartDataItem{
		{Name: "线索总数", Value: total},
		{Name: "已联系", Value: contacted},
		{Name: "已验证", Value: qualified},
		{Name: "已转商机", Value: converted},
	}
}

// BuildAttendanceSummary 计算固定窗口内的团队出勤率
// 出勤率 = 出勤人次 / (成员数 * 天数)，分母为0时取0
func BuildAttendanceSummary(records []models.AttendanceRecord, memberCount, days int) models.AttendanceSummary {
	summary := models.AttendanceSummary{
		Days:        days,
		MemberCount: memberCount,
	}

	for i := range records {
		if records[i].Status == models.AttendanceStatusPRESENT ||
			records[i].Status == models.AttendanceStatusREMOTE {
			summary.PresentCount++
		}
	}

	summary.AttendanceRate = SafeRate(summary.PresentCount, memberCount*days)
	return summary
}

// BuildMemberWorkloads 按成员统计未完结跟进量及其占团队的比例
func BuildMemberWorkloads(members []models.User, followUps []models.DailyFollowUp, now time.Time) []models.MemberWorkload {
	openByUser := make(map[string]int)
	overdueByUser := make(map[string]int)
	totalOpen := 0

	for i := range followUps {
		f := &followUps[i]
		if f.Status == models.FollowUpStatusCOMPLETED || f.Status == models.FollowUpStatusCANCELLED {
			continue
		}
		openByUser[f.AssignedTo]++
		totalOpen++

		timing := EvaluateTiming(ResolveDueDate(f), f.Status, now)
		if timing.IsOverdue {
			overdueByUser[f.AssignedTo]++
		}
	}

	workloads := []models.MemberWorkload{}
	for i := range members {
		id := members[i].ID.Hex()
		workloads = append(workloads, models.MemberWorkload{
			UserId:           id,
			UserName:         members[i].Username,
			OpenCount:        openByUser[id],
			OverdueCount:     overdueByUser[id],
			UtilizationShare: SafeRate(openByUser[id], totalOpen),
		})
	}

	return workloads
}
