package service

import (
	"strings"
	"time"

	"crm_server/models"
)

// FollowUpTiming 跟进记录相对当前时间的分类结果
type FollowUpTiming struct {
	IsOverdue         bool
	IsToday           bool
	DaysOverdue       int
	DaysUntilFollowUp int
}

// ResolveDueDate 取跟进记录的生效到期时间，followUpDate 优先
func ResolveDueDate(f *models.DailyFollowUp) *time.Time {
	if f.FollowUpDate != nil && !f.FollowUpDate.IsZero() {
		return f.FollowUpDate
	}
	if f.NextActionDate != nil && !f.NextActionDate.IsZero() {
		return f.NextActionDate
	}
	return nil
}

// EvaluateTiming 计算逾期/今日分类和天数差
// 规则:
//   - 到期时间缺失或为零值时一律视为未逾期、非今日，绝不报错
//   - 按自然日比较（双方归零到当天零点），而不是24小时窗口
//   - 终态（COMPLETED/CANCELLED）不算逾期，无论过期多久
//   - daysOverdue 为自然日差，逾期时最小为1，避免展示"逾期0天"
func EvaluateTiming(due *time.Time, status models.FollowUpStatus, now time.Time) FollowUpTiming {
	timing := FollowUpTiming{}
	if due == nil || due.IsZero() {
		return timing
	}

	loc := now.Location()
	dueLocal := due.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dueDay := time.Date(dueLocal.Year(), dueLocal.Month(), dueLocal.Day(), 0, 0, 0, 0, loc)

	timing.IsToday = dueDay.Equal(today)
	timing.DaysUntilFollowUp = int(dueDay.Sub(today).Hours() / 24)

	terminal := status == models.FollowUpStatusCOMPLETED || status == models.FollowUpStatusCANCELLED
	if dueDay.Before(today) && !terminal {
		timing.IsOverdue = true
		days := int(today.Sub(dueDay).Hours() / 24)
		if days < 1 {
			days = 1
		}
		timing.DaysOverdue = days
	}

	return timing
}

// ApplyTiming 把分类结果写入记录的派生字段
func ApplyTiming(f *models.DailyFollowUp, now time.Time) {
	timing := EvaluateTiming(ResolveDueDate(f), f.Status, now)
	f.IsOverdue = timing.IsOverdue
	f.IsToday = timing.IsToday
	f.DaysOverdue = timing.DaysOverdue
	f.DaysUntilFollowUp = timing.DaysUntilFollowUp
}

// BuildOverdueQueue 构建逾期确认队列
// 入队条件: 已逾期、关联了线索/商机/管道、还没填逾期原因
// 顺序保持入参顺序，不重新排序
func BuildOverdueQueue(followUps []models.DailyFollowUp, now time.Time) []models.OverdueQueueEntry {
	queue := []models.OverdueQueueEntry{}

	for i := range followUps {
		f := &followUps[i]
		timing := EvaluateTiming(ResolveDueDate(f), f.Status, now)
		if !timing.IsOverdue {
			continue
		}
		if f.LinkedType != models.LinkedTypeLEAD &&
			f.LinkedType != models.LinkedTypeOPPORTUNITY &&
			f.LinkedType != models.LinkedTypePIPELINE {
			continue
		}
		if strings.TrimSpace(f.OverdueReason) != "" {
			continue
		}

		queue = append(queue, models.OverdueQueueEntry{
			ID:                f.ID.Hex(),
			ActionDescription: f.ActionDescription,
			FollowUpDate:      ResolveDueDate(f),
			LinkedType:        f.LinkedType,
			LinkedName:        f.LinkedName,
			DaysOverdue:       timing.DaysOverdue,
			AssignedTo:        f.AssignedTo,
			Notes:             f.Notes,
			OverdueReason:     f.OverdueReason,
		})
	}

	return queue
}

// NormalizeOverdueReason 校验并规范化逾期原因，空白原因直接拒绝
func NormalizeOverdueReason(reason string) (string, bool) {
	trimmed := strings.TrimSpace(reason)
	return trimmed, trimmed != ""
}
