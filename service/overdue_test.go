package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crm_server/models"
)

func dateAt(year int, month time.Month, day, hour, min int) *time.Time {
	t := time.Date(year, month, day, hour, min, 0, 0, time.UTC)
	return &t
}

func TestEvaluateTimingYesterdayIsOneDayOverdue(t *testing.T) {
	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  *time.Time
	}{
		{"昨天零点", dateAt(2024, time.September, 14, 0, 0)},
		{"昨天深夜", dateAt(2024, time.September, 14, 23, 59)},
		{"昨天同一时刻", dateAt(2024, time.September, 14, 12, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			timing := EvaluateTiming(tc.due, models.FollowUpStatusSCHEDULED, now)
			assert.True(t, timing.IsOverdue)
			assert.Equal(t, 1, timing.DaysOverdue, "逾期天数最小为1，不能是0")
			assert.False(t, timing.IsToday)
			assert.Equal(t, -1, timing.DaysUntilFollowUp)
		})
	}
}

func TestEvaluateTimingTerminalStatusNeverOverdue(t *testing.T) {
	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	longPast := dateAt(2020, time.January, 1, 9, 0)

	for _, status := range []models.FollowUpStatus{
		models.FollowUpStatusCOMPLETED,
		models.FollowUpStatusCANCELLED,
	} {
		timing := EvaluateTiming(longPast, status, now)
		assert.False(t, timing.IsOverdue, "终态 %s 不应判定为逾期", status)
		assert.Equal(t, 0, timing.DaysOverdue)
	}
}

func TestEvaluateTimingTodayBoundary(t *testing.T) {
	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	due := dateAt(2024, time.September, 15, 23, 59)

	timing := EvaluateTiming(due, models.FollowUpStatusSCHEDULED, now)
	assert.True(t, timing.IsToday)
	assert.False(t, timing.IsOverdue, "当天到期未过自然日不算逾期")
	assert.Equal(t, 0, timing.DaysOverdue)

	// 第二天凌晨同一条记录翻转为逾期
	nextDay := time.Date(2024, 9, 16, 0, 1, 0, 0, time.UTC)
	timing = EvaluateTiming(due, models.FollowUpStatusSCHEDULED, nextDay)
	assert.False(t, timing.IsToday)
	assert.True(t, timing.IsOverdue)
	assert.Equal(t, 1, timing.DaysOverdue)
}

func TestEvaluateTimingMissingDateIsSafe(t *testing.T) {
	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)

	timing := EvaluateTiming(nil, models.FollowUpStatusSCHEDULED, now)
	assert.False(t, timing.IsOverdue)
	assert.False(t, timing.IsToday)
	assert.Equal(t, 0, timing.DaysOverdue)

	zero := time.Time{}
	timing = EvaluateTiming(&zero, models.FollowUpStatusSCHEDULED, now)
	assert.False(t, timing.IsOverdue)
	assert.False(t, timing.IsToday)
}

func TestResolveDueDatePrefersFollowUpDate(t *testing.T) {
	followUpDate := dateAt(2024, time.September, 10, 9, 0)
	nextActionDate := dateAt(2024, time.September, 12, 9, 0)

	f := models.DailyFollowUp{FollowUpDate: followUpDate, NextActionDate: nextActionDate}
	require.NotNil(t, ResolveDueDate(&f))
	assert.Equal(t, *followUpDate, *ResolveDueDate(&f))

	f = models.DailyFollowUp{NextActionDate: nextActionDate}
	require.NotNil(t, ResolveDueDate(&f))
	assert.Equal(t, *nextActionDate, *ResolveDueDate(&f))

	f = models.DailyFollowUp{}
	assert.Nil(t, ResolveDueDate(&f))
}

func TestBuildOverdueQueueEndToEndScenario(t *testing.T) {
	// 规格场景: 两条记录，一条逾期待确认，一条已完成
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()

	followUps := []models.DailyFollowUp{
		{
			ID:           id1,
			Status:       models.FollowUpStatusSCHEDULED,
			FollowUpDate: dateAt(2024, time.September, 10, 0, 0),
			LinkedType:   models.LinkedTypeLEAD,
			LinkedName:   "深圳华科电子",
		},
		{
			ID:           id2,
			Status:       models.FollowUpStatusCOMPLETED,
			FollowUpDate: dateAt(2024, time.September, 14, 0, 0),
			LinkedType:   models.LinkedTypeLEAD,
		},
	}

	queue := BuildOverdueQueue(followUps, now)
	require.Len(t, queue, 1)
	assert.Equal(t, id1.Hex(), queue[0].ID)
	assert.Equal(t, 5, queue[0].DaysOverdue)

	// 填写原因后队列清空
	followUps[0].OverdueReason = "client rescheduled"
	queue = BuildOverdueQueue(followUps, now)
	assert.Empty(t, queue)
}

func TestBuildOverdueQueueFilters(t *testing.T) {
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)
	past := dateAt(2024, time.September, 1, 0, 0)

	followUps := []models.DailyFollowUp{
		// 未关联任何对象，不入队
		{ID: primitive.NewObjectID(), Status: models.FollowUpStatusSCHEDULED, FollowUpDate: past, LinkedType: models.LinkedTypeNONE},
		// 已填原因，不入队
		{ID: primitive.NewObjectID(), Status: models.FollowUpStatusSCHEDULED, FollowUpDate: past, LinkedType: models.LinkedTypeLEAD, OverdueReason: "已电话沟通"},
		// 原因只有空白，仍视为未确认
		{ID: primitive.NewObjectID(), Status: models.FollowUpStatusSCHEDULED, FollowUpDate: past, LinkedType: models.LinkedTypeOPPORTUNITY, OverdueReason: "   "},
		// 未到期，不入队
		{ID: primitive.NewObjectID(), Status: models.FollowUpStatusSCHEDULED, FollowUpDate: dateAt(2024, time.September, 20, 0, 0), LinkedType: models.LinkedTypeLEAD},
	}

	queue := BuildOverdueQueue(followUps, now)
	require.Len(t, queue, 1)
	assert.Equal(t, followUps[2].ID.Hex(), queue[0].ID)
}

func TestBuildOverdueQueueDrainPreservesOrder(t *testing.T) {
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)

	followUps := make([]models.DailyFollowUp, 0, 3)
	for day := 1; day <= 3; day++ {
		followUps = append(followUps, models.DailyFollowUp{
			ID:           primitive.NewObjectID(),
			Status:       models.FollowUpStatusSCHEDULED,
			FollowUpDate: dateAt(2024, time.September, day, 9, 0),
			LinkedType:   models.LinkedTypeLEAD,
		})
	}

	queue := BuildOverdueQueue(followUps, now)
	require.Len(t, queue, 3)

	// 确认队首后重算，剩余条目数量减一且相对顺序不变
	followUps[0].OverdueReason = "客户出差，延后拜访"
	drained := BuildOverdueQueue(followUps, now)
	require.Len(t, drained, 2)
	assert.Equal(t, queue[1].ID, drained[0].ID)
	assert.Equal(t, queue[2].ID, drained[1].ID)
}

func TestNormalizeOverdueReason(t *testing.T) {
	reason, ok := NormalizeOverdueReason("  客户临时取消  ")
	assert.True(t, ok)
	assert.Equal(t, "客户临时取消", reason)

	_, ok = NormalizeOverdueReason("   ")
	assert.False(t, ok, "纯空白原因必须被拒绝")

	_, ok = NormalizeOverdueReason("")
	assert.False(t, ok)
}

func TestApplyTimingSetsDerivedFields(t *testing.T) {
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)
	f := models.DailyFollowUp{
		Status:       models.FollowUpStatusSCHEDULED,
		FollowUpDate: dateAt(2024, time.September, 12, 9, 0),
	}

	ApplyTiming(&f, now)
	assert.True(t, f.IsOverdue)
	assert.Equal(t, 3, f.DaysOverdue)
	assert.Equal(t, -3, f.DaysUntilFollowUp)
	assert.False(t, f.IsToday)
}
