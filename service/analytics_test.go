package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crm_server/models"
)

func TestSafeRateGuardsZeroDenominator(t *testing.T) {
	assert.Equal(t, float64(0), SafeRate(0, 0))
	assert.Equal(t, float64(0), SafeRate(5, 0))
	assert.Equal(t, 0.5, SafeRate(1, 2))
}

func TestBuildFollowUpAnalyticsEmptyCollection(t *testing.T) {
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)
	analytics := BuildFollowUpAnalytics(nil, now)

	assert.Equal(t, 0, analytics.Total)
	assert.Equal(t, float64(0), analytics.CompletionRate, "空集合完成率取0，不能是NaN")
	assert.Equal(t, float64(0), analytics.AvgDaysOverdue)
	assert.Empty(t, analytics.StatusDistribution)
}

func TestBuildFollowUpAnalyticsPartitions(t *testing.T) {
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)

	followUps := []models.DailyFollowUp{
		{Status: models.FollowUpStatusSCHEDULED, Priority: models.FollowUpPriorityHIGH, Type: models.FollowUpTypeCALL,
			FollowUpDate: dateAt(2024, time.September, 12, 9, 0)}, // 逾期3天
		{Status: models.FollowUpStatusSCHEDULED, Priority: models.FollowUpPriorityHIGH, Type: models.FollowUpTypeMEETING,
			FollowUpDate: dateAt(2024, time.September, 14, 9, 0)}, // 逾期1天
		{Status: models.FollowUpStatusSCHEDULED, Priority: models.FollowUpPriorityLOW, Type: models.FollowUpTypeCALL,
			FollowUpDate: dateAt(2024, time.September, 15, 18, 0)}, // 今日
		{Status: models.FollowUpStatusCOMPLETED, Priority: models.FollowUpPriorityMEDIUM, Type: models.FollowUpTypeEMAIL,
			FollowUpDate: dateAt(2024, time.September, 10, 9, 0)}, // 已完成，不算逾期
		{Status: models.FollowUpStatusSCHEDULED, Priority: models.FollowUpPriorityMEDIUM, Type: models.FollowUpTypeCALL,
			FollowUpDate: dateAt(2024, time.September, 20, 9, 0)}, // 未来
	}

	analytics := BuildFollowUpAnalytics(followUps, now)

	assert.Equal(t, 5, analytics.Total)
	assert.Equal(t, 1, analytics.CompletedCount)
	assert.Equal(t, 2, analytics.OverdueCount)
	assert.Equal(t, 1, analytics.TodayCount)
	assert.Equal(t, 1, analytics.UpcomingCount)
	assert.InDelta(t, 0.2, analytics.CompletionRate, 1e-9)
	assert.InDelta(t, 2.0, analytics.AvgDaysOverdue, 1e-9) // (3+1)/2

	byName := func(items []models.ChartDataItem, name string) int {
		for _, item := range items {
			if item.Name == name {
				return item.Value
			}
		}
		return 0
	}
	assert.Equal(t, 4, byName(analytics.StatusDistribution, "SCHEDULED"))
	assert.Equal(t, 1, byName(analytics.StatusDistribution, "COMPLETED"))
	assert.Equal(t, 3, byName(analytics.TypeDistribution, "CALL"))
	assert.Equal(t, 2, byName(analytics.PriorityDistribution, "HIGH"))
}

func TestBuildFollowUpInsights(t *testing.T) {
	insights := BuildFollowUpInsights(models.FollowUpAnalytics{})
	assert.Empty(t, insights.Messages)

	insights = BuildFollowUpInsights(models.FollowUpAnalytics{
		Total:          4,
		OverdueCount:   2,
		TodayCount:     1,
		CompletionRate: 0.25,
	})
	require.Len(t, insights.Messages, 3)
	assert.Contains(t, insights.Messages[0], "2")
}

func TestBuildConversionFunnel(t *testing.T) {
	leads := []models.Lead{
		{Status: models.LeadStatusNEW},
		{Status: models.LeadStatusNEW},
		{Status: models.LeadStatusCONTACTED},
		{Status: models.LeadStatusQUALIFIED},
		{Status: models.LeadStatusCONVERTED},
		{Status: models.LeadStatusLOST},
	}

	funnel := BuildConversionFunnel(leads)
	require.Len(t, funnel, 4)
	assert.Equal(t, 6, funnel[0].Value)
	assert.Equal(t, 3, funnel[1].Value) // 已联系及之后阶段
	assert.Equal(t, 2, funnel[2].Value)
	assert.Equal(t, 1, funnel[3].Value)

	empty := BuildConversionFunnel(nil)
	require.Len(t, empty, 4)
	assert.Equal(t, 0, empty[0].Value)
}

func TestBuildAttendanceSummaryRateGuard(t *testing.T) {
	// 成员为空时出勤率取0
	summary := BuildAttendanceSummary(nil, 0, 7)
	assert.Equal(t, float64(0), summary.AttendanceRate)
	assert.Equal(t, 0, summary.PresentCount)

	records := []models.AttendanceRecord{
		{Status: models.AttendanceStatusPRESENT},
		{Status: models.AttendanceStatusREMOTE},
		{Status: models.AttendanceStatusABSENT},
		{Status: models.AttendanceStatusLEAVE},
	}
	summary = BuildAttendanceSummary(records, 2, 2)
	assert.Equal(t, 2, summary.PresentCount, "远程计入出勤")
	assert.InDelta(t, 0.5, summary.AttendanceRate, 1e-9)
}

func TestBuildMemberWorkloads(t *testing.T) {
	now := time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)

	alice := models.User{ID: primitive.NewObjectID(), Username: "张伟"}
	bob := models.User{ID: primitive.NewObjectID(), Username: "李娜"}

	followUps := []models.DailyFollowUp{
		{AssignedTo: alice.ID.Hex(), Status: models.FollowUpStatusSCHEDULED,
			FollowUpDate: dateAt(2024, time.September, 10, 9, 0)}, // alice 逾期
		{AssignedTo: alice.ID.Hex(), Status: models.FollowUpStatusSCHEDULED,
			FollowUpDate: dateAt(2024, time.September, 20, 9, 0)},
		{AssignedTo: alice.ID.Hex(), Status: models.FollowUpStatusCOMPLETED,
			FollowUpDate: dateAt(2024, time.September, 10, 9, 0)}, // 已完结不计
		{AssignedTo: bob.ID.Hex(), Status: models.FollowUpStatusPOSTPONED,
			FollowUpDate: dateAt(2024, time.September, 21, 9, 0)},
	}

	workloads := BuildMemberWorkloads([]models.User{alice, bob}, followUps, now)
	require.Len(t, workloads, 2)

	assert.Equal(t, 2, workloads[0].OpenCount)
	assert.Equal(t, 1, workloads[0].OverdueCount)
	assert.InDelta(t, 2.0/3.0, workloads[0].UtilizationShare, 1e-9)

	assert.Equal(t, 1, workloads[1].OpenCount)
	assert.Equal(t, 0, workloads[1].OverdueCount)
	assert.InDelta(t, 1.0/3.0, workloads[1].UtilizationShare, 1e-9)

	// 没有任何未完结跟进时比例为0而不是NaN
	none := BuildMemberWorkloads([]models.User{alice}, nil, now)
	require.Len(t, none, 1)
	assert.Equal(t, float64(0), none[0].UtilizationShare)
}
