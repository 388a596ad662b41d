package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crm_server/models"
	"crm_server/utils"
)

func TestBuildDateRangeFilterPeriods(t *testing.T) {
	now := time.Date(2024, 9, 15, 14, 30, 0, 0, time.UTC)
	startOfToday := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)

	filter, err := buildDateRangeFilter("today", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, startOfToday, filter["$gte"])
	assert.Equal(t, startOfToday.AddDate(0, 0, 1), filter["$lt"])

	filter, err = buildDateRangeFilter("week", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, startOfToday.AddDate(0, 0, -7), filter["$gte"])

	filter, err = buildDateRangeFilter("month", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, startOfToday.AddDate(0, 0, -30), filter["$gte"])
}

func TestBuildDateRangeFilterExplicitDates(t *testing.T) {
	now := time.Date(2024, 9, 15, 14, 30, 0, 0, time.UTC)

	// 结束日期应包含当天整天
	filter, err := buildDateRangeFilter("", "2024-09-01", "2024-09-10", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), filter["$gte"])
	assert.Equal(t, time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC), filter["$lt"])

	// 只有起始日期
	filter, err = buildDateRangeFilter("", "2024-09-01", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), filter["$gte"])
	_, hasEnd := filter["$lt"]
	assert.False(t, hasEnd)

	// 无任何条件
	filter, err = buildDateRangeFilter("", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, bson.M(nil), filter)
}

func TestBuildDateRangeFilterRejectsBadDates(t *testing.T) {
	now := time.Now()

	_, err := buildDateRangeFilter("", "not-a-date", "", now)
	assert.Error(t, err)

	_, err = buildDateRangeFilter("", "", "2024/09/01", now)
	assert.Error(t, err)
}

func TestFollowUpValidators(t *testing.T) {
	assert.True(t, isValidFollowUpType(models.FollowUpTypeCALL))
	assert.True(t, isValidFollowUpType(models.FollowUpTypeSITE_VISIT))
	assert.False(t, isValidFollowUpType(models.FollowUpType("FAX")))

	assert.True(t, isValidFollowUpStatus(models.FollowUpStatusOVERDUE))
	assert.False(t, isValidFollowUpStatus(models.FollowUpStatus("DONE")))

	assert.True(t, isValidPriority(models.FollowUpPriorityCRITICAL))
	assert.False(t, isValidPriority(models.FollowUpPriority("URGENT")))
}

func TestLeadAndOpportunityValidators(t *testing.T) {
	assert.True(t, isValidLeadStatus(models.LeadStatusCONVERTED))
	assert.False(t, isValidLeadStatus(models.LeadStatus("PENDING")))

	assert.True(t, isValidOpportunityStage(models.OpportunityStageCLOSED_WON))
	assert.False(t, isValidOpportunityStage(models.OpportunityStage("WON")))
}

func TestFollowUpUpdateFilterScopesSalesRep(t *testing.T) {
	recordId := primitive.NewObjectID()

	// 主管和管理员不受范围限制
	manager := &utils.LoginUser{ID: "u-manager", Role: string(models.UserRoleSALES_MANAGER)}
	assert.Equal(t, bson.M{"_id": recordId}, followUpUpdateFilter(recordId, manager))

	admin := &utils.LoginUser{ID: "u-admin", Role: string(models.UserRoleSUPER_ADMIN)}
	assert.Equal(t, bson.M{"_id": recordId}, followUpUpdateFilter(recordId, admin))

	// 销售只能命中分配给自己的记录
	rep := &utils.LoginUser{ID: "u-rep", Role: string(models.UserRoleSALES_REP)}
	assert.Equal(t, bson.M{"_id": recordId, "assignedTo": "u-rep"}, followUpUpdateFilter(recordId, rep))
}

func TestParsePositiveInt(t *testing.T) {
	assert.Equal(t, int64(3), parsePositiveInt("3", 20))
	assert.Equal(t, int64(20), parsePositiveInt("", 20))
	assert.Equal(t, int64(20), parsePositiveInt("0", 20))
	assert.Equal(t, int64(20), parsePositiveInt("-5", 20))
	assert.Equal(t, int64(20), parsePositiveInt("abc", 20))
}

func TestAttendanceStatusValidator(t *testing.T) {
	assert.True(t, isValidAttendanceStatus(models.AttendanceStatusREMOTE))
	assert.False(t, isValidAttendanceStatus(models.AttendanceStatus("SICK")))
}
