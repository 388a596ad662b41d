package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"crm_server/models"
)

func TestOverdueSweepFilterMatchesDerivedDueDateRule(t *testing.T) {
	startOfToday := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	filter := overdueSweepFilter(startOfToday)

	// 只扫描未完结状态
	statusIn := filter["status"].(bson.M)["$in"].([]models.FollowUpStatus)
	assert.ElementsMatch(t, []models.FollowUpStatus{
		models.FollowUpStatusSCHEDULED,
		models.FollowUpStatusPOSTPONED,
	}, statusIn)

	branches := filter["$or"].([]bson.M)
	require.Len(t, branches, 2)

	// followUpDate 过期
	assert.Equal(t, bson.M{"$lt": startOfToday}, branches[0]["followUpDate"])

	// followUpDate 缺失时回退 nextActionDate，
	// 否则只填 nextActionDate 的记录永远不会被置为 OVERDUE
	fallback, hasFallbackKey := branches[1]["followUpDate"]
	assert.True(t, hasFallbackKey)
	assert.Nil(t, fallback)
	assert.Equal(t, bson.M{"$lt": startOfToday}, branches[1]["nextActionDate"])
}
