package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/service"
	"crm_server/utils"
)

const attendanceWindowDays = 7

// GetAnalytics 获取运营看板聚合数据
// 各数据源并发查询；单个数据源失败时记录日志并按空集合处理，
// 不影响其他区块返回
func GetAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()

	var (
		leads      []models.Lead
		oppCount   int64
		members    []models.User
		followUps  []models.DailyFollowUp
		attendance []models.AttendanceRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cursor, err := repository.Collection(repository.LeadsCollection).Find(gctx, bson.M{})
		if err == nil {
			defer cursor.Close(gctx)
			err = cursor.All(gctx, &leads)
		}
		if err != nil {
			utils.LogError(err, nil, "看板线索数据查询失败")
			leads = nil
		}
		return nil
	})

	g.Go(func() error {
		count, err := repository.Collection(repository.OpportunitiesCollection).CountDocuments(gctx, bson.M{})
		if err != nil {
			utils.LogError(err, nil, "看板商机计数失败")
			return nil
		}
		oppCount = count
		return nil
	})

	g.Go(func() error {
		result, err := fetchActiveMembers(gctx)
		if err != nil {
			utils.LogError(err, nil, "看板成员数据查询失败")
			return nil
		}
		members = result
		return nil
	})

	g.Go(func() error {
		cursor, err := repository.Collection(repository.DailyFollowUpsCollection).Find(gctx, bson.M{})
		if err == nil {
			defer cursor.Close(gctx)
			err = cursor.All(gctx, &followUps)
		}
		if err != nil {
			utils.LogError(err, nil, "看板跟进数据查询失败")
			followUps = nil
		}
		return nil
	})

	g.Go(func() error {
		startDate := now.AddDate(0, 0, -(attendanceWindowDays - 1)).Format("2006-01-02")
		endDate := now.Format("2006-01-02")
		result, err := fetchAttendanceSince(gctx, startDate, endDate)
		if err != nil {
			utils.LogError(err, nil, "看板考勤数据查询失败")
			return nil
		}
		attendance = result
		return nil
	})

	// 各子任务自行消化错误，这里只等待全部完成
	_ = g.Wait()

	response := models.DashboardDataResponse{
		LeadCount:        len(leads),
		OpportunityCount: int(oppCount),
		MemberCount:      len(members),
		FollowUps:        service.BuildFollowUpAnalytics(followUps, now),
		ConversionFunnel: service.BuildConversionFunnel(leads),
		Attendance:       service.BuildAttendanceSummary(attendance, len(members), attendanceWindowDays),
		Workloads:        service.BuildMemberWorkloads(members, followUps, now),
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": response})
}
