package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/service"
	"crm_server/utils"
)

// SubmitAttendance 提交考勤，同一成员同一天重复提交按更新处理
func SubmitAttendance(c *gin.Context) {
	var input models.SubmitAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if _, err := utils.ParseDateParam(input.Date); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	if !isValidAttendanceStatus(input.Status) {
		utils.HandleError(c, utils.CreateValidationError("无效的考勤状态"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"userId": user.ID, "date": input.Date}
	update := bson.M{
		"$set": bson.M{
			"userName":    user.Username,
			"status":      input.Status,
			"checkInTime": input.CheckInTime,
			"note":        input.Note,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"userId":    user.ID,
			"date":      input.Date,
			"createdAt": now,
		},
	}

	upsert := true
	collection := repository.Collection(repository.AttendanceRecordsCollection)

	// 幂等写入，瞬态失败时走统一重试
	result, err := repository.ExecuteDbOperation(func() (interface{}, error) {
		return collection.UpdateOne(ctx, filter, update, &options.UpdateOptions{Upsert: &upsert})
	}, 3)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	created := result.(*mongo.UpdateResult).UpsertedCount > 0
	message := "更新考勤成功"
	statusCode := http.StatusOK
	if created {
		message = "提交考勤成功"
		statusCode = http.StatusCreated
	}

	utils.LogInfo(map[string]interface{}{
		"userId": user.ID,
		"date":   input.Date,
		"status": input.Status,
	}, message)

	utils.SuccessResponse(c, nil, message, statusCode)
}

// GetAttendanceByDate 获取某天全体成员的考勤
func GetAttendanceByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := utils.ParseDateParam(date); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	records, err := fetchAttendanceSince(ctx, date, date)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "records": records})
}

// GetRecentAttendance 获取最近N天考勤及出勤率，默认7天
func GetRecentAttendance(c *gin.Context) {
	days := 7
	if daysParam := c.Query("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			utils.HandleError(c, utils.CreateBadRequestError("days 参数必须为正整数"))
			return
		}
		days = parsed
	}
	if days > 90 {
		days = 90
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	startDate := now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	endDate := now.Format("2006-01-02")

	records, err := fetchAttendanceSince(ctx, startDate, endDate)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	members, err := fetchActiveMembers(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	summary := service.BuildAttendanceSummary(records, len(members), days)

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"summary": summary,
	})
}

// fetchAttendanceSince 查询日期区间内的考勤记录（含两端）
// 日期为 YYYY-MM-DD 字符串，字典序即时间序
func fetchAttendanceSince(ctx context.Context, startDate, endDate string) ([]models.AttendanceRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": startDate, "$lte": endDate}}

	collection := repository.Collection(repository.AttendanceRecordsCollection)
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.AttendanceRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// isValidAttendanceStatus 校验考勤状态
func isValidAttendanceStatus(s models.AttendanceStatus) bool {
	switch s {
	case models.AttendanceStatusPRESENT, models.AttendanceStatusABSENT,
		models.AttendanceStatusLEAVE, models.AttendanceStatusREMOTE:
		return true
	}
	return false
}
