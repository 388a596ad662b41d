package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/utils"
)

// GetRecentActivity 获取最近的写操作动态，基于操作日志
func GetRecentActivity(c *gin.Context) {
	limit := int64(20)
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.ParseInt(limitParam, 10, 64)
		if err != nil || parsed <= 0 {
			utils.HandleError(c, utils.CreateBadRequestError("limit 参数必须为正整数"))
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "operationTime", Value: -1}}).
		SetLimit(limit)

	collection := repository.Collection(repository.ApiOperationLogsCollection)
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var logs []models.OperationLog
	if err := cursor.All(ctx, &logs); err != nil {
		utils.HandleError(c, err)
		return
	}

	activities := make([]models.ActivityItem, 0, len(logs))
	for i := range logs {
		activities = append(activities, models.ActivityItem{
			Method:       logs[i].Method,
			Path:         logs[i].Path,
			OperatorName: logs[i].OperatorName,
			Success:      logs[i].Success,
			Time:         logs[i].OperationTime.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}
