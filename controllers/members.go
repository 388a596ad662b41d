package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/utils"
)

// GetMembers 获取团队成员列表
func GetMembers(c *gin.Context) {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.UsersCollection)
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		utils.HandleError(c, err)
		return
	}
	if members == nil {
		members = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"members": members, "total": len(members)})
}

// GetMemberById 获取单个成员详情
func GetMemberById(c *gin.Context) {
	objId, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的成员ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var member models.User
	collection := repository.Collection(repository.UsersCollection)
	err = collection.FindOne(ctx, bson.M{"_id": objId}).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "成员不存在"})
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// fetchActiveMembers 查询在职成员，供看板统计使用
func fetchActiveMembers(ctx context.Context) ([]models.User, error) {
	collection := repository.Collection(repository.UsersCollection)
	cursor, err := collection.Find(ctx, bson.M{"status": models.UserStatusACTIVE})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
