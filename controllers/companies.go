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

// GetCompanies 获取公司列表
func GetCompanies(c *gin.Context) {
	filter := bson.M{}
	if keyword := c.Query("keyword"); keyword != "" {
		filter["name"] = bson.M{"$regex": keyword, "$options": "i"}
	}
	if industry := c.Query("industry"); industry != "" {
		filter["industry"] = industry
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.CompaniesCollection)
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var companies []models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		utils.HandleError(c, err)
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies, "total": len(companies)})
}

// GetCompanyById 获取单个公司详情
func GetCompanyById(c *gin.Context) {
	objId, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的公司ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var company models.Company
	collection := repository.Collection(repository.CompaniesCollection)
	err = collection.FindOne(ctx, bson.M{"_id": objId}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "公司不存在"})
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

// CreateCompany 创建公司，名称重复时拒绝
func CreateCompany(c *gin.Context) {
	var input models.CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.CompaniesCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"name": input.Name})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "公司名称已存在"})
		return
	}

	now := time.Now()
	company := models.Company{
		Name:      input.Name,
		Industry:  input.Industry,
		Address:   input.Address,
		Phone:     input.Phone,
		Website:   input.Website,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := collection.InsertOne(ctx, company)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	company.ID = result.InsertedID.(primitive.ObjectID)

	utils.LogInfo(map[string]interface{}{"companyId": company.ID.Hex(), "name": company.Name}, "创建公司成功")

	c.JSON(http.StatusCreated, gin.H{"message": "创建公司成功", "company": company})
}
