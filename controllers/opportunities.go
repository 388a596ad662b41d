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

// findOpportunityById 按ID查找商机
func findOpportunityById(ctx context.Context, id string) (*models.Opportunity, error) {
	if id == "" {
		return nil, utils.CreateBadRequestError("商机ID不能为空")
	}

	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("无效的商机ID")
	}

	var opportunity models.Opportunity
	collection := repository.Collection(repository.OpportunitiesCollection)
	err = collection.FindOne(ctx, bson.M{"_id": objId}).Decode(&opportunity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("商机")
		}
		return nil, err
	}
	return &opportunity, nil
}

// GetOpportunities 获取商机列表
func GetOpportunities(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if stage := c.Query("stage"); stage != "" {
		filter["stage"] = stage
	}
	if companyId := c.Query("companyId"); companyId != "" {
		filter["companyId"] = companyId
	}
	if keyword := c.Query("keyword"); keyword != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": keyword, "$options": "i"}},
			{"companyName": bson.M{"$regex": keyword, "$options": "i"}},
		}
	}
	if models.UserRole(user.Role) == models.UserRoleSALES_REP {
		filter["ownerId"] = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.OpportunitiesCollection)
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var opportunities []models.Opportunity
	if err := cursor.All(ctx, &opportunities); err != nil {
		utils.HandleError(c, err)
		return
	}
	if opportunities == nil {
		opportunities = []models.Opportunity{}
	}

	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities, "total": len(opportunities)})
}

// GetOpportunityById 获取单个商机详情
func GetOpportunityById(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opportunity, err := findOpportunityById(ctx, c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"opportunity": opportunity})
}

// CreateOpportunity 创建商机
func CreateOpportunity(c *gin.Context) {
	var input models.CreateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if input.Stage == "" {
		input.Stage = models.OpportunityStageDISCOVERY
	}
	if !isValidOpportunityStage(input.Stage) {
		utils.HandleError(c, utils.CreateValidationError("无效的商机阶段"))
		return
	}

	now := time.Now()
	opportunity := models.Opportunity{
		Name:              input.Name,
		LeadId:            input.LeadId,
		CompanyId:         input.CompanyId,
		CompanyName:       input.CompanyName,
		Amount:            input.Amount,
		Stage:             input.Stage,
		ExpectedCloseDate: input.ExpectedCloseDate,
		OwnerId:           user.ID,
		OwnerName:         user.Username,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.OpportunitiesCollection)
	result, err := collection.InsertOne(ctx, opportunity)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	opportunity.ID = result.InsertedID.(primitive.ObjectID)

	utils.LogInfo(map[string]interface{}{
		"opportunityId": opportunity.ID.Hex(),
		"name":          opportunity.Name,
	}, "创建商机成功")

	c.JSON(http.StatusCreated, gin.H{"message": "创建商机成功", "opportunity": opportunity})
}

// UpdateOpportunity 更新商机
func UpdateOpportunity(c *gin.Context) {
	id := c.Param("id")
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的商机ID"))
		return
	}

	var input models.UpdateOpportunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Amount != nil {
		update["amount"] = *input.Amount
	}
	if input.Stage != nil {
		if !isValidOpportunityStage(*input.Stage) {
			utils.HandleError(c, utils.CreateValidationError("无效的商机阶段"))
			return
		}
		update["stage"] = *input.Stage
	}
	if input.ExpectedCloseDate != nil {
		update["expectedCloseDate"] = *input.ExpectedCloseDate
	}
	if input.OwnerId != nil {
		update["ownerId"] = *input.OwnerId
	}
	if input.OwnerName != nil {
		update["ownerName"] = *input.OwnerName
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.OpportunitiesCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objId}, bson.M{"$set": update})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "商机不存在"})
		return
	}

	utils.SuccessResponse(c, nil, "更新商机成功")
}

// DeleteOpportunity 删除商机
func DeleteOpportunity(c *gin.Context) {
	id := c.Param("id")
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的商机ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.OpportunitiesCollection)
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objId})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "商机不存在"})
		return
	}

	utils.LogInfo(map[string]interface{}{"opportunityId": id}, "删除商机成功")

	utils.SuccessResponse(c, nil, "删除商机成功")
}

// isValidOpportunityStage 校验商机阶段
func isValidOpportunityStage(s models.OpportunityStage) bool {
	switch s {
	case models.OpportunityStageDISCOVERY, models.OpportunityStagePROPOSAL,
		models.OpportunityStageNEGOTIATION, models.OpportunityStageCLOSED_WON,
		models.OpportunityStageCLOSED_LOST:
		return true
	}
	return false
}
