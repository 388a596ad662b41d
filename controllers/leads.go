package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/utils"
)

// findLeadById 按ID查找线索
func findLeadById(ctx context.Context, id string) (*models.Lead, error) {
	if id == "" {
		return nil, utils.CreateBadRequestError("线索ID不能为空")
	}

	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("无效的线索ID")
	}

	var lead models.Lead
	collection := repository.Collection(repository.LeadsCollection)
	err = collection.FindOne(ctx, bson.M{"_id": objId}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("线索")
		}
		return nil, err
	}
	return &lead, nil
}

// GetLeads 获取线索列表
func GetLeads(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if companyId := c.Query("companyId"); companyId != "" {
		filter["companyId"] = companyId
	}
	if keyword := c.Query("keyword"); keyword != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": keyword, "$options": "i"}},
			{"companyName": bson.M{"$regex": keyword, "$options": "i"}},
			{"contactPerson": bson.M{"$regex": keyword, "$options": "i"}},
		}
	}
	if models.UserRole(user.Role) == models.UserRoleSALES_REP {
		filter["assignedTo"] = user.ID
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.LeadsCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		utils.HandleError(c, err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	utils.PaginatedResponse(c, leads, total, page, limit)
}

// parsePositiveInt 解析正整数参数，非法或缺失时取默认值
func parsePositiveInt(value string, fallback int64) int64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// GetLeadById 获取单个线索详情
func GetLeadById(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	lead, err := findLeadById(ctx, c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// CreateLead 创建线索
func CreateLead(c *gin.Context) {
	var input models.CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	assignedTo := input.AssignedTo
	assignedName := input.AssignedName
	if assignedTo == "" {
		assignedTo = user.ID
		assignedName = user.Username
	}
	if input.Priority == "" {
		input.Priority = models.FollowUpPriorityMEDIUM
	}

	now := time.Now()
	lead := models.Lead{
		Name:          input.Name,
		CompanyId:     input.CompanyId,
		CompanyName:   input.CompanyName,
		ContactPerson: input.ContactPerson,
		ContactPhone:  input.ContactPhone,
		Email:         input.Email,
		Source:        input.Source,
		Status:        models.LeadStatusNEW,
		Priority:      input.Priority,
		AssignedTo:    assignedTo,
		AssignedName:  assignedName,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.LeadsCollection)
	result, err := collection.InsertOne(ctx, lead)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	lead.ID = result.InsertedID.(primitive.ObjectID)

	utils.LogInfo(map[string]interface{}{"leadId": lead.ID.Hex(), "name": lead.Name}, "创建线索成功")

	c.JSON(http.StatusCreated, gin.H{"message": "创建线索成功", "lead": lead})
}

// UpdateLead 更新线索
func UpdateLead(c *gin.Context) {
	id := c.Param("id")
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的线索ID"))
		return
	}

	var input models.UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.CompanyId != nil {
		update["companyId"] = *input.CompanyId
	}
	if input.CompanyName != nil {
		update["companyName"] = *input.CompanyName
	}
	if input.ContactPerson != nil {
		update["contactPerson"] = *input.ContactPerson
	}
	if input.ContactPhone != nil {
		update["contactPhone"] = *input.ContactPhone
	}
	if input.Email != nil {
		update["email"] = *input.Email
	}
	if input.Source != nil {
		update["source"] = *input.Source
	}
	if input.Status != nil {
		if !isValidLeadStatus(*input.Status) {
			utils.HandleError(c, utils.CreateValidationError("无效的线索状态"))
			return
		}
		update["status"] = *input.Status
	}
	if input.Priority != nil {
		if !isValidPriority(*input.Priority) {
			utils.HandleError(c, utils.CreateValidationError("无效的优先级"))
			return
		}
		update["priority"] = *input.Priority
	}
	if input.AssignedTo != nil {
		update["assignedTo"] = *input.AssignedTo
	}
	if input.AssignedName != nil {
		update["assignedName"] = *input.AssignedName
	}
	if input.Notes != nil {
		update["notes"] = *input.Notes
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.LeadsCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objId}, bson.M{"$set": update})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "线索不存在"})
		return
	}

	utils.SuccessResponse(c, nil, "更新线索成功")
}

// DeleteLead 删除线索
func DeleteLead(c *gin.Context) {
	id := c.Param("id")
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的线索ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.LeadsCollection)
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objId})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "线索不存在"})
		return
	}

	utils.LogInfo(map[string]interface{}{"leadId": id}, "删除线索成功")

	utils.SuccessResponse(c, nil, "删除线索成功")
}

// ConvertLead 线索转商机：创建商机、更新线索状态并回填商机ID
func ConvertLead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	lead, err := findLeadById(ctx, c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if lead.Status == models.LeadStatusCONVERTED {
		c.JSON(http.StatusBadRequest, gin.H{"error": "线索已转为商机"})
		return
	}

	var input models.ConvertLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	stage := models.OpportunityStage(input.Stage)
	if input.Stage == "" {
		stage = models.OpportunityStageDISCOVERY
	}
	if !isValidOpportunityStage(stage) {
		utils.HandleError(c, utils.CreateValidationError("无效的商机阶段"))
		return
	}

	now := time.Now()
	opportunity := models.Opportunity{
		Name:              input.OpportunityName,
		LeadId:            lead.ID.Hex(),
		CompanyId:         lead.CompanyId,
		CompanyName:       lead.CompanyName,
		Amount:            input.Amount,
		Stage:             stage,
		ExpectedCloseDate: input.ExpectedCloseDate,
		OwnerId:           lead.AssignedTo,
		OwnerName:         lead.AssignedName,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	oppCollection := repository.Collection(repository.OpportunitiesCollection)
	result, err := oppCollection.InsertOne(ctx, opportunity)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	opportunity.ID = result.InsertedID.(primitive.ObjectID)

	leadsCollection := repository.Collection(repository.LeadsCollection)
	_, err = leadsCollection.UpdateOne(
		ctx,
		bson.M{"_id": lead.ID},
		bson.M{"$set": bson.M{
			"status":                 models.LeadStatusCONVERTED,
			"convertedOpportunityId": opportunity.ID.Hex(),
			"updatedAt":              now,
		}},
	)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"leadId":        lead.ID.Hex(),
		"opportunityId": opportunity.ID.Hex(),
	}, "线索转商机成功")

	c.JSON(http.StatusCreated, gin.H{
		"message":     "线索转商机成功",
		"opportunity": opportunity,
	})
}

// isValidLeadStatus 校验线索状态
func isValidLeadStatus(s models.LeadStatus) bool {
	switch s {
	case models.LeadStatusNEW, models.LeadStatusCONTACTED, models.LeadStatusQUALIFIED,
		models.LeadStatusCONVERTED, models.LeadStatusLOST:
		return true
	}
	return false
}
