package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/service"
	"crm_server/utils"
)

// GetDailyFollowUps 获取跟进列表及统计
// 支持 userId/leadId/opportunityId/companyId/period/startDate/endDate/
// status/assignedTo/search/showOverdue/requireAcknowledgement 筛选
func GetDailyFollowUps(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	now := time.Now()

	if userId := c.Query("userId"); userId != "" {
		filter["assignedTo"] = userId
	}
	if leadId := c.Query("leadId"); leadId != "" {
		filter["linkedLeadId"] = leadId
	}
	if opportunityId := c.Query("opportunityId"); opportunityId != "" {
		filter["linkedOpportunityId"] = opportunityId
	}
	if companyId := c.Query("companyId"); companyId != "" {
		filter["companyId"] = companyId
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		filter["assignedTo"] = assignedTo
	}
	if search := c.Query("search"); search != "" {
		filter["$or"] = []bson.M{
			{"actionDescription": bson.M{"$regex": search, "$options": "i"}},
			{"linkedName": bson.M{"$regex": search, "$options": "i"}},
			{"notes": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	// 时间范围：period 快捷方式或显式起止日期
	dateFilter, err := buildDateRangeFilter(c.Query("period"), c.Query("startDate"), c.Query("endDate"), now)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError(err.Error()))
		return
	}
	if dateFilter != nil {
		filter["followUpDate"] = dateFilter
	}

	// 销售只能看到分配给自己的跟进
	if models.UserRole(user.Role) == models.UserRoleSALES_REP {
		filter["assignedTo"] = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.DailyFollowUpsCollection)

	// 按到期时间升序，_id 兜底保证顺序稳定
	opts := options.Find().SetSort(bson.D{{Key: "followUpDate", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var followUps []models.DailyFollowUp
	if err := cursor.All(ctx, &followUps); err != nil {
		utils.HandleError(c, err)
		return
	}

	// 计算派生字段
	for i := range followUps {
		service.ApplyTiming(&followUps[i], now)
	}

	// 只看逾期
	if c.Query("showOverdue") == "true" {
		overdue := []models.DailyFollowUp{}
		for i := range followUps {
			if followUps[i].IsOverdue {
				overdue = append(overdue, followUps[i])
			}
		}
		followUps = overdue
	}

	analytics := service.BuildFollowUpAnalytics(followUps, now)

	response := gin.H{
		"dailyFollowUps": followUps,
		"analytics":      analytics,
		"insights":       service.BuildFollowUpInsights(analytics),
	}

	// 需要确认时附带逾期确认队列
	if c.Query("requireAcknowledgement") == "true" {
		response["overdueQueue"] = service.BuildOverdueQueue(followUps, now)
	}

	utils.LogInfo(map[string]interface{}{
		"user":  user.Username,
		"count": len(followUps),
	}, "获取跟进列表成功")

	c.JSON(http.StatusOK, response)
}

// buildDateRangeFilter 构建到期时间范围条件
func buildDateRangeFilter(period, startDateParam, endDateParam string, now time.Time) (bson.M, error) {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case "today":
		return bson.M{"$gte": startOfToday, "$lt": startOfToday.AddDate(0, 0, 1)}, nil
	case "week":
		return bson.M{"$gte": startOfToday.AddDate(0, 0, -7)}, nil
	case "month":
		return bson.M{"$gte": startOfToday.AddDate(0, 0, -30)}, nil
	}

	if startDateParam == "" && endDateParam == "" {
		return nil, nil
	}

	rangeFilter := bson.M{}
	if startDateParam != "" {
		start, err := utils.ParseDateParam(startDateParam)
		if err != nil {
			return nil, err
		}
		rangeFilter["$gte"] = start
	}
	if endDateParam != "" {
		end, err := utils.ParseDateParam(endDateParam)
		if err != nil {
			return nil, err
		}
		rangeFilter["$lt"] = end.AddDate(0, 0, 1)
	}
	return rangeFilter, nil
}

// CreateDailyFollowUp 创建跟进记录
func CreateDailyFollowUp(c *gin.Context) {
	var input models.CreateDailyFollowUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if !isValidFollowUpType(input.Type) {
		utils.HandleError(c, utils.CreateValidationError("无效的跟进方式"))
		return
	}
	if input.Priority == "" {
		input.Priority = models.FollowUpPriorityMEDIUM
	}
	if !isValidPriority(input.Priority) {
		utils.HandleError(c, utils.CreateValidationError("无效的优先级"))
		return
	}
	if input.LinkedType == "" {
		input.LinkedType = models.LinkedTypeNONE
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	// 验证关联对象存在，并回填名称和所属公司
	linkedName := input.LinkedName
	companyId := ""
	var leadObjId primitive.ObjectID
	switch input.LinkedType {
	case models.LinkedTypeLEAD:
		lead, err := findLeadById(ctx, input.LinkedLeadId)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		leadObjId = lead.ID
		linkedName = lead.Name
		companyId = lead.CompanyId
	case models.LinkedTypeOPPORTUNITY:
		opp, err := findOpportunityById(ctx, input.LinkedOpportunityId)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		linkedName = opp.Name
		companyId = opp.CompanyId
	}

	assignedTo := input.AssignedTo
	assignedToName := input.AssignedToName
	if assignedTo == "" {
		assignedTo = user.ID
		assignedToName = user.Username
	}

	now := time.Now()
	record := models.DailyFollowUp{
		Type:                input.Type,
		ActionDescription:   input.ActionDescription,
		Notes:               input.Notes,
		FollowUpDate:        input.FollowUpDate,
		NextActionDate:      input.NextActionDate,
		Status:              models.FollowUpStatusSCHEDULED,
		Priority:            input.Priority,
		LinkedType:          input.LinkedType,
		LinkedName:          linkedName,
		CompanyId:           companyId,
		LinkedLeadId:        input.LinkedLeadId,
		LinkedOpportunityId: input.LinkedOpportunityId,
		LinkedPipelineId:    input.LinkedPipelineId,
		AssignedTo:          assignedTo,
		AssignedToName:      assignedToName,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	collection := repository.Collection(repository.DailyFollowUpsCollection)
	result, err := collection.InsertOne(ctx, record)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	record.ID = result.InsertedID.(primitive.ObjectID)

	// 关联线索时刷新其最近联系时间
	if input.LinkedType == models.LinkedTypeLEAD {
		leadsCollection := repository.Collection(repository.LeadsCollection)
		_, err = leadsCollection.UpdateOne(
			ctx,
			bson.M{"_id": leadObjId},
			bson.M{"$set": bson.M{"lastContactAt": now, "updatedAt": now}},
		)
		if err != nil {
			// 只记录错误但不影响主流程
			utils.LogInfo(map[string]interface{}{
				"leadId": input.LinkedLeadId,
				"error":  err.Error(),
			}, "更新线索最近联系时间失败")
		}
	}

	service.ApplyTiming(&record, now)

	utils.LogInfo(map[string]interface{}{
		"recordId":   record.ID.Hex(),
		"linkedType": record.LinkedType,
	}, "创建跟进记录成功")

	c.JSON(http.StatusCreated, gin.H{
		"message": "创建跟进记录成功",
		"record":  record,
	})
}

// UpdateDailyFollowUp 部分更新跟进记录（PUT /api/daily-followups?id=xxx）
// 带 overdueReason 时走逾期确认流程：只写原因和确认时间，不碰状态和日期
func UpdateDailyFollowUp(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		id = c.Param("id")
	}
	if id == "" {
		utils.HandleError(c, utils.CreateValidationError("跟进记录ID不能为空"))
		return
	}

	recordId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的跟进记录ID"))
		return
	}

	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var input models.UpdateDailyFollowUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的请求数据"))
		return
	}

	now := time.Now()
	update := bson.M{"updatedAt": now}

	// 逾期确认：空白原因在任何写入前拒绝
	if input.OverdueReason != nil {
		reason, ok := service.NormalizeOverdueReason(*input.OverdueReason)
		if !ok {
			utils.HandleError(c, utils.CreateValidationError("逾期原因不能为空"))
			return
		}
		update["overdueReason"] = reason
		update["overdueAcknowledgedAt"] = now
	}

	if input.Status != nil {
		if !isValidFollowUpStatus(*input.Status) {
			utils.HandleError(c, utils.CreateValidationError("无效的跟进状态"))
			return
		}
		update["status"] = *input.Status
	}
	if input.Type != nil {
		if !isValidFollowUpType(*input.Type) {
			utils.HandleError(c, utils.CreateValidationError("无效的跟进方式"))
			return
		}
		update["type"] = *input.Type
	}
	if input.Priority != nil {
		if !isValidPriority(*input.Priority) {
			utils.HandleError(c, utils.CreateValidationError("无效的优先级"))
			return
		}
		update["priority"] = *input.Priority
	}
	if input.ActionDescription != nil {
		update["actionDescription"] = *input.ActionDescription
	}
	if input.Notes != nil {
		update["notes"] = *input.Notes
	}
	if input.FollowUpDate != nil {
		update["followUpDate"] = *input.FollowUpDate
	}
	if input.NextActionDate != nil {
		update["nextActionDate"] = *input.NextActionDate
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := repository.Collection(repository.DailyFollowUpsCollection)

	var updated models.DailyFollowUp
	returnDoc := options.After
	err = collection.FindOneAndUpdate(
		ctx,
		followUpUpdateFilter(recordId, user),
		bson.M{"$set": update},
		&options.FindOneAndUpdateOptions{ReturnDocument: &returnDoc},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "跟进记录不存在或无权操作"})
			return
		}
		utils.HandleError(c, err)
		return
	}

	service.ApplyTiming(&updated, now)

	utils.LogInfo(map[string]interface{}{
		"recordId":     id,
		"acknowledged": input.OverdueReason != nil,
	}, "更新跟进记录成功")

	c.JSON(http.StatusOK, gin.H{
		"message": "更新跟进记录成功",
		"record":  updated,
	})
}

// followUpUpdateFilter 构建更新的匹配条件
// 与列表查询的角色范围一致: 销售只能改分配给自己的记录
func followUpUpdateFilter(recordId primitive.ObjectID, user *utils.LoginUser) bson.M {
	filter := bson.M{"_id": recordId}
	if models.UserRole(user.Role) == models.UserRoleSALES_REP {
		filter["assignedTo"] = user.ID
	}
	return filter
}

// isValidFollowUpType 校验跟进方式
func isValidFollowUpType(t models.FollowUpType) bool {
	switch t {
	case models.FollowUpTypeCALL, models.FollowUpTypeMEETING, models.FollowUpTypeSITE_VISIT,
		models.FollowUpTypeEMAIL, models.FollowUpTypeMESSAGE:
		return true
	}
	return false
}

// isValidFollowUpStatus 校验跟进状态
func isValidFollowUpStatus(s models.FollowUpStatus) bool {
	switch s {
	case models.FollowUpStatusSCHEDULED, models.FollowUpStatusCOMPLETED,
		models.FollowUpStatusPOSTPONED, models.FollowUpStatusCANCELLED,
		models.FollowUpStatusOVERDUE:
		return true
	}
	return false
}

// isValidPriority 校验优先级
func isValidPriority(p models.FollowUpPriority) bool {
	switch p {
	case models.FollowUpPriorityLOW, models.FollowUpPriorityMEDIUM,
		models.FollowUpPriorityHIGH, models.FollowUpPriorityCRITICAL:
		return true
	}
	return false
}
