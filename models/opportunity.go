package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OpportunityStage 商机阶段枚举
type OpportunityStage string

const (
	OpportunityStageDISCOVERY   OpportunityStage = "DISCOVERY"   // 初步接触
	OpportunityStagePROPOSAL    OpportunityStage = "PROPOSAL"    // 方案报价
	OpportunityStageNEGOTIATION OpportunityStage = "NEGOTIATION" // 商务谈判
	OpportunityStageCLOSED_WON  OpportunityStage = "CLOSED_WON"  // 赢单
	OpportunityStageCLOSED_LOST OpportunityStage = "CLOSED_LOST" // 输单
)

// Opportunity 商机
type Opportunity struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	LeadId            string             `bson:"leadId,omitempty" json:"leadId,omitempty"`
	CompanyId         string             `bson:"companyId,omitempty" json:"companyId,omitempty"`
	CompanyName       string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Amount            float64            `bson:"amount" json:"amount"`
	Stage             OpportunityStage   `bson:"stage" json:"stage"`
	ExpectedCloseDate *time.Time         `bson:"expectedCloseDate,omitempty" json:"expectedCloseDate,omitempty"`
	OwnerId           string             `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	OwnerName         string             `bson:"ownerName,omitempty" json:"ownerName,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateOpportunityInput 创建商机请求
type CreateOpportunityInput struct {
	Name              string           `json:"name" binding:"required"`
	LeadId            string           `json:"leadId"`
	CompanyId         string           `json:"companyId"`
	CompanyName       string           `json:"companyName"`
	Amount            float64          `json:"amount"`
	Stage             OpportunityStage `json:"stage"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate"`
}

// UpdateOpportunityInput 更新商机请求
type UpdateOpportunityInput struct {
	Name              *string           `json:"name"`
	Amount            *float64          `json:"amount"`
	Stage             *OpportunityStage `json:"stage"`
	ExpectedCloseDate *time.Time        `json:"expectedCloseDate"`
	OwnerId           *string           `json:"ownerId"`
	OwnerName         *string           `json:"ownerName"`
}
