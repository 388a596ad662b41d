package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus 线索状态枚举
type LeadStatus string

const (
	LeadStatusNEW       LeadStatus = "NEW"       // 新建
	LeadStatusCONTACTED LeadStatus = "CONTACTED" // 已联系
	LeadStatusQUALIFIED LeadStatus = "QUALIFIED" // 已验证
	LeadStatusCONVERTED LeadStatus = "CONVERTED" // 已转商机
	LeadStatusLOST      LeadStatus = "LOST"      // 已流失
)

// Lead 销售线索
type Lead struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	CompanyId     string             `bson:"companyId,omitempty" json:"companyId,omitempty"`
	CompanyName   string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	ContactPerson string             `bson:"contactPerson,omitempty" json:"contactPerson,omitempty"`
	ContactPhone  string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Source        string             `bson:"source,omitempty" json:"source,omitempty"`
	Status        LeadStatus         `bson:"status" json:"status"`
	Priority      FollowUpPriority   `bson:"priority,omitempty" json:"priority,omitempty"`
	AssignedTo    string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssignedName  string             `bson:"assignedName,omitempty" json:"assignedName,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`

	// 转化后回填的商机ID
	ConvertedOpportunityId string `bson:"convertedOpportunityId,omitempty" json:"convertedOpportunityId,omitempty"`

	LastContactAt *time.Time `bson:"lastContactAt,omitempty" json:"lastContactAt,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// CreateLeadInput 创建线索请求
type CreateLeadInput struct {
	Name          string           `json:"name" binding:"required"`
	CompanyId     string           `json:"companyId"`
	CompanyName   string           `json:"companyName"`
	ContactPerson string           `json:"contactPerson"`
	ContactPhone  string           `json:"contactPhone"`
	Email         string           `json:"email"`
	Source        string           `json:"source"`
	Priority      FollowUpPriority `json:"priority"`
	AssignedTo    string           `json:"assignedTo"`
	AssignedName  string           `json:"assignedName"`
	Notes         string           `json:"notes"`
}

// UpdateLeadInput 更新线索请求
type UpdateLeadInput struct {
	Name          *string           `json:"name"`
	CompanyId     *string           `json:"companyId"`
	CompanyName   *string           `json:"companyName"`
	ContactPerson *string           `json:"contactPerson"`
	ContactPhone  *string           `json:"contactPhone"`
	Email         *string           `json:"email"`
	Source        *string           `json:"source"`
	Status        *LeadStatus       `json:"status"`
	Priority      *FollowUpPriority `json:"priority"`
	AssignedTo    *string           `json:"assignedTo"`
	AssignedName  *string           `json:"assignedName"`
	Notes         *string           `json:"notes"`
}

// ConvertLeadInput 线索转商机请求
type ConvertLeadInput struct {
	OpportunityName   string     `json:"opportunityName" binding:"required"`
	Amount            float64    `json:"amount"`
	Stage             string     `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
}
