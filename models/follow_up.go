package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowUpType 跟进方式枚举
type FollowUpType string

const (
	FollowUpTypeCALL       FollowUpType = "CALL"       // 电话
	FollowUpTypeMEETING    FollowUpType = "MEETING"    // 会议
	FollowUpTypeSITE_VISIT FollowUpType = "SITE_VISIT" // 上门拜访
	FollowUpTypeEMAIL      FollowUpType = "EMAIL"      // 邮件
	FollowUpTypeMESSAGE    FollowUpType = "MESSAGE"    // 消息
)

// FollowUpStatus 跟进状态枚举
type FollowUpStatus string

const (
	FollowUpStatusSCHEDULED FollowUpStatus = "SCHEDULED" // 已安排
	FollowUpStatusCOMPLETED FollowUpStatus = "COMPLETED" // 已完成
	FollowUpStatusPOSTPONED FollowUpStatus = "POSTPONED" // 已延期
	FollowUpStatusCANCELLED FollowUpStatus = "CANCELLED" // 已取消
	FollowUpStatusOVERDUE   FollowUpStatus = "OVERDUE"   // 已逾期
)

// FollowUpPriority 跟进优先级枚举
type FollowUpPriority string

const (
	FollowUpPriorityLOW      FollowUpPriority = "LOW"
	FollowUpPriorityMEDIUM   FollowUpPriority = "MEDIUM"
	FollowUpPriorityHIGH     FollowUpPriority = "HIGH"
	FollowUpPriorityCRITICAL FollowUpPriority = "CRITICAL"
)

// LinkedType 跟进关联对象类型枚举
type LinkedType string

const (
	LinkedTypeLEAD        LinkedType = "LEAD"        // 线索
	LinkedTypeOPPORTUNITY LinkedType = "OPPORTUNITY" // 商机
	LinkedTypePIPELINE    LinkedType = "PIPELINE"    // 销售管道
	LinkedTypeNONE        LinkedType = "NONE"        // 无关联
)

// DailyFollowUp 每日跟进记录
// 逾期确认只写 overdueReason / overdueAcknowledgedAt，不改状态和日期
type DailyFollowUp struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Type                  FollowUpType       `bson:"type" json:"type"`
	ActionDescription     string             `bson:"actionDescription" json:"actionDescription"`
	Notes                 string             `bson:"notes,omitempty" json:"notes,omitempty"`
	FollowUpDate          *time.Time         `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
	NextActionDate        *time.Time         `bson:"nextActionDate,omitempty" json:"nextActionDate,omitempty"`
	Status                FollowUpStatus     `bson:"status" json:"status"`
	Priority              FollowUpPriority   `bson:"priority" json:"priority"`
	OverdueReason         string             `bson:"overdueReason,omitempty" json:"overdueReason,omitempty"`
	OverdueAcknowledgedAt *time.Time         `bson:"overdueAcknowledgedAt,omitempty" json:"overdueAcknowledgedAt,omitempty"`
	LinkedType            LinkedType         `bson:"linkedType" json:"linkedType"`
	LinkedName            string             `bson:"linkedName,omitempty" json:"linkedName,omitempty"`
	CompanyId             string             `bson:"companyId,omitempty" json:"companyId,omitempty"`
	LinkedLeadId          string             `bson:"linkedLeadId,omitempty" json:"linkedLeadId,omitempty"`
	LinkedOpportunityId   string             `bson:"linkedOpportunityId,omitempty" json:"linkedOpportunityId,omitempty"`
	LinkedPipelineId      string             `bson:"linkedPipelineId,omitempty" json:"linkedPipelineId,omitempty"`
	AssignedTo            string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	AssignedToName        string             `bson:"assignedToName,omitempty" json:"assignedToName,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`

	// 派生字段，查询时实时计算，不落库
	IsOverdue         bool `bson:"-" json:"isOverdue"`
	IsToday           bool `bson:"-" json:"isToday"`
	DaysOverdue       int  `bson:"-" json:"daysOverdue"`
	DaysUntilFollowUp int  `bson:"-" json:"daysUntilFollowUp"`
}

// OverdueQueueEntry 逾期确认队列条目（派生视图，不持久化）
type OverdueQueueEntry struct {
	ID                string     `json:"id"`
	ActionDescription string     `json:"actionDescription"`
	FollowUpDate      *time.Time `json:"followUpDate,omitempty"`
	LinkedType        LinkedType `json:"linkedType"`
	LinkedName        string     `json:"linkedName,omitempty"`
	DaysOverdue       int        `json:"daysOverdue"`
	AssignedTo        string     `json:"assignedTo,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	OverdueReason     string     `json:"overdueReason,omitempty"`
}

// CreateDailyFollowUpInput 创建跟进记录的输入数据
type CreateDailyFollowUpInput struct {
	Type                FollowUpType     `json:"type" binding:"required"`
	ActionDescription   string           `json:"actionDescription" binding:"required"`
	Notes               string           `json:"notes"`
	FollowUpDate        *time.Time       `json:"followUpDate" binding:"required"`
	NextActionDate      *time.Time       `json:"nextActionDate"`
	Priority            FollowUpPriority `json:"priority"`
	LinkedType          LinkedType       `json:"linkedType"`
	LinkedLeadId        string           `json:"linkedLeadId"`
	LinkedOpportunityId string           `json:"linkedOpportunityId"`
	LinkedPipelineId    string           `json:"linkedPipelineId"`
	LinkedName          string           `json:"linkedName"`
	AssignedTo          string           `json:"assignedTo"`
	AssignedToName      string           `json:"assignedToName"`
}

// UpdateDailyFollowUpInput 部分更新跟进记录的输入数据
// OverdueReason 非空时走逾期确认流程
type UpdateDailyFollowUpInput struct {
	Type              *FollowUpType     `json:"type"`
	ActionDescription *string           `json:"actionDescription"`
	Notes             *string           `json:"notes"`
	FollowUpDate      *time.Time        `json:"followUpDate"`
	NextActionDate    *time.Time        `json:"nextActionDate"`
	Status            *FollowUpStatus   `json:"status"`
	Priority          *FollowUpPriority `json:"priority"`
	OverdueReason     *string           `json:"overdueReason"`
}
