package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus 考勤状态枚举
type AttendanceStatus string

const (
	AttendanceStatusPRESENT AttendanceStatus = "PRESENT" // 出勤
	AttendanceStatusABSENT  AttendanceStatus = "ABSENT"  // 缺勤
	AttendanceStatusLEAVE   AttendanceStatus = "LEAVE"   // 请假
	AttendanceStatusREMOTE  AttendanceStatus = "REMOTE"  // 远程
)

// AttendanceRecord 考勤记录，同一成员每天一条（按 userId+date 去重）
type AttendanceRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserId      string             `bson:"userId" json:"userId"`
	UserName    string             `bson:"userName" json:"userName"`
	Date        string             `bson:"date" json:"date"` // 格式 YYYY-MM-DD
	Status      AttendanceStatus   `bson:"status" json:"status"`
	CheckInTime *time.Time         `bson:"checkInTime,omitempty" json:"checkInTime,omitempty"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SubmitAttendanceInput 提交考勤请求
type SubmitAttendanceInput struct {
	Date        string           `json:"date" binding:"required"`
	Status      AttendanceStatus `json:"status" binding:"required"`
	CheckInTime *time.Time       `json:"checkInTime"`
	Note        string           `json:"note"`
}
