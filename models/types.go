package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleSUPER_ADMIN   UserRole = "SUPER_ADMIN"   // 超级管理员
	UserRoleSALES_MANAGER UserRole = "SALES_MANAGER" // 销售主管
	UserRoleSALES_REP     UserRole = "SALES_REP"     // 销售
)

// UserStatus 用户状态枚举
type UserStatus string

const (
	UserStatusACTIVE   UserStatus = "active"
	UserStatusINACTIVE UserStatus = "inactive"
)

// User 团队成员（账号由外部认证服务管理，这里不存密码）
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Phone     string             `bson:"phone" json:"phone"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Role      UserRole           `bson:"role" json:"role"`
	Status    UserStatus         `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
