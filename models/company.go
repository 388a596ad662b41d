package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company 客户公司
type Company struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Industry  string             `bson:"industry,omitempty" json:"industry,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Website   string             `bson:"website,omitempty" json:"website,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateCompanyInput 创建公司请求
type CreateCompanyInput struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
}
