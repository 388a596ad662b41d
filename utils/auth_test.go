package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crm_server/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:       primitive.NewObjectID(),
		Username: "zhangwei",
		Role:     models.UserRoleSALES_REP,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims["id"])
	assert.Equal(t, "zhangwei", claims["username"])
	assert.Equal(t, string(models.UserRoleSALES_REP), claims["role"])
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestHasPermission(t *testing.T) {
	// 超级管理员放行一切
	assert.True(t, HasPermission(models.UserRoleSUPER_ADMIN, "anything", "delete"))

	assert.True(t, HasPermission(models.UserRoleSALES_REP, "followups", "update"))
	assert.True(t, HasPermission(models.UserRoleSALES_MANAGER, "leads", "delete"))
	assert.False(t, HasPermission(models.UserRoleSALES_REP, "leads", "delete"))
	assert.False(t, HasPermission(models.UserRoleSALES_REP, "unknown", "read"))
}
