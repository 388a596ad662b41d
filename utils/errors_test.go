package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateValidationError(t *testing.T) {
	err := CreateValidationError("无效的跟进方式")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, "无效的跟进方式", err.Error())
}

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := NewAppError("数据库操作失败", http.StatusInternalServerError, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network timeout")
	assert.Contains(t, err.Error(), "数据库操作失败")
}

func TestHandleErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func() (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/api/daily-followups", nil)
		return c, w
	}

	// 校验错误映射到400并带错误码
	c, w := newCtx()
	HandleError(c, CreateValidationError("逾期原因不能为空"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")

	// 应用级错误使用自身状态码
	c, w = newCtx()
	HandleError(c, NewAppError("数据库操作失败", http.StatusInternalServerError, errors.New("connection refused")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "数据库操作失败")

	// 未知错误兜底500
	c, w = newCtx()
	HandleError(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
