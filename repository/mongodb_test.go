package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"crm_server/utils"
)

func TestExecuteDbOperationSucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := ExecuteDbOperation(func() (interface{}, error) {
		calls++
		return "ok", nil
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestExecuteDbOperationStopsOnNonRetryable(t *testing.T) {
	calls := 0
	cause := errors.New("E11000 duplicate key error")
	_, err := ExecuteDbOperation(func() (interface{}, error) {
		calls++
		return nil, cause
	}, 3)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "不可重试错误不应继续尝试")

	// 最终错误包装为应用级错误并保留原因链
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, cause)
}

func TestExecuteDbOperationRetriesNetworkErrors(t *testing.T) {
	calls := 0
	result, err := ExecuteDbOperation(func() (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return 42, nil
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestIsRetryableError(t *testing.T) {
	// 主从切换等瞬态错误码可重试
	assert.True(t, isRetryableError(mongo.CommandError{Code: 91}))
	assert.True(t, isRetryableError(mongo.CommandError{Code: 189}))
	assert.True(t, isRetryableError(errors.New("no reachable servers")))

	// 业务性错误不重试
	assert.False(t, isRetryableError(mongo.CommandError{Code: 11000}))
	assert.False(t, isRetryableError(errors.New("document validation failed")))
}
