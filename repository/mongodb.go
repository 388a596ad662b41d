package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"crm_server/utils"
)

const (
	// 集合名
	UsersCollection             = "users"
	LeadsCollection             = "leads"
	OpportunitiesCollection     = "opportunities"
	CompaniesCollection         = "companies"
	DailyFollowUpsCollection    = "dailyFollowUps"
	AttendanceRecordsCollection = "attendanceRecords"
	ApiOperationLogsCollection  = "apiOperationLogs"
)

var (
	client *mongo.Client
	db     *mongo.Database
	ctx    = context.Background()
)

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(uri, dbName string) error {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 创建客户端
	var err error
	clientOptions := options.Client().ApplyURI(uri)
	client, err = mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB失败: %w", err)
	}

	// 选择数据库
	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	return nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB() {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
			return
		}
		utils.Logger.Info().Msg("已断开MongoDB连接")
	}
}

// GetContext 返回MongoDB操作的上下文
func GetContext() context.Context {
	return ctx
}

// Collection 返回指定名称的集合
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// ExecuteDbOperation 执行数据库操作，提供错误处理和重试机制
func ExecuteDbOperation(operation func() (interface{}, error), retries int) (interface{}, error) {
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		// 如果是不可重试的错误，立即返回
		if !isRetryableError(err) {
			break
		}

		// 延迟后重试
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	return nil, utils.NewAppError("数据库操作失败", http.StatusInternalServerError, lastErr)
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	// MongoDB可重试错误代码
	retryableCodes := map[int]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		13436: true, // NotMasterNoSlaveOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
		10058: true, // ConnectionReset
	}

	if cmdErr, ok := err.(mongo.CommandError); ok {
		return retryableCodes[int(cmdErr.Code)]
	}

	// 检查常见网络错误
	return isNetworkError(err)
}

// isNetworkError 检查是否是网络错误
func isNetworkError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"timeout",
		"context deadline exceeded",
		"server selection error",
	}

	for _, ne := range networkErrors {
		if strings.Contains(errMsg, ne) {
			return true
		}
	}

	return false
}

// InitializeCollections 初始化数据库集合和索引
func InitializeCollections() error {
	collections := []string{
		UsersCollection,
		LeadsCollection,
		OpportunitiesCollection,
		CompaniesCollection,
		DailyFollowUpsCollection,
		AttendanceRecordsCollection,
		ApiOperationLogsCollection,
	}

	for _, collName := range collections {
		// 检查集合是否存在
		collExists, err := CollectionExists(collName)
		if err != nil {
			return fmt.Errorf("检查集合失败: %w", err)
		}

		// 如果不存在则创建
		if !collExists {
			if err := db.CreateCollection(ctx, collName); err != nil {
				return fmt.Errorf("创建集合失败: %w", err)
			}
			utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
		}
	}

	return ensureIndexes()
}

// CollectionExists 检查集合是否存在
func CollectionExists(collName string) (bool, error) {
	collections, err := db.ListCollectionNames(ctx, bson.M{"name": collName})
	if err != nil {
		return false, err
	}

	for _, name := range collections {
		if name == collName {
			return true, nil
		}
	}

	return false, nil
}

// ensureIndexes 创建查询所需的索引
func ensureIndexes() error {
	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 跟进记录按到期时间和状态查询
	_, err := db.Collection(DailyFollowUpsCollection).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "followUpDate", Value: 1}, {Key: "status", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("创建跟进记录索引失败: %w", err)
	}

	// 考勤记录同一成员每天一条
	unique := true
	_, err = db.Collection(AttendanceRecordsCollection).Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	if err != nil {
		return fmt.Errorf("创建考勤记录索引失败: %w", err)
	}

	utils.Logger.Info().Msg("索引检查完成")
	return nil
}

// GetDatabaseStatus 获取数据库状态
func GetDatabaseStatus() (map[string]interface{}, error) {
	collections := []string{
		UsersCollection,
		LeadsCollection,
		OpportunitiesCollection,
		CompaniesCollection,
		DailyFollowUpsCollection,
		AttendanceRecordsCollection,
		ApiOperationLogsCollection,
	}

	result := make(map[string]interface{})

	for _, collName := range collections {
		coll := db.Collection(collName)
		count, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = map[string]interface{}{
				"count": 0,
				"error": err.Error(),
			}
			continue
		}
		result[collName] = map[string]interface{}{
			"count": count,
		}
	}

	return result, nil
}
