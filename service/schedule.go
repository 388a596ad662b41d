package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"crm_server/models"
	"crm_server/repository"
	"crm_server/utils"
)

// ScheduleDailyTaskAt 每天指定时间执行任务
func ScheduleDailyTaskAt(hour, min, sec int, task func()) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(next.Sub(now))
			task()
		}
	}()
}

// overdueSweepFilter 每日逾期扫描的匹配条件
// 到期时间取值与派生字段一致: followUpDate 优先，
// 缺失时回退到 nextActionDate
func overdueSweepFilter(startOfToday time.Time) bson.M {
	return bson.M{
		"status": bson.M{"$in": []models.FollowUpStatus{
			models.FollowUpStatusSCHEDULED,
			models.FollowUpStatusPOSTPONED,
		}},
		"$or": []bson.M{
			{"followUpDate": bson.M{"$lt": startOfToday}},
			{"followUpDate": nil, "nextActionDate": bson.M{"$lt": startOfToday}},
		},
	}
}

// MarkOverdueFollowUps 每日逾期扫描任务
// 把到期日已过且仍处于未完结状态的跟进记录批量置为 OVERDUE，
// 只改状态字段，不动到期日和逾期原因
func MarkOverdueFollowUps() {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	utils.Logger.Info().Time("startOfToday", startOfToday).Msg("开始每日逾期跟进扫描")

	ctx, cancel := context.WithTimeout(repository.GetContext(), 30*time.Second)
	defer cancel()

	collection := repository.Collection(repository.DailyFollowUpsCollection)

	update := bson.M{"$set": bson.M{
		"status":    models.FollowUpStatusOVERDUE,
		"updatedAt": now,
	}}

	result, err := repository.ExecuteDbOperation(func() (interface{}, error) {
		return collection.UpdateMany(ctx, overdueSweepFilter(startOfToday), update)
	}, 3)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("每日逾期跟进扫描失败")
		return
	}

	updateResult := result.(*mongo.UpdateResult)
	utils.Logger.Info().
		Int64("matched", updateResult.MatchedCount).
		Int64("modified", updateResult.ModifiedCount).
		Msg("每日逾期跟进扫描完成")
}
