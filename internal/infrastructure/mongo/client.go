package mongo

import (
	"context"
	"fmt"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Connect 建立 MongoDB 連線並確認可達
func Connect(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// 測試連接
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	common.LogInfo("MongoDB 連線成功",
		zap.String("database", cfg.Database),
	)

	return client, nil
}

// Disconnect 關閉 MongoDB 連線
func Disconnect(ctx context.Context, client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		common.LogError("MongoDB 關閉連線失敗", zap.Error(err))
	}
}
