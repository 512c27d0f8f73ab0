package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store 帳號存儲介面。每次寫入都是整份食譜清單的覆寫（last write wins）。
type Store interface {
	// Create 建立帳號，帳號或信箱重複時回傳 ErrAccountExists
	Create(ctx context.Context, acc *Account) error
	// FindByUsername 依帳號名稱查詢
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// FindByID 依識別碼查詢
	FindByID(ctx context.Context, id string) (*Account, error)
	// ReplaceRecipes 覆寫指定帳號的整份食譜清單（單次寫入）
	ReplaceRecipes(ctx context.Context, accountID string, recipes []Recipe) error
	// All 列出所有帳號（帳號名稱與食譜清單），供公開食譜掃描使用
	All(ctx context.Context) ([]Account, error)
	// Ping 檢查存儲連線
	Ping(ctx context.Context) error
}

// MongoStore MongoDB 帳號存儲
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore 建立 MongoDB 帳號存儲並確保唯一索引
func NewMongoStore(ctx context.Context, client *mongo.Client, cfg *config.MongoConfig) (*MongoStore, error) {
	coll := client.Database(cfg.Database).Collection("users")

	// username / email 唯一索引
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("帳號存儲已初始化",
		zap.String("database", cfg.Database),
		zap.String("collection", "users"),
	)

	return &MongoStore{coll: coll}, nil
}

// Create 建立帳號
func (s *MongoStore) Create(ctx context.Context, acc *Account) error {
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	acc.Username = strings.TrimSpace(acc.Username)
	if acc.Recipes == nil {
		acc.Recipes = []Recipe{}
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now()
	}

	// 先查重，與原始行為一致地回報 400
	count, err := s.coll.CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"username": acc.Username},
			bson.M{"email": acc.Email},
		},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return common.ErrAccountExists
	}

	if _, err := s.coll.InsertOne(ctx, acc); err != nil {
		// 唯一索引攔截併發註冊
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrAccountExists
		}
		return err
	}
	return nil
}

// FindByUsername 依帳號名稱查詢
func (s *MongoStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	var acc Account
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// FindByID 依識別碼查詢
func (s *MongoStore) FindByID(ctx context.Context, id string) (*Account, error) {
	var acc Account
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// ReplaceRecipes 覆寫整份食譜清單
func (s *MongoStore) ReplaceRecipes(ctx context.Context, accountID string, recipes []Recipe) error {
	if recipes == nil {
		recipes = []Recipe{}
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": accountID},
		bson.M{"$set": bson.M{"recipes": recipes}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrAccountNotFound
	}
	return nil
}

// All 列出所有帳號，僅取公開掃描需要的欄位
func (s *MongoStore) All(ctx context.Context) ([]Account, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"username": 1, "recipes": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Ping 檢查存儲連線
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
