package main

import (
	"fmt"
	"time"

	"tron-wallet/internal/event"
	"tron-wallet/internal/handler"
	"tron-wallet/internal/model"
	"tron-wallet/internal/server"
	"tron-wallet/internal/service/mq"
	"tron-wallet/internal/service/wallet"

	"tron-wallet/pkg/cache"
	"tron-wallet/pkg/config"
	"tron-wallet/pkg/database"
	"tron-wallet/pkg/logger"
	"tron-wallet/pkg/node"
	"tron-wallet/pkg/utils/lock"
	"tron-wallet/pkg/validator"

	"go.uber.org/zap"
)

// @title TRON Wallet API
// @version 1.0
// @description TRON client-side wallet service: key derivation, address generation, transfer signing and broadcasting

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger 与参数校验器
	logger.Init(config.Global.App.Env)
	defer logger.Sync()
	validator.Init()

	// 2. 连接数据库 (转账审计记录)
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3. 连接 Redis (分布式锁 + 可选消息队列)
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 4. 数据库迁移
	if config.Global.App.Env == "development" {
		logger.Info("开发环境: 尝试自动迁移 Schema (GORM AutoMigrate)...")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("数据库自动迁移失败", zap.Error(err))
		}
		logger.Info("数据库自动迁移完成 (Dev Mode)")
	} else {
		logger.Info("生产环境: 跳过 AutoMigrate，请使用 migrate 工具管理 Schema")
	}

	// 5. 初始化 TRON 节点客户端
	nodeClient := node.NewClient(config.Global.Node.BaseURL,
		node.WithAPIKey(config.Global.Node.APIKey),
		node.WithTimeout(time.Duration(config.Global.Node.Timeout)*time.Second),
	)

	// 6. 初始化消息队列 (转账广播事件)
	var producer mq.Producer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("使用 Kafka 作为消息队列...")
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers, event.TopicTransfer)
	} else {
		logger.Info("使用 Redis Streams 作为消息队列...")
		producer = mq.NewRedisProducer(rdb)
	}

	// 7. 核心钱包服务
	walletService := wallet.NewService(nodeClient, db, producer)

	// 8. HTTP 层依赖: 进程内区块缓存 + 按发送方加转账锁
	blockCache := cache.NewMemoryCache(5*time.Minute, 10*time.Minute)
	transferLock := lock.NewRedisLock(rdb)
	walletHandler := handler.NewWalletHandler(walletService, blockCache, transferLock)

	// 9. 启动 HTTP 服务 (阻塞)
	r := server.NewHTTPRouter(walletHandler)
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	// 10. 退出后资源清理
	logger.Info("正在关闭数据库连接...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("系统已退出")
}
