package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tron-wallet/internal/event"
	"tron-wallet/internal/model"
	"tron-wallet/internal/service/mq"
	"tron-wallet/internal/service/wallet"
	"tron-wallet/pkg/config"
	"tron-wallet/pkg/database"
	"tron-wallet/pkg/logger"
	"tron-wallet/pkg/node"
	"tron-wallet/pkg/wallet/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// TRON 3 秒出一个块，最多等约 19 个确认块再放弃
	pollInterval = 3 * time.Second
	maxPolls     = 20
)

// ConfirmWorker 消费转账广播事件，轮询节点直到交易被打包，
// 再把最终状态写回审计记录。
type ConfirmWorker struct {
	db  *gorm.DB
	svc *wallet.Service
}

func main() {
	// 1. 初始化配置与日志
	config.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	logger.Info("启动交易确认服务 (Confirm Worker)...", zap.String("env", config.Global.App.Env))

	// 2. 初始化数据库 (更新 transfer_records 状态)
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

	// 3. 初始化 Redis (Redis MQ fallback)
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 4. 节点客户端 (只读查询)
	nodeClient := node.NewClient(config.Global.Node.BaseURL,
		node.WithAPIKey(config.Global.Node.APIKey),
		node.WithTimeout(time.Duration(config.Global.Node.Timeout)*time.Second),
	)

	worker := &ConfirmWorker{
		db:  db,
		svc: wallet.NewService(nodeClient, db, nil),
	}

	// 5. 初始化 MQ Consumer
	var consumer mq.Consumer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("MQ Mode: Kafka Consumer", zap.Strings("brokers", config.Global.Kafka.Brokers))
		consumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, "confirm-group")
	} else {
		logger.Info("MQ Mode: Redis Consumer")
		consumer = mq.NewRedisConsumer(rdb, "confirm-group", "worker-1")
	}

	// 6. 启动 Worker (订阅模式)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Info("开始监听转账事件", zap.String("topic", event.TopicTransfer))
		if err := consumer.Subscribe(ctx, event.TopicTransfer, worker.HandleTransferEvent); err != nil {
			logger.Fatal("订阅失败", zap.Error(err))
		}
	}()

	// 7. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在停止确认服务...")
	cancel()
	_ = consumer.Close()
	time.Sleep(2 * time.Second)
	logger.Info("确认服务已停止")
}

func (w *ConfirmWorker) HandleTransferEvent(msg *mq.Message) error {
	var eventData event.TransferBroadcastEvent
	if err := json.Unmarshal(msg.Payload, &eventData); err != nil {
		logger.Error("解析消息失败", zap.Error(err))
		return nil // 格式错误不重试
	}

	logger.Info("收到转账广播事件",
		zap.String("tx_id", eventData.TxID),
		zap.String("from", eventData.FromAddress),
		zap.Int64("amount_sun", eventData.AmountSun),
	)

	status, err := w.waitForResult(context.Background(), eventData.TxID)
	if err != nil {
		logger.Warn("确认超时，保持 PACKING 状态等待下次重试", zap.String("tx_id", eventData.TxID))
		return err
	}

	result := w.db.Model(&model.TransferRecord{}).
		Where("tx_id = ?", eventData.TxID).
		Update("status", status)
	if result.Error != nil {
		logger.Error("更新转账记录失败", zap.String("tx_id", eventData.TxID), zap.Error(result.Error))
		return result.Error
	}

	logger.Info("交易确认完成",
		zap.String("tx_id", eventData.TxID),
		zap.String("status", status),
	)
	return nil
}

// waitForResult 轮询节点直到交易携带执行结果
func (w *ConfirmWorker) waitForResult(ctx context.Context, txID string) (string, error) {
	for i := 0; i < maxPolls; i++ {
		tx, err := w.svc.GetTransactionByID(ctx, txID)
		switch {
		case errors.Is(err, wallet.ErrTransactionNotFound):
			// 尚未进块，继续等
		case err != nil:
			logger.Warn("查询交易失败", zap.String("tx_id", txID), zap.Error(err))
		case tx.Status != "" && tx.Status != types.StatusPacking:
			return tx.Status, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return "", fmt.Errorf("交易 %s 在 %d 次轮询内未确认", txID, maxPolls)
}
