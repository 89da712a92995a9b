package wallet

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tron-wallet/internal/event"
	"tron-wallet/internal/model"
	"tron-wallet/internal/service/mq"
	"tron-wallet/pkg/address"
	"tron-wallet/pkg/bip32"
	"tron-wallet/pkg/bip39"
	"tron-wallet/pkg/logger"
	"tron-wallet/pkg/monitor"
	"tron-wallet/pkg/node"
	"tron-wallet/pkg/signer"
	"tron-wallet/pkg/wallet/types"
)

const (
	// CoinType 是 SLIP-44 为 TRON 登记的 coin_type
	CoinType = 195

	// DerivationPathFormat 是账户派生路径模板，index 为 BIP-44 的 address_index。
	// 固定使用 hardened 的 purpose/coin_type/account 三段，与主流 TRON 钱包兼容。
	DerivationPathFormat = "m/44'/195'/0'/0/%d"

	// DefaultWordCount 是默认助记词单词数
	DefaultWordCount = 24

	// SunPerTRX 是 1 TRX 对应的最小单位 (SUN) 数量
	SunPerTRX = 1_000_000
)

var (
	ErrSameAddress         = errors.New("发送方与接收方地址不能相同")
	ErrInvalidMnemonic     = errors.New("无效的助记词")
	ErrInvalidPrivateKey   = errors.New("私钥未通过节点校验")
	ErrInvalidAmount       = errors.New("转账金额必须大于 0")
	ErrTransactionNotFound = errors.New("交易不存在")
)

// TransactionError 表示节点在广播阶段报告的逻辑失败。
// Message 是节点返回的 Hex 失败原因解码后的内容，原样透出，不做二次加工。
type TransactionError struct {
	Code    string
	Message string
}

func (e *TransactionError) Error() string {
	return e.Message
}

// NodeAPI 是钱包对节点 HTTP API 的依赖面。
// 生产环境用 *node.Client，测试用记录调用的 Fake。
type NodeAPI interface {
	CreateTransaction(ctx context.Context, ownerAddress, toAddress string, amount int64) (*node.Transaction, error)
	BroadcastTransaction(ctx context.Context, tx *node.Transaction) (*node.BroadcastResult, error)
	GetTransactionByID(ctx context.Context, txID string) (*node.Transaction, error)
	GetNowBlock(ctx context.Context) (*node.Block, error)
	GetBlockByNum(ctx context.Context, num int64) (*node.Block, error)
	ValidateAddress(ctx context.Context, address string) (bool, error)
	GetAccount(ctx context.Context, address string) (*node.Account, error)
	GetAccountResource(ctx context.Context, address string) (*node.AccountResource, error)
}

// Service 串起助记词 -> 私钥 -> 地址 -> 签名 -> 广播的完整链路。
// 所有方法都是同步一问一答，不缓存任何派生出的密钥，也不自动重试；
// db 和 producer 可以为 nil (例如 CLI 离线场景)，只影响审计落库和事件发布。
type Service struct {
	node      NodeAPI
	mnemonics *bip39.MnemonicService
	generator *address.TRONGenerator
	signer    *signer.TRONSigner
	db        *gorm.DB
	producer  mq.Producer
}

func NewService(nodeAPI NodeAPI, db *gorm.DB, producer mq.Producer) *Service {
	return &Service{
		node:      nodeAPI,
		mnemonics: bip39.NewMnemonicService(),
		generator: address.NewTRONGenerator(),
		signer:    signer.NewTRONSigner(),
		db:        db,
		producer:  producer,
	}
}

// GenerateMnemonic 生成新的随机助记词，默认 24 词
func (s *Service) GenerateMnemonic(wordCount int) (string, error) {
	if wordCount == 0 {
		wordCount = DefaultWordCount
	}
	mnemonic, err := s.mnemonics.GenerateMnemonic(wordCount)
	if err != nil {
		return "", err
	}
	if monitor.Business != nil {
		monitor.Business.WalletsGeneratedTotal.Inc()
	}
	return mnemonic, nil
}

// GenerateWallet 生成一个全新钱包: 随机助记词 + 第 index 个账户的完整密钥材料。
// 返回值是调用方唯一一次拿到助记词的机会，本服务不落盘。
func (s *Service) GenerateWallet(wordCount int, index uint32) (*types.Wallet, error) {
	mnemonic, err := s.GenerateMnemonic(wordCount)
	if err != nil {
		return nil, err
	}

	privKey, err := s.DerivePrivateKey(mnemonic, index)
	if err != nil {
		return nil, err
	}
	pubKey, err := s.generator.PubKeyFromPrivKey(privKey)
	if err != nil {
		return nil, err
	}
	addrHex, err := s.generator.PubKeyToAddressHex(pubKey)
	if err != nil {
		return nil, err
	}
	addr58, err := s.generator.HexToBase58(addrHex)
	if err != nil {
		return nil, err
	}

	return &types.Wallet{
		Mnemonic:   mnemonic,
		PrivateKey: privKey,
		PublicKey:  pubKey,
		AddressHex: addrHex,
		Address:    addr58,
	}, nil
}

// DerivePrivateKey 从助记词派生第 index 个账户的私钥 (小写 Hex)。
// 确定性: 同一助记词 + index 永远得到同一私钥。
// 助记词和派生出的密钥都不在本服务内保留。
func (s *Service) DerivePrivateKey(mnemonic string, index uint32) (string, error) {
	if !s.mnemonics.ValidateMnemonic(mnemonic) {
		return "", ErrInvalidMnemonic
	}

	seed := s.mnemonics.MnemonicToSeed(mnemonic, "")
	hdWallet, err := bip32.NewMasterKeyFromSeed(seed, &chaincfg.MainNetParams)
	if err != nil {
		return "", fmt.Errorf("生成主密钥失败: %w", err)
	}

	key, err := hdWallet.DerivePath(fmt.Sprintf(DerivationPathFormat, index))
	if err != nil {
		return "", fmt.Errorf("派生路径失败: %w", err)
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(privKey.Serialize()), nil
}

// PublicKeyFromPrivateKey 计算私钥对应的公钥 (64 字节 X‖Y, Hex)
func (s *Service) PublicKeyFromPrivateKey(privKeyHex string) (string, error) {
	return s.generator.PubKeyFromPrivKey(privKeyHex)
}

// AddressFromPrivateKey 从私钥推导 Base58 地址，并请求节点交叉校验。
// 节点校验失败被视为调用方传入了坏私钥，而不是系统故障——本地数学
// 即便算出了一个格式正确的地址，也必须以远端判定为准。
func (s *Service) AddressFromPrivateKey(ctx context.Context, privKeyHex string) (string, error) {
	addr58, err := s.generator.PrivKeyToBase58(privKeyHex)
	if err != nil {
		return "", err
	}

	ok, err := s.node.ValidateAddress(ctx, addr58)
	if err != nil {
		return "", fmt.Errorf("地址校验请求失败: %w", err)
	}
	if !ok {
		return "", ErrInvalidPrivateKey
	}
	return addr58, nil
}

// ValidateAddress 请求节点校验地址合法性 (透传)
func (s *Service) ValidateAddress(ctx context.Context, addr string) (bool, error) {
	return s.node.ValidateAddress(ctx, addr)
}

// SignTransaction 对节点构造的交易签名 (见 signer.TRONSigner)
func (s *Service) SignTransaction(privKeyHex string, tx *node.Transaction) error {
	return s.signer.Sign(privKeyHex, tx)
}

// AmountToSun 将 TRX 金额转换为最小单位 SUN (x 10^6，向零截断)。
// 全程十进制定点运算，货币金额不允许二进制浮点误差。
func (s *Service) AmountToSun(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(SunPerTRX)).IntPart()
}

// normalizeAddress 将 Base58 地址规整为节点接口使用的 Hex 形式。
// 已经是 Hex 的输入原样通过。
func (s *Service) normalizeAddress(addr string) (string, error) {
	if strings.HasPrefix(addr, "T") {
		return s.generator.Base58ToHex(addr)
	}
	return addr, nil
}

// Transfer 执行一笔 TRX 转账: 创建 -> 签名 -> (可选附言) -> 广播 -> 解读结果。
// 状态机: REQUESTED --create--> CREATED --sign--> SIGNED --broadcast--> {ACCEPTED | REJECTED}。
// 任何一步失败立即返回错误，不提交任何中间状态，调用方需从头重新发起。
func (s *Service) Transfer(ctx context.Context, privKeyHex, from, to string, amount decimal.Decimal, message []byte) (*types.Transaction, error) {
	// 参数校验全部发生在第一次网络调用之前
	amountSun := s.AmountToSun(amount)
	if amountSun <= 0 {
		return nil, ErrInvalidAmount
	}

	fromHex, err := s.normalizeAddress(from)
	if err != nil {
		return nil, fmt.Errorf("发送方地址非法: %w", err)
	}
	toHex, err := s.normalizeAddress(to)
	if err != nil {
		return nil, fmt.Errorf("接收方地址非法: %w", err)
	}
	// 两种表示法先统一再比较，TXxx 与对应 41xx 视为同一地址
	if fromHex == toHex {
		return nil, ErrSameAddress
	}

	// 1. 请求节点构造交易
	created, err := s.node.CreateTransaction(ctx, fromHex, toHex, amountSun)
	if err != nil {
		return nil, err
	}
	if created.Error != "" {
		return nil, &TransactionError{Message: created.Error}
	}

	// 2. 本地签名
	if err := s.signer.Sign(privKeyHex, created); err != nil {
		return nil, err
	}

	// 3. 可选附言: 在签名之后覆盖 raw_data.data。
	// 这会让广播载荷偏离已签名内容，节点端是否安全接受没有明确承诺，
	// 为兼容既有网络行为而保留；每次发生都记审计日志并计数。
	messageOverride := false
	if len(message) > 0 {
		if created.RawData == nil {
			created.RawData = &node.TransactionRawData{}
		}
		created.RawData.Data = hex.EncodeToString(message)
		messageOverride = true

		logger.Warn("签名后覆盖了交易附言，广播载荷与已签名内容不一致",
			zap.String("tx_id", created.TxID),
			zap.Int("message_len", len(message)),
		)
		if monitor.Business != nil {
			monitor.Business.MessageOverridesTotal.Inc()
		}
	}

	// 4. 广播 (不可逆)
	result, err := s.node.BroadcastTransaction(ctx, created)
	if err != nil {
		return nil, err
	}
	if !result.Result {
		if monitor.Business != nil {
			monitor.Business.TransfersBroadcastTotal.WithLabelValues("rejected").Inc()
		}
		return nil, &TransactionError{Code: result.Code, Message: result.DecodedMessage()}
	}

	if monitor.Business != nil {
		monitor.Business.TransfersBroadcastTotal.WithLabelValues("accepted").Inc()
		monitor.Business.TransferAmountSunTotal.Add(float64(amountSun))
	}

	tx := &types.Transaction{
		ID:      created.TxID,
		Status:  types.StatusPacking,
		RawData: created.RawData,
	}

	// 5. 审计落库 + 事件发布 (可选依赖，失败不影响已广播的交易结果)
	s.recordTransfer(ctx, tx, from, to, amount, amountSun, messageOverride)

	return tx, nil
}

func (s *Service) recordTransfer(ctx context.Context, tx *types.Transaction, from, to string, amount decimal.Decimal, amountSun int64, messageOverride bool) {
	if s.db != nil {
		record := &model.TransferRecord{
			TxID:            tx.ID,
			FromAddress:     from,
			ToAddress:       to,
			Amount:          amount,
			AmountSun:       amountSun,
			Status:          tx.Status,
			MessageOverride: messageOverride,
		}
		if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
			logger.Error("转账记录落库失败", zap.String("tx_id", tx.ID), zap.Error(err))
		}
	}

	if s.producer != nil {
		payload, _ := json.Marshal(event.TransferBroadcastEvent{
			TxID:            tx.ID,
			FromAddress:     from,
			ToAddress:       to,
			AmountSun:       amountSun,
			Status:          tx.Status,
			MessageOverride: messageOverride,
		})
		// 使用发送方地址作为 Partition Key 保证顺序
		go func() {
			if err := s.producer.Publish(context.Background(), event.TopicTransfer, from, payload); err != nil {
				logger.Error("转账事件发布失败", zap.String("tx_id", tx.ID), zap.Error(err))
			}
		}()
	}
}

// GetTransactionByID 按交易哈希查询交易 (纯读)
func (s *Service) GetTransactionByID(ctx context.Context, txID string) (*types.Transaction, error) {
	tx, err := s.node.GetTransactionByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	// 节点查不到时返回空对象
	if tx.TxID == "" {
		return nil, ErrTransactionNotFound
	}

	status := ""
	if len(tx.Ret) > 0 {
		status = tx.Ret[0].ContractRet
	}

	return &types.Transaction{
		ID:      tx.TxID,
		Status:  status,
		RawData: tx.RawData,
	}, nil
}

// GetNowBlock 查询最新区块 (纯读)
func (s *Service) GetNowBlock(ctx context.Context) (*types.Block, error) {
	block, err := s.node.GetNowBlock(ctx)
	if err != nil {
		return nil, err
	}
	return toBlock(block), nil
}

// GetBlockByNum 按高度查询区块 (纯读)
func (s *Service) GetBlockByNum(ctx context.Context, num int64) (*types.Block, error) {
	block, err := s.node.GetBlockByNum(ctx, num)
	if err != nil {
		return nil, err
	}
	return toBlock(block), nil
}

func toBlock(b *node.Block) *types.Block {
	txs := b.Transactions
	if txs == nil {
		txs = []node.Transaction{}
	}
	return &types.Block{
		ID:           b.BlockID,
		Number:       b.BlockHeader.RawData.Number,
		Timestamp:    b.BlockHeader.RawData.Timestamp,
		Transactions: txs,
	}
}

// GetAccount 查询账户信息 (透传)
func (s *Service) GetAccount(ctx context.Context, addr string) (*node.Account, error) {
	return s.node.GetAccount(ctx, addr)
}

// GetAccountResource 查询账户资源 (透传)
func (s *Service) GetAccountResource(ctx context.Context, addr string) (*node.AccountResource, error) {
	return s.node.GetAccountResource(ctx, addr)
}
