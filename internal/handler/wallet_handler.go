package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tron-wallet/internal/handler/request"
	"tron-wallet/internal/handler/response"
	"tron-wallet/internal/service/wallet"
	"tron-wallet/pkg/cache"
	"tron-wallet/pkg/errno"
	"tron-wallet/pkg/logger"
	"tron-wallet/pkg/utils/lock"
	"tron-wallet/pkg/validator"
	"tron-wallet/pkg/wallet/types"

	"go.uber.org/zap"
)

const (
	// 已确认的区块内容不可变，历史区块可以长缓存；最新区块 3 秒出一个，只做短缓存
	blockCacheTTL    = 10 * time.Minute
	nowBlockCacheTTL = 3 * time.Second

	// 同一发送方串行转账，避免并发广播引起的 ref_block 冲突
	transferLockTTL = 30 * time.Second
)

// WalletHandler 承接所有钱包相关的 HTTP 接口。
// cache 和 locker 都是可选依赖，为 nil 时对应能力降级为直连节点 / 不加锁。
type WalletHandler struct {
	svc    *wallet.Service
	cache  cache.Cache
	locker lock.DistributedLock
}

func NewWalletHandler(svc *wallet.Service, c cache.Cache, locker lock.DistributedLock) *WalletHandler {
	return &WalletHandler{svc: svc, cache: c, locker: locker}
}

// NewWallet 生成新钱包
// @Summary 生成新钱包
// @Description 生成随机助记词并派生出私钥、公钥和地址。助记词只返回这一次。
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.NewWalletRequest true "生成参数"
// @Success 200 {object} response.Response
// @Router /api/v1/wallet/new [post]
func (h *WalletHandler) NewWallet(c *gin.Context) {
	var req request.NewWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	w, err := h.svc.GenerateWallet(req.WordCount, req.Index)
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	response.Success(c, w)
}

// DeriveAddress 根据私钥推导地址
// @Summary 私钥推导地址
// @Description 本地计算地址并请求节点交叉校验
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.DeriveAddressRequest true "私钥"
// @Success 200 {object} response.Response
// @Router /api/v1/wallet/address [post]
func (h *WalletHandler) DeriveAddress(c *gin.Context) {
	var req request.DeriveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	addr, err := h.svc.AddressFromPrivateKey(c.Request.Context(), req.PrivateKey)
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	response.Success(c, gin.H{"address": addr})
}

// Transfer 发起转账
// @Summary 发起 TRX 转账
// @Description 创建、签名并广播一笔 TRX 转账
// @Tags Wallet
// @Accept json
// @Produce json
// @Param request body request.TransferRequest true "转账参数"
// @Success 200 {object} response.Response
// @Router /api/v1/wallet/transfer [post]
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req request.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, errno.ErrBind.WithMessage("amount 必须是十进制数字"))
		return
	}

	ctx := c.Request.Context()

	if h.locker != nil {
		lockKey := "transfer:" + req.From
		ok, lockErr := h.locker.Acquire(ctx, lockKey, transferLockTTL)
		if lockErr != nil {
			logger.Error("获取转账锁失败", zap.String("from", req.From), zap.Error(lockErr))
			response.Error(c, errno.InternalServerError)
			return
		}
		if !ok {
			response.Error(c, errno.ErrTransactionFailed.WithMessage("同一地址存在进行中的转账，请稍后重试"))
			return
		}
		defer func() {
			// 请求 ctx 可能已随客户端断开而取消，释放锁必须用独立 ctx，
			// 否则发送方要白白锁满整个 TTL
			if err := h.locker.Release(context.Background(), lockKey); err != nil {
				logger.Error("释放转账锁失败", zap.String("from", req.From), zap.Error(err))
			}
		}()
	}

	var message []byte
	if req.Message != "" {
		message = []byte(req.Message)
	}

	tx, err := h.svc.Transfer(ctx, req.PrivateKey, req.From, req.To, amount, message)
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	response.Success(c, tx)
}

// ValidateAddress 校验地址
// @Summary 校验 TRON 地址合法性
// @Tags Wallet
// @Produce json
// @Param address path string true "待校验地址 (Base58 或 Hex)"
// @Success 200 {object} response.Response
// @Router /api/v1/wallet/validate/{address} [get]
func (h *WalletHandler) ValidateAddress(c *gin.Context) {
	addr := c.Param("address")
	ctx := c.Request.Context()
	cacheKey := "validate:" + addr

	// 地址合法性不随时间变化，长缓存安全
	if h.cache != nil {
		var cached bool
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			response.Success(c, gin.H{"address": addr, "valid": cached})
			return
		}
	}

	valid, err := h.svc.ValidateAddress(ctx, addr)
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	if h.cache != nil {
		_ = h.cache.Set(ctx, cacheKey, valid, blockCacheTTL)
	}
	response.Success(c, gin.H{"address": addr, "valid": valid})
}

// GetTransaction 查询交易
// @Summary 按交易哈希查询交易
// @Tags Wallet
// @Produce json
// @Param id path string true "交易哈希"
// @Success 200 {object} response.Response
// @Router /api/v1/tx/{id} [get]
func (h *WalletHandler) GetTransaction(c *gin.Context) {
	tx, err := h.svc.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	response.Success(c, tx)
}

// GetNowBlock 查询最新区块
// @Summary 查询最新区块
// @Tags Block
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/block/now [get]
func (h *WalletHandler) GetNowBlock(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached types.Block
		if err := h.cache.Get(ctx, "block:now", &cached); err == nil {
			response.Success(c, &cached)
			return
		}
	}

	block, err := h.svc.GetNowBlock(ctx)
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	if h.cache != nil {
		_ = h.cache.Set(ctx, "block:now", block, nowBlockCacheTTL)
	}
	response.Success(c, block)
}

// GetBlockByNum 按高度查询区块
// @Summary 按高度查询区块
// @Tags Block
// @Produce json
// @Param num path int true "区块高度"
// @Success 200 {object} response.Response
// @Router /api/v1/block/{num} [get]
func (h *WalletHandler) GetBlockByNum(c *gin.Context) {
	num, err := strconv.ParseInt(c.Param("num"), 10, 64)
	if err != nil || num < 0 {
		response.Error(c, errno.ErrBind.WithMessage("区块高度必须是非负整数"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("block:%d", num)

	if h.cache != nil {
		var cached types.Block
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			response.Success(c, &cached)
			return
		}
	}

	block, err := h.svc.GetBlockByNum(ctx, num)
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	if h.cache != nil {
		_ = h.cache.Set(ctx, cacheKey, block, blockCacheTTL)
	}
	response.Success(c, block)
}

// GetAccount 查询账户
// @Summary 查询账户余额
// @Tags Account
// @Produce json
// @Param address path string true "账户地址"
// @Success 200 {object} response.Response
// @Router /api/v1/account/{address} [get]
func (h *WalletHandler) GetAccount(c *gin.Context) {
	account, err := h.svc.GetAccount(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	response.Success(c, account)
}

// GetAccountResource 查询账户资源
// @Summary 查询账户带宽与能量
// @Tags Account
// @Produce json
// @Param address path string true "账户地址"
// @Success 200 {object} response.Response
// @Router /api/v1/account/{address}/resource [get]
func (h *WalletHandler) GetAccountResource(c *gin.Context) {
	res, err := h.svc.GetAccountResource(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, decodeWalletErr(err))
		return
	}
	response.Success(c, res)
}

// decodeWalletErr 把 service 层错误翻译成带业务码的 errno
func decodeWalletErr(err error) error {
	var txErr *wallet.TransactionError
	switch {
	case errors.Is(err, wallet.ErrSameAddress):
		return errno.ErrSameAddress
	case errors.Is(err, wallet.ErrInvalidMnemonic):
		return errno.ErrInvalidMnemonic
	case errors.Is(err, wallet.ErrInvalidPrivateKey):
		return errno.ErrInvalidPrivateKey
	case errors.Is(err, wallet.ErrInvalidAmount):
		return errno.ErrBind.WithMessage("转账金额必须大于 0")
	case errors.Is(err, wallet.ErrTransactionNotFound):
		return errno.ErrTransactionNotFound
	case errors.As(err, &txErr):
		return errno.ErrTransactionFailed.WithMessage(txErr.Message)
	default:
		logger.Error("节点请求失败", zap.Error(err))
		return errno.ErrNodeUnavailable
	}
}
