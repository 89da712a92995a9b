package routes

import (
	"tron-wallet/internal/handler"

	"github.com/gin-gonic/gin"
)

func RegisterWalletRoutes(rg *gin.RouterGroup, h *handler.WalletHandler) {
	walletGroup := rg.Group("/wallet")
	{
		walletGroup.POST("/new", h.NewWallet)
		walletGroup.POST("/address", h.DeriveAddress)
		walletGroup.POST("/transfer", h.Transfer)
		walletGroup.GET("/validate/:address", h.ValidateAddress)
	}

	rg.GET("/tx/:id", h.GetTransaction)

	blockGroup := rg.Group("/block")
	{
		blockGroup.GET("/now", h.GetNowBlock)
		blockGroup.GET("/:num", h.GetBlockByNum)
	}

	accountGroup := rg.Group("/account")
	{
		accountGroup.GET("/:address", h.GetAccount)
		accountGroup.GET("/:address/resource", h.GetAccountResource)
	}
}
