package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/auth"
	"github.com/kindred/kcf/internal/config"
	"github.com/kindred/kcf/internal/handler"
	"github.com/kindred/kcf/internal/logic"
	"github.com/kindred/kcf/internal/repository"
	"github.com/kindred/kcf/internal/storage"
)

func Setup(store repository.Store, st storage.Storage, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "crowdfunding-service",
		})
	})

	// 本地存储时直接挂载上传目录
	if local, ok := st.(*storage.LocalStorage); ok {
		r.Static("/uploads", local.BasePath())
	}

	campaignLogic := logic.NewCampaignLogic(store, st)
	donationLogic := logic.NewDonationLogic(store)
	pledgeLogic := logic.NewPledgeLogic(store)
	userLogic := logic.NewUserLogic(store, cfg.Auth.Secret,
		time.Duration(cfg.Auth.TokenTTLHour)*time.Hour)

	campaignHandler := handler.NewCampaignHandler(campaignLogic)
	donationHandler := handler.NewDonationHandler(donationLogic)
	pledgeHandler := handler.NewPledgeHandler(pledgeLogic)
	authHandler := handler.NewAuthHandler(userLogic)

	requireAuth := authMiddleware(cfg.Auth.Secret)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", requireAuth, authHandler.GetProfile)
		}

		// 活动相关路由
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/mine", requireAuth, campaignHandler.GetMyCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/donations", donationHandler.GetCampaignDonations)

			campaigns.POST("", requireAuth, campaignHandler.CreateCampaign)
			campaigns.PUT("/:id", requireAuth, campaignHandler.UpdateCampaign)
			campaigns.DELETE("/:id", requireAuth, campaignHandler.DeleteCampaign)
			campaigns.PATCH("/:id/status", requireAuth, campaignHandler.SetCampaignStatus)
			campaigns.POST("/:id/media", requireAuth, campaignHandler.AddMedia)
		}

		// 媒体相关路由
		media := v1.Group("/media", requireAuth)
		{
			media.DELETE("/:id", campaignHandler.RemoveMedia)
			media.PATCH("/:id/cover", campaignHandler.SetCoverMedia)
		}

		// 捐款相关路由
		donations := v1.Group("/donations", requireAuth)
		{
			donations.POST("", donationHandler.CreateDonation)
			donations.GET("/mine", donationHandler.GetMyDonations)
		}

		// 认捐相关路由
		pledges := v1.Group("/pledges", requireAuth)
		{
			pledges.POST("", pledgeHandler.CreatePledge)
			pledges.GET("/mine", pledgeHandler.GetMyPledges)
			pledges.DELETE("/:id", pledgeHandler.CancelPledge)
			pledges.POST("/:id/convert", pledgeHandler.ConvertPledge)
		}
	}

	return r
}

// 认证中间件，解析Bearer令牌并写入用户ID
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "未提供认证令牌",
			})
			return
		}

		claims, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			message := "认证令牌无效"
			if err == auth.ErrExpiredToken {
				message = "认证令牌已过期"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			return
		}

		c.Set("userId", claims.UserId)
		c.Next()
	}
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
