package router

import (
	"time"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/handler"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
)

// Setup 注册全部路由。records 为 nil 时流水类接口返回 503，clock 为 nil 时使用系统时间；
// deposits 不为 nil 时捐款金额以核验后的入账凭证为准
func Setup(engine *escrow.Engine, records logic.Records, deposits logic.DepositVerifier, clock handler.Clock) *gin.Engine {
	if err := handler.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators: %v", err)
	}

	r := gin.New()

	// 中间件
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "crowdfunding-escrow",
		})
	})

	projectHandler := handler.NewProjectHandler(logic.NewProjectLogic(engine, records))
	donationHandler := handler.NewDonationHandler(logic.NewDonationLogic(engine, records, deposits))
	voteHandler := handler.NewVoteHandler(logic.NewVoteLogic(engine, records))
	payoutHandler := handler.NewPayoutHandler(logic.NewPayoutLogic(engine, records))

	// API版本组
	v1 := r.Group("/api/v1")
	v1.Use(handler.CallContext(clock))
	{
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:name", projectHandler.GetProject)
			projects.GET("/:name/detail", projectHandler.GetProjectDetail)
			projects.GET("/:name/budget", projectHandler.GetCollectedBudget)
			projects.GET("/:name/status", projectHandler.GetProjectStatus)
			projects.GET("/:name/stats", projectHandler.GetProjectStats)

			// 捐款
			projects.POST("/:name/donations", donationHandler.Donate)
			projects.GET("/:name/donations/:donor", donationHandler.GetDonatedAmount)
			projects.GET("/:name/contributions", donationHandler.GetProjectContributeRecords)

			// 投票
			projects.POST("/:name/votes", voteHandler.Vote)
			projects.GET("/:name/votes", voteHandler.GetVotingState)
			projects.GET("/:name/votes/:voter", voteHandler.GetVote)
			projects.GET("/:name/vote-records", voteHandler.GetProjectVoteRecords)

			// 领取和退款
			projects.POST("/:name/claim", payoutHandler.Claim)
			projects.GET("/:name/claim", payoutHandler.GetAuthorClaimed)
			projects.POST("/:name/refunds", payoutHandler.Refund)
			projects.GET("/:name/refunds/:donor", payoutHandler.GetDonorRefunded)
			projects.GET("/:name/settlements", payoutHandler.GetProjectSettlements)
		}
	}

	return r
}

// requestLogger 使用服务日志记录请求
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, "+handler.CallerHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
