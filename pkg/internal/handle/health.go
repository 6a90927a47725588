// Package handle 新增健康检查处理器实现.
package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/regvault/pkg/context"
)

const healthTimeout = 2 * time.Second

// Health 汇总健康检查，任一核心组件不可用则整体 503.
func Health(c *gin.Context) {
	mgr := ctxPkg.GetManager(c.Request.Context())
	if mgr == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "storage manager not initialized"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HealthDB 数据库健康检查.
func HealthDB(c *gin.Context) {
	dbc := ctxPkg.GetDBClient(c.Request.Context())
	if dbc == nil || dbc.DB == nil { // dbc.DB 来自于嵌入的 *gorm.DB
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "db", "status": "unhealthy", "error": "db client not initialized"})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	sqlDB, err := dbc.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "db", "status": "unhealthy", "error": err.Error()})

		return
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "db", "status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "db", "status": "ok"})
}

// HealthKV 键值缓存健康检查.
func HealthKV(c *gin.Context) {
	kvc := ctxPkg.GetKVClient(c.Request.Context())
	if kvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "kv", "status": "unhealthy", "error": "kv client not initialized"})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if _, err := kvc.Exists(ctx, "health:ping"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "kv", "status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "kv", "status": "ok"})
}

// HealthMQ 消息队列健康检查.
func HealthMQ(c *gin.Context) {
	mqc := ctxPkg.GetMQClient(c.Request.Context())
	if mqc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "mq", "status": "unhealthy", "error": "mq client not initialized"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "mq", "status": "ok"})
}

// HealthS3 对象存储健康检查（可选组件，未启用时报 disabled）.
func HealthS3(c *gin.Context) {
	s3c := ctxPkg.GetS3Client(c.Request.Context())
	if s3c == nil {
		c.JSON(http.StatusOK, gin.H{"component": "s3", "status": "disabled"})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s3c.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "s3", "status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "s3", "status": "ok"})
}
