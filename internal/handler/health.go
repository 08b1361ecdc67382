package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the backend can reach Postgres (ledger, orders) and
// Redis (job queue). Used by the container healthcheck and the frontend's
// offline banner; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "indisponivel"
		}

		fila := "ok"
		if rdb.Ping(ctx).Err() != nil {
			fila = "indisponivel"
		}

		status := http.StatusOK
		if postgres != "ok" || fila != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"servico":  "cafeops",
			"ok":       status == http.StatusOK,
			"postgres": postgres,
			"fila":     fila,
		})
	}
}
