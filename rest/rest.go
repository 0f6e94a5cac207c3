package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"losingmoney.com/server/game"
	"losingmoney.com/server/ws"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RunServer blocks serving the HTTP surface: banner, readiness,
// metrics, the last-hand lookup, and the websocket endpoint.
func RunServer(portNo int, clientURL string, manager *game.Manager, gateway *ws.Gateway) error {
	r := gin.Default()
	r.Use(corsMiddleware(clientURL))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Losing Money Poker WebSocket Server is running!")
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "activeRooms": manager.ActiveRooms()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/rooms/:roomId/last-result", func(c *gin.Context) {
		getLastResult(c, manager)
	})
	r.GET("/ws", gateway.HandleWS(clientURL))

	restLogger.Info().Msgf("Server running on port %d", portNo)
	return r.Run(fmt.Sprintf(":%d", portNo))
}

func getLastResult(c *gin.Context, manager *game.Manager) {
	roomID := c.Param("roomId")
	result, ok := manager.LastResult(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, appError{
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("No recent result for room %s", roomID),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", clientURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
