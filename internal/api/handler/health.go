package handler

import (
	"net/http"

	"github.com/tripmind/tripmind/internal/api/response"
	"github.com/tripmind/tripmind/internal/bus"
	"github.com/tripmind/tripmind/internal/repository/mongo"
	"github.com/tripmind/tripmind/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including backing store connectivity
func ReadyCheck(db *mongo.DB, redisClient *redis.Client, busClient *bus.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database not ready")
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "state store not ready")
			return
		}
		if !busClient.IsConnected() {
			response.ServiceUnavailable(w, "notification bus not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
