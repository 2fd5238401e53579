package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured frontend origins. Domains come in as a
// comma-separated list from config, never from a global.
func ConfigCORS(allowedDomains string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	domains := strings.Split(allowedDomains, ",")
	for i := range domains {
		domains[i] = strings.TrimSpace(domains[i])
	}
	if len(domains) == 1 && domains[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = domains
	}

	return cors.New(config)
}
