package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/database"
)

type contextKey string

const dbKey contextKey = "app_db"

// WithDB stores the application database in the request context so handlers
// can fetch it without threading it through every constructor
func WithDB(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(dbKey), db)
		c.Next()
	}
}

// GetDB retrieves the database from context
func GetDB(c *gin.Context) (database.Querier, bool) {
	val, exists := c.Get(string(dbKey))
	if !exists {
		return nil, false
	}
	db, ok := val.(database.Querier)
	return db, ok
}
