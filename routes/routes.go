package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-wastewise/handlers"
)

// CORSMiddleware allows the web dashboards to call the API cross-origin and
// answers pre-flight OPTIONS directly.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.String(http.StatusOK, "ok")
			c.Abort()
			return
		}

		c.Next()
	}
}

func SetupRouter(intake *handlers.Intake) *gin.Engine {
	r := gin.Default()
	r.Use(CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hello, welcome to WasteWise!",
		})
	})

	// api routes
	api := r.Group("/api/wastewise")
	{
		api.POST("/classify", intake.ClassifyWaste)
		api.GET("/reports", intake.ListReports)
		api.GET("/zones", intake.ListZones)
	}

	return r
}
