package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/service"
)

func GetInsights(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		unreadOnly := c.Query("unread") == "true"

		insights, err := app.InsightRepo().ListInsights(c.Request.Context(), user.ID, unreadOnly)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch insights")
			return
		}

		HandleSuccess(c, app.Logger(), insights, nil)
	}
}

func MarkInsightRead(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := service.DismissInsight(c.Request.Context(), app.InsightRepo(), id); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to mark insight read")
			return
		}

		HandleSuccess(c, app.Logger(), nil, map[string]any{"id": id, "is_read": true})
	}
}

func GetInsightSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		insights, err := app.InsightRepo().ListInsights(c.Request.Context(), user.ID, false)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch insights for summary")
			return
		}

		counts, unread := service.SummarizeInsights(insights, time.Now())
		meta := map[string]any{"counts": counts, "unread": unread}
		HandleSuccess(c, app.Logger(), nil, meta)
	}
}
