package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/service"
)

func PostEvent(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.EventRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		app.Logger().Infof("Parsed EventRequest: %+v", body)

		if err := service.ValidateEventRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		event, insights, err := service.LogEvent(c.Request.Context(), app.EventRepo(), app.InsightRepo(), user, &body, app.Location())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save event")
			return
		}

		HandleCreated(c, app.Logger(), event, map[string]any{"insights": insights})
	}
}

func GetEvents(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		day := time.Now()
		if d := c.Query("date"); d != "" {
			parsed, err := time.ParseInLocation("2006-01-02", d, app.Location())
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid date, expected YYYY-MM-DD")
				return
			}
			day = parsed
		}
		dayStart, dayEnd := internal.DayRange(day, app.Location())

		events, err := app.EventRepo().ListEventsForDay(c.Request.Context(), user.ID, dayStart, dayEnd)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch events")
			return
		}

		meta := map[string]any{"date": dayStart.Format("2006-01-02")}
		HandleSuccess(c, app.Logger(), events, meta)
	}
}
