package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ujjwalagrawal22/smartstudy-go/internal/aiclient"
)

// aiError maps AI backend failures to API responses. An unreachable backend
// gets an actionable message; a non-2xx response surfaces the backend's own
// message when present. Nothing is retried.
func aiError(c *gin.Context, err error) {
	var remoteErr *aiclient.RemoteError
	switch {
	case errors.Is(err, aiclient.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "AI backend is not reachable. Start the AI backend and try again.",
		})
	case errors.As(err, &remoteErr):
		msg := remoteErr.Detail
		if msg == "" {
			msg = "AI backend request failed. Please try again later."
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error", "details": err.Error()})
	}
}

// AIHealth surfaces the AI backend's health and feature report
func AIHealth(ai *aiclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := ai.Health(c.Request.Context())
		if err != nil {
			aiError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// StudyTips fetches subject/topic study tips from the AI backend
func StudyTips(ai *aiclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.Param("subject")
		topic := c.Query("topic")

		tips, err := ai.StudyTips(c.Request.Context(), subject, topic)
		if err != nil {
			aiError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"subject": subject,
			"topic":   topic,
			"tips":    tips,
		})
	}
}
