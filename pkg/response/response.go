package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/mcatprep/plan-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Success     bool                   `json:"success"`
	Data        interface{}            `json:"data,omitempty"`
	Stats       interface{}            `json:"stats,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Code        string                 `json:"code,omitempty"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
	GeneratedAt string                 `json:"generatedAt,omitempty"`
}

// JSON sends a success response with optional stats.
func JSON(c *gin.Context, status int, data interface{}, stats interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{
		Success:     true,
		Data:        data,
		Stats:       stats,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
	})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
