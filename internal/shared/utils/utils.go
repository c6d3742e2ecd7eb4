package utils

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// UnmarshalTask decodes the JSON payload of an asynq task.
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if len(t.Payload()) == 0 {
		return fmt.Errorf("task %s has empty payload", t.Type())
	}
	return json.Unmarshal(t.Payload(), dest)
}

// ExtractClientIP returns the caller address, preferring the first
// X-Forwarded-For hop, then X-Real-IP, then the socket address.
func ExtractClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	if net.ParseIP(host) != nil {
		return host
	}
	return ""
}
