package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalTask(t *testing.T) {
	var dest struct {
		OrderID int64 `json:"order_id"`
	}
	require.NoError(t, UnmarshalTask(asynq.NewTask("x", []byte(`{"order_id":12}`)), &dest))
	assert.Equal(t, int64(12), dest.OrderID)

	assert.Error(t, UnmarshalTask(asynq.NewTask("x", nil), &dest))
}

func TestExtractClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"garbage header falls back", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1:80", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.9", "192.0.2.9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ExtractClientIP(c))
		})
	}
}
