package handler

import (
	"github.com/gin-gonic/gin"

	"resursbank-gateway/internal/domains/callback/model"
	"resursbank-gateway/internal/domains/callback/service"
	"resursbank-gateway/internal/shared"
	"resursbank-gateway/pkg/logger"
)

// reserved parameters are consumed by the request itself; everything else lands in Extra.
var reserved = map[string]bool{"c": true, "p": true, "d": true, "r": true, "result": true}

type CallbackHandler struct {
	service service.Service
}

func NewCallbackHandler(svc service.Service) *CallbackHandler {
	return &CallbackHandler{service: svc}
}

// Receive handles a provider callback
// GET/POST /api/v1/callbacks/resurs?c=&p=&d=&r=
func (h *CallbackHandler) Receive(c *gin.Context) {
	req := parseRequest(c)

	result := h.service.Handle(c.Request.Context(), req)

	logger.Debug("callback replied", map[string]interface{}{
		"type":        result.Reply.Actual,
		"outcome":     result.Outcome.String(),
		"http_status": result.HTTPStatus,
		"digest_code": result.Reply.DigestCode,
		"request_id":  c.GetString(shared.ContextRequestID),
	})
	c.JSON(result.HTTPStatus, result.Reply)
}

func parseRequest(c *gin.Context) model.Request {
	req := model.Request{
		Type:      model.Type(param(c, "c")),
		Reference: param(c, "p"),
		Digest:    param(c, "d"),
		Random:    param(c, "r"),
		Result:    param(c, "result"),
		Extra:     map[string]string{},
	}

	for k, v := range c.Request.URL.Query() {
		if !reserved[k] && len(v) > 0 {
			req.Extra[k] = v[0]
		}
	}
	return req
}

// param reads the query string first, then a form body.
func param(c *gin.Context, name string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return c.PostForm(name)
}
