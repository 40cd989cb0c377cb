package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct{}

func NewSEOHandler() *SEOHandler {
	return &SEOHandler{}
}

// 内部门户，禁止所有爬虫
const robotsTxt = `User-agent: *
Disallow: /
`

func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, robotsTxt)
}
