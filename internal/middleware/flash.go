package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flash levels
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

const (
	flashCookieName = "shop_flash"
	flashContextKey = "flash_messages"
)

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// AddFlash queues a message for the next page the client loads, usually
// right after a redirect.
func AddFlash(c *gin.Context, level, text string) {
	messages := append(pendingFlashes(c), FlashMessage{Level: level, Text: text})
	c.Set(flashContextKey, messages)
	writeFlashCookie(c, messages)
}

// ConsumeFlashes returns every queued message and clears the queue.
func ConsumeFlashes(c *gin.Context) []FlashMessage {
	messages := pendingFlashes(c)
	c.Set(flashContextKey, []FlashMessage{})
	if _, err := c.Cookie(flashCookieName); err == nil {
		writeFlashCookie(c, nil)
	} else {
		dropSetCookie(c, flashCookieName)
	}
	return messages
}

func pendingFlashes(c *gin.Context) []FlashMessage {
	if v, ok := c.Get(flashContextKey); ok {
		if messages, ok := v.([]FlashMessage); ok {
			return messages
		}
	}

	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return []FlashMessage{}
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return []FlashMessage{}
	}
	var messages []FlashMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		GetLoggerFromContext(c).Debug("Discarding malformed flash cookie", map[string]interface{}{
			"error": err.Error(),
		})
		return []FlashMessage{}
	}
	return messages
}

func writeFlashCookie(c *gin.Context, messages []FlashMessage) {
	dropSetCookie(c, flashCookieName)

	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	if len(messages) == 0 {
		c.SetCookie(flashCookieName, "", -1, "/", "", secure, true)
		return
	}

	data, err := json.Marshal(messages)
	if err != nil {
		return
	}
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(data), 0, "/", "", secure, true)
}

// dropSetCookie removes a Set-Cookie header written earlier in this response
// so only the latest value for the cookie is sent.
func dropSetCookie(c *gin.Context, name string) {
	header := c.Writer.Header()
	existing := header.Values("Set-Cookie")
	if len(existing) == 0 {
		return
	}
	header.Del("Set-Cookie")
	for _, v := range existing {
		if !strings.HasPrefix(v, name+"=") {
			header.Add("Set-Cookie", v)
		}
	}
}
