package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anshuman71/micros/internal/common"
	"github.com/Anshuman71/micros/internal/messages"
	"github.com/Anshuman71/micros/internal/nutrition"
)

type chatMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type userPreferencesReq struct {
	DietOptions []string `json:"dietOptions"`
	Age         string   `json:"age"`
	Gender      string   `json:"gender"`
}

type dietChatReq struct {
	Messages        []chatMessage      `json:"messages"`
	UserPreferences userPreferencesReq `json:"userPreferences"`
	ChatID          string             `json:"chatId"`
	PromptType      string             `json:"promptType"`
}

// DietChat handles one chat turn: rate-check, compose, stream, persist.
func (h *Handler) DietChat(c *gin.Context) {
	var req dietChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Bad request", "invalid json")
		return
	}
	if req.ChatID == "" {
		common.Fail(c, http.StatusBadRequest, "Bad request", "chatId is required")
		return
	}

	identifier := clientIdentifier(c)

	res, err := h.Limiter.Check(c.Request.Context(), identifier)
	if err != nil {
		h.Log.Error("rate limit check failed", "identifier", identifier, "error", err)
		common.Fail(c, http.StatusInternalServerError, "Internal server error",
			"Failed to process your request. Please try again.")
		return
	}

	if !res.Allowed {
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("X-RateLimit-Reset", res.ResetAt.Format(time.RFC3339))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded",
			"message": fmt.Sprintf("You've reached the daily limit of %d messages. Please try again after %s.",
				h.Limiter.Limit(), res.ResetAt.Format(time.Kitchen)),
			"resetAt": res.ResetAt.Format(time.RFC3339),
		})
		return
	}

	prefs := nutrition.UserPreferences{
		DietOptions: req.UserPreferences.DietOptions,
		Age:         req.UserPreferences.Age,
		Gender:      req.UserPreferences.Gender,
		Hints:       geoHints(c),
	}

	pt := nutrition.PromptFollowUp
	if req.PromptType != "" {
		pt = nutrition.PromptType(req.PromptType)
	}

	history := make([]messages.StoredMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role != messages.RoleUser && m.Role != messages.RoleAssistant {
			continue
		}
		history = append(history, messages.StoredMessage{ID: m.ID, Role: m.Role, Content: m.Content})
	}

	ctx := c.Request.Context()
	chunks, errs := h.ChatSvc.StreamReply(ctx, req.ChatID, pt, prefs, history)

	// Hold off the response until the first token so an upstream
	// failure before streaming can still be a plain 500.
	var firstChunk string
	var hasFirst bool
waitFirst:
	for chunks != nil || errs != nil {
		select {
		case c0, ok := <-chunks:
			if !ok {
				// Stream ended without content; the error, if any,
				// is already buffered.
				chunks = nil
				if errs != nil {
					if err, ok := <-errs; ok && err != nil {
						h.Log.Error("generation failed before streaming", "chat_id", req.ChatID, "error", err)
						common.Fail(c, http.StatusInternalServerError, "Internal server error",
							"Failed to process your request. Please try again.")
						return
					}
					errs = nil
				}
				break waitFirst
			}
			firstChunk, hasFirst = c0, true
			break waitFirst
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				h.Log.Error("generation failed before streaming", "chat_id", req.ChatID, "error", err)
				common.Fail(c, http.StatusInternalServerError, "Internal server error",
					"Failed to process your request. Please try again.")
				return
			}
		case <-ctx.Done():
			return
		}
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	c.Header("X-RateLimit-Reset", res.ResetAt.Format(time.RFC3339))
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"streaming not supported\"}\n\n")
		return
	}

	writeEvent := func(event string, payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(b))
		flusher.Flush()
	}

	if hasFirst {
		writeEvent("chunk", gin.H{"type": "chunk", "delta": firstChunk})
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for chunks != nil || errs != nil {
		select {
		case ch, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			writeEvent("chunk", gin.H{"type": "chunk", "delta": ch})

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				h.Log.Error("generation failed mid-stream", "chat_id", req.ChatID, "error", err)
				writeEvent("error", gin.H{"type": "error", "message": "generation failed"})
				return
			}

		case <-ticker.C:
			writeEvent("ping", gin.H{"type": "ping", "ts": time.Now().Unix()})

		case <-ctx.Done():
			return
		}
	}

	writeEvent("done", gin.H{"type": "done"})
}

// clientIdentifier partitions the daily quota: first X-Forwarded-For
// entry when present, otherwise the literal "unknown".
func clientIdentifier(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return "unknown"
}

// geoHints reads the coarse geolocation headers the edge proxy sets.
func geoHints(c *gin.Context) nutrition.RequestHints {
	hints := nutrition.RequestHints{City: "Unknown", Country: "Unknown"}
	if city := c.GetHeader("X-Vercel-IP-City"); city != "" {
		hints.City = city
	}
	if country := c.GetHeader("X-Vercel-IP-Country"); country != "" {
		hints.Country = country
	}
	if v, err := strconv.ParseFloat(c.GetHeader("X-Vercel-IP-Longitude"), 64); err == nil {
		hints.Longitude = v
	}
	if v, err := strconv.ParseFloat(c.GetHeader("X-Vercel-IP-Latitude"), 64); err == nil {
		hints.Latitude = v
	}
	return hints
}
