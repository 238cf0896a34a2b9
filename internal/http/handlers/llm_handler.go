// README: Prompt handler: natural-language prompt in, map-enriched answer out.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mapchat/internal/service"
)

// PromptProcessor answers a free-text prompt.
type PromptProcessor interface {
	Process(ctx context.Context, prompt string) (*service.FinalResponse, error)
}

type LLMHandler struct {
	assistant PromptProcessor
}

func NewLLMHandler(assistant PromptProcessor) *LLMHandler {
	return &LLMHandler{assistant: assistant}
}

type llmReq struct {
	Prompt string `json:"prompt"`
}

// Process handles POST /api/llm.
func (h *LLMHandler) Process(c *gin.Context) {
	var req llmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(c, http.StatusBadRequest, "missing prompt")
		return
	}

	resp, err := h.assistant.Process(c.Request.Context(), req.Prompt)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}
