package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Anshuman71/micros/internal/ai"
	"github.com/Anshuman71/micros/internal/chat"
	"github.com/Anshuman71/micros/internal/common"
	"github.com/Anshuman71/micros/internal/config"
	"github.com/Anshuman71/micros/internal/logger"
	"github.com/Anshuman71/micros/internal/messages"
	"github.com/Anshuman71/micros/internal/ratelimit"
	"github.com/Anshuman71/micros/internal/store/redisstore"
)

type Handler struct {
	Cfg      config.Config
	Log      *logger.Logger
	Limiter  *ratelimit.Limiter
	Messages *messages.Store
	ChatSvc  *chat.Service
}

func NewHandler(cfg config.Config, log *logger.Logger, store *redisstore.Store, reg *ai.Registry) (*Handler, error) {
	provider, err := reg.Get(cfg.AIProvider, cfg.OpenAIModel)
	if err != nil {
		return nil, err
	}

	msgStore := messages.NewStore(store, log)

	return &Handler{
		Cfg:      cfg,
		Log:      log,
		Limiter:  ratelimit.NewLimiter(store, cfg.DailyChatLimit),
		Messages: msgStore,
		ChatSvc:  chat.NewService(provider, msgStore, log),
	}, nil
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"message": "pong"})
}
