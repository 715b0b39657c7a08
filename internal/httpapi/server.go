// Package httpapi exposes the compliance pipeline and the chat assistant
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aiact/internal/domain"
	"aiact/internal/pipeline"
	"aiact/internal/risk"
	"aiact/internal/service"
)

// Analyzer runs the compliance pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req pipeline.Request) (pipeline.Outcome, error)
}

// Chatter is the chat assistant with per-session history.
type Chatter interface {
	Reply(ctx context.Context, sessionID, message string) (service.ChatReply, error)
	History(ctx context.Context, sessionID string) ([]domain.Message, error)
	DeleteSession(ctx context.Context, sessionID string) (bool, error)
	Sessions(ctx context.Context) ([]string, error)
}

type Server struct {
	analyzer  Analyzer
	chat      Chatter
	maxLength int
	logger    *zap.Logger
}

// NewRouter builds the gin engine. maxLength applies when a request does
// not carry its own max_length.
func NewRouter(analyzer Analyzer, chat Chatter, maxLength int, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{analyzer: analyzer, chat: chat, maxLength: maxLength, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(logger))
	r.GET("/healthz", s.healthz)
	r.POST("/chat/aiact", s.postAiact)
	r.POST("/chat", s.postChat)
	r.GET("/history/:session_id", s.getHistory)
	r.DELETE("/history/:session_id", s.deleteHistory)
	r.GET("/sessions", s.getSessions)
	return r
}

type aiactRequest struct {
	ProjectDescription string `json:"project_description" binding:"required"`
	MaxLength          int    `json:"max_length" binding:"gte=0"`
}

type aiactResponse struct {
	domain.AiactResult
	RiskCategory risk.Category `json:"risk_category"`
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) postAiact(c *gin.Context) {
	var req aiactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.MaxLength == 0 {
		req.MaxLength = s.maxLength
	}
	out, err := s.analyzer.Analyze(c.Request.Context(), pipeline.Request{
		ProjectDescription: req.ProjectDescription,
		MaxLength:          req.MaxLength,
	})
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, pipeline.ErrEmptyDescription) || errors.Is(err, pipeline.ErrDescriptionTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to generate compliance guide"})
		return
	}
	c.JSON(http.StatusOK, aiactResponse{
		AiactResult:  out.Result,
		RiskCategory: risk.Detect(out.Result.RiskLevel),
	})
}

func (s *Server) postChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	reply, err := s.chat.Reply(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to generate reply"})
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) getHistory(c *gin.Context) {
	id := c.Param("session_id")
	history, err := s.chat.History(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if history == nil {
		history = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "history": history})
}

func (s *Server) deleteHistory(c *gin.Context) {
	id := c.Param("session_id")
	ok, err := s.chat.DeleteSession(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

func (s *Server) getSessions(c *gin.Context) {
	ids, err := s.chat.Sessions(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": ids})
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
}
