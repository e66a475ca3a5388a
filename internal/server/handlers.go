package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/alkime/xivix/internal/content"
	"github.com/alkime/xivix/internal/provider"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if !s.bind(c, &req) {
		return
	}

	readability := true
	if req.EnableReadability != nil {
		readability = *req.EnableReadability
	}

	res, err := s.service.Generate(c.Request.Context(), content.GenerateRequest{
		Topic:        req.Topic,
		Style:        req.Style,
		Category:     req.Category,
		Tone:         req.Tone,
		OriginalText: req.OriginalText,
		MediaURL:     req.mediaURL(),
		Readability:  readability,
		APIKey:       req.APIKey,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Title:              res.Title,
		Result:             res.Content,
		Content:            res.Content,
		Hashtags:           res.Hashtags,
		RawLength:          res.RawLength,
		PureTextLength:     res.PureTextLength,
		Style:              res.Style,
		Category:           res.Category,
		Tone:               res.Tone,
		ReadabilityApplied: res.ReadabilityApplied,
	})
}

func (s *Server) handleTransform(c *gin.Context) {
	var req transformRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := s.service.Transform(content.TransformRequest{
		Text:        req.Text,
		Readability: req.EnableReadability,
		MediaURL:    req.MediaURL,
		HTML:        req.HTML,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transformResponse{
		Result:             res.Text,
		EmojiRemoved:       true,
		ReadabilityApplied: res.ReadabilityApplied,
		RawLength:          res.RawLength,
		PureTextLength:     res.PureTextLength,
	})
}

func (s *Server) handleReformat(c *gin.Context) {
	var req reformatRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := s.service.Reformat(req.Text)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reformatResponse{Result: res.Text, ReadabilityApplied: res.ReadabilityApplied})
}

func (s *Server) handleBulkGenerate(c *gin.Context) {
	var req bulkGenerateRequest
	if !s.bind(c, &req) {
		return
	}

	res, err := s.service.BulkGenerate(c.Request.Context(), content.BulkRequest{
		Topics:   req.Topics,
		Style:    req.Style,
		Category: req.Category,
		Tone:     req.Tone,
		APIKey:   req.APIKey,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	items := make([]bulkItem, 0, len(res.Results))
	for _, r := range res.Results {
		items = append(items, bulkItem{
			Topic:    r.Topic,
			Title:    r.Title,
			Content:  r.Content,
			Hashtags: r.Hashtags,
			Success:  r.Success,
			Error:    r.Error,
		})
	}

	c.JSON(http.StatusOK, bulkGenerateResponse{Results: items, Total: res.Total, Success: res.Success})
}

func (s *Server) handleKeywordFinder(c *gin.Context) {
	var req keywordFinderRequest
	if !s.bind(c, &req) {
		return
	}

	result, err := s.service.FindKeywords(c.Request.Context(), req.MainKeyword, req.APIKey)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, keywordFinderResponse{MainKeyword: req.MainKeyword, Result: result})
}

func (s *Server) handleAPIHealth(c *gin.Context) {
	status := s.service.Status()

	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   s.config.AppVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: healthServices{
			Provider:           status.Provider,
			ProviderConfigured: status.ProviderConfigured,
			Pipeline:           status.Pipeline,
		},
	})
}

func (s *Server) bind(c *gin.Context, req any) bool {
	useJSONFieldNames()

	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return false
	}
	return true
}

// respondError maps service errors onto HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		verr *content.ValidationError
		cerr *content.ConfigurationError
		perr *provider.Error
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &cerr):
		c.JSON(http.StatusBadRequest, gin.H{"error": cerr.Error()})
	case errors.Is(err, provider.ErrEmptyResult):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI 응답이 비어있습니다."})
	case errors.As(err, &perr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": perr.Error()})
	default:
		s.logger.Error("Unhandled request error", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI 생성 중 오류가 발생했습니다."})
	}
}
