package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type generateRequest struct {
	Topic             string `json:"topic" binding:"max=200"`
	Style             string `json:"style" binding:"max=8"`
	Category          string `json:"category" binding:"max=32"`
	Tone              string `json:"tone" binding:"max=32"`
	OriginalText      string `json:"originalText" binding:"max=20000"`
	YouTubeURL        string `json:"youtubeUrl" binding:"omitempty,url"`
	MediaURL          string `json:"mediaUrl" binding:"omitempty,url"`
	EnableReadability *bool  `json:"enableReadability"`
	APIKey            string `json:"apiKey" binding:"max=256"`
}

// mediaURL prefers the YouTube link, then the generic media link.
func (r generateRequest) mediaURL() string {
	if r.YouTubeURL != "" {
		return r.YouTubeURL
	}
	return r.MediaURL
}

type transformRequest struct {
	Text              string `json:"text" binding:"required,max=50000"`
	EnableReadability bool   `json:"enableReadability"`
	MediaURL          string `json:"mediaUrl" binding:"omitempty,url"`
	HTML              bool   `json:"html"`
}

type reformatRequest struct {
	Text string `json:"text" binding:"required,max=50000"`
}

type bulkGenerateRequest struct {
	Topics   []string `json:"topics" binding:"dive,max=200"`
	Style    string   `json:"style" binding:"max=8"`
	Category string   `json:"category" binding:"max=32"`
	Tone     string   `json:"tone" binding:"max=32"`
	APIKey   string   `json:"apiKey" binding:"max=256"`
}

type keywordFinderRequest struct {
	MainKeyword string `json:"mainKeyword" binding:"max=100"`
	APIKey      string `json:"apiKey" binding:"max=256"`
}

type generateResponse struct {
	Title              string `json:"title"`
	Result             string `json:"result"`
	Content            string `json:"content"`
	Hashtags           string `json:"hashtags"`
	RawLength          int    `json:"rawLength"`
	PureTextLength     int    `json:"pureTextLength"`
	Style              string `json:"style"`
	Category           string `json:"category"`
	Tone               string `json:"tone"`
	ReadabilityApplied bool   `json:"readabilityApplied"`
}

type transformResponse struct {
	Result             string `json:"result"`
	EmojiRemoved       bool   `json:"emojiRemoved"`
	ReadabilityApplied bool   `json:"readabilityApplied"`
	RawLength          int    `json:"rawLength"`
	PureTextLength     int    `json:"pureTextLength"`
}

type reformatResponse struct {
	Result             string `json:"result"`
	ReadabilityApplied bool   `json:"readabilityApplied"`
}

type bulkItem struct {
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Hashtags string `json:"hashtags"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type bulkGenerateResponse struct {
	Results []bulkItem `json:"results"`
	Total   int        `json:"total"`
	Success int        `json:"success"`
}

type keywordFinderResponse struct {
	MainKeyword string `json:"mainKeyword"`
	Result      string `json:"result"`
}

type healthServices struct {
	Provider           string `json:"provider"`
	ProviderConfigured bool   `json:"providerConfigured"`
	Pipeline           string `json:"pipeline"`
}

type healthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the JSON field name.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindingMessage turns a bind error into a message for the caller.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
