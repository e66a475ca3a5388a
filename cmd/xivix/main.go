package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alkime/xivix/internal/content"
	"github.com/alkime/xivix/internal/keyring"
	"github.com/alkime/xivix/internal/postformat"
	"github.com/alkime/xivix/internal/provider"
)

// CLI defines the xivix command structure.
type CLI struct {
	Transform TransformCmd `cmd:"" help:"Strip emoji and format text for the Naver editor"`
	Reformat  ReformatCmd  `cmd:"" help:"Re-apply readability spacing and guides to formatted text"`
	Generate  GenerateCmd  `cmd:"" help:"Generate a formatted post for a topic"`
	Bulk      BulkCmd      `cmd:"" help:"Generate one post per topic"`
	Keywords  KeywordsCmd  `cmd:"" help:"Ask the provider for keyword research"`
	Config    ConfigCmd    `cmd:"" help:"Manage configuration"`
}

// PipelineFlags select the formatting preset.
type PipelineFlags struct {
	Preset string `flag:"" default:"classic" enum:"classic,modern" env:"PIPELINE_PRESET" help:"Formatting preset (classic or modern)"`
	Seed   uint64 `flag:"" help:"Seed for randomized grouping; enables randomized grouping when non-zero"`
}

func (f PipelineFlags) pipeline() (*postformat.Pipeline, error) {
	cfg, err := postformat.ParsePreset(f.Preset)
	if err != nil {
		return nil, err
	}
	if f.Seed != 0 {
		cfg.Randomized = true
		cfg.Seed = f.Seed
	}
	return postformat.New(cfg), nil
}

// ProviderFlags select and authenticate the generative provider.
type ProviderFlags struct {
	Provider string        `flag:"" default:"gemini" enum:"gemini,anthropic,openai" env:"PROVIDER" help:"Provider backend"`
	Model    string        `flag:"" env:"PROVIDER_MODEL" help:"Model override"`
	APIKey   string        `flag:"" name:"api-key" env:"XIVIX_API_KEY" help:"API key (defaults to the provider's env var, then the keychain)"`
	Timeout  time.Duration `flag:"" default:"90s" help:"Timeout per provider call"`
}

var providerEnv = map[provider.Kind]string{
	provider.KindGemini:    "GEMINI_API_KEY",
	provider.KindAnthropic: "ANTHROPIC_API_KEY",
	provider.KindOpenAI:    "OPENAI_API_KEY",
}

// apiKey resolves the credential: flag, provider env var, then keychain.
func (f ProviderFlags) apiKey(kind provider.Kind) string {
	if f.APIKey != "" {
		return f.APIKey
	}
	if v := os.Getenv(providerEnv[kind]); v != "" {
		return v
	}
	secret, err := keyring.Get(keyring.ForProvider(kind))
	if err != nil {
		slog.Debug("keychain lookup failed", "key", kind, "error", err)
		return ""
	}
	return secret
}

func (f ProviderFlags) service(p PipelineFlags) (*content.Service, error) {
	kind, err := provider.ParseKind(f.Provider)
	if err != nil {
		return nil, err
	}

	pipeline, err := p.pipeline()
	if err != nil {
		return nil, err
	}

	key := f.apiKey(kind)
	if key == "" {
		return nil, fmt.Errorf("missing %s API key: set %s or run 'xivix config set-key %s <key>'",
			kind.DisplayName(), providerEnv[kind], kind)
	}

	return content.NewService(content.Options{
		Kind:       kind,
		Factory:    provider.NewFactory(kind, f.Model),
		APIKey:     key,
		Timeout:    f.Timeout,
		Pipeline:   pipeline,
		PresetName: p.Preset,
	}), nil
}

// readInput reads a file, or stdin when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printLengths(res postformat.Result) {
	slog.Info("Formatted", "raw_length", res.RawLength, "pure_text_length", res.PureTextLength)
}

// TransformCmd formats text without calling a provider.
type TransformCmd struct {
	PipelineFlags `embed:""`

	File        string `arg:"" optional:"" help:"Input file (stdin when omitted)"`
	Readability bool   `flag:"" help:"Apply readability spacing"`
	MediaURL    string `flag:"" name:"media-url" help:"Media URL for the video guide"`
	HTML        bool   `flag:"" name:"html" help:"Treat input as editor HTML"`
}

// Run executes the transform command.
func (c *TransformCmd) Run() error {
	text, err := readInput(c.File)
	if err != nil {
		return err
	}

	pipeline, err := c.pipeline()
	if err != nil {
		return err
	}

	svc := content.NewService(content.Options{Pipeline: pipeline, PresetName: c.Preset})
	res, err := svc.Transform(content.TransformRequest{
		Text:        text,
		Readability: c.Readability,
		MediaURL:    c.MediaURL,
		HTML:        c.HTML,
	})
	if err != nil {
		return err
	}

	fmt.Println(res.Text)
	printLengths(res)

	return nil
}

// ReformatCmd re-applies spacing and guides.
type ReformatCmd struct {
	PipelineFlags `embed:""`

	File string `arg:"" optional:"" help:"Input file (stdin when omitted)"`
}

// Run executes the reformat command.
func (c *ReformatCmd) Run() error {
	text, err := readInput(c.File)
	if err != nil {
		return err
	}

	pipeline, err := c.pipeline()
	if err != nil {
		return err
	}

	res := pipeline.Reformat(text)
	fmt.Println(res.Text)
	printLengths(res)

	return nil
}

// GenerateCmd generates a single post.
type GenerateCmd struct {
	PipelineFlags `embed:""`
	ProviderFlags `embed:""`

	Topic         string `arg:"" optional:"" help:"Post topic"`
	Style         string `flag:"" default:"A" enum:"A,B,C" help:"Writing style (A expert, B friendly, C practical)"`
	Category      string `flag:"" default:"info" help:"Post category (info, review, howto, compare, rewrite)"`
	Tone          string `flag:"" default:"professional" help:"Tone (professional, friendly, casual, persuasive)"`
	Original      string `flag:"" type:"existingfile" help:"Original text file for the rewrite category"`
	MediaURL      string `flag:"" name:"media-url" help:"Media URL for the video guide"`
	NoReadability bool   `flag:"" help:"Skip readability spacing"`
}

// Run executes the generate command.
func (c *GenerateCmd) Run() error {
	svc, err := c.service(c.PipelineFlags)
	if err != nil {
		return err
	}

	var original string
	if c.Original != "" {
		if original, err = readInput(c.Original); err != nil {
			return err
		}
	}

	res, err := svc.Generate(context.Background(), content.GenerateRequest{
		Topic:        c.Topic,
		Style:        c.Style,
		Category:     c.Category,
		Tone:         c.Tone,
		OriginalText: original,
		MediaURL:     c.MediaURL,
		Readability:  !c.NoReadability,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n%s\n\n%s\n", res.Title, res.Content, res.Hashtags)
	slog.Info("Generated", "style", res.Style, "category", res.Category, "tone", res.Tone,
		"raw_length", res.RawLength, "pure_text_length", res.PureTextLength)

	return nil
}

// BulkCmd generates posts for several topics in sequence.
type BulkCmd struct {
	PipelineFlags `embed:""`
	ProviderFlags `embed:""`

	Topics   []string `arg:"" help:"Topics (at most 10)"`
	Style    string   `flag:"" default:"A" enum:"A,B,C" help:"Writing style"`
	Category string   `flag:"" default:"info" help:"Post category"`
	Tone     string   `flag:"" default:"professional" help:"Tone"`
}

// Run executes the bulk command.
func (c *BulkCmd) Run() error {
	svc, err := c.service(c.PipelineFlags)
	if err != nil {
		return err
	}

	res, err := svc.BulkGenerate(context.Background(), content.BulkRequest{
		Topics:   c.Topics,
		Style:    c.Style,
		Category: c.Category,
		Tone:     c.Tone,
	})
	if err != nil {
		return err
	}

	for _, item := range res.Results {
		fmt.Printf("===== %s =====\n", item.Topic)
		if !item.Success {
			fmt.Printf("failed: %s\n\n", item.Error)
			continue
		}
		fmt.Printf("%s\n\n%s\n\n%s\n\n", item.Title, item.Content, item.Hashtags)
	}
	slog.Info("Bulk generation finished", "total", res.Total, "success", res.Success)

	if res.Success == 0 {
		return errors.New("every topic failed")
	}
	return nil
}

// KeywordsCmd runs keyword research for a main keyword.
type KeywordsCmd struct {
	ProviderFlags `embed:""`

	Keyword string `arg:"" help:"Main keyword"`
}

// Run executes the keywords command.
func (c *KeywordsCmd) Run() error {
	svc, err := c.service(PipelineFlags{Preset: postformat.PresetNameClassic})
	if err != nil {
		return err
	}

	result, err := svc.FindKeywords(context.Background(), c.Keyword, "")
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"gemini,anthropic,openai" help:"Service name (gemini, anthropic or openai)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
		}
	}

	return nil
}

func main() {
	// Logs go to stderr so formatted text on stdout can be piped
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("xivix"),
		kong.Description("Generate and format blog posts for the Naver editor."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
