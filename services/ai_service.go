package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/models"
)

// ResonanceResult is a score/explanation tuple produced by the scorer or by
// the LLM refinement step.
type ResonanceResult struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// AIService is the enrichment capability boundary. Every operation is safe to
// call with the upstream capability absent: analysis operations return
// deterministic fallbacks, refinement and image generation return an error or
// empty result that callers degrade from. Nothing here ever blocks the
// synchronous creation path.
type AIService interface {
	AnalyzeDream(ctx context.Context, description string) *models.DreamAnalysis
	AnalyzeMoment(ctx context.Context, caption, mediaType string) []string
	GenerateImage(ctx context.Context, visualPrompt, dreamTitle string) string
	RefineResonance(ctx context.Context, analysis *models.DreamAnalysis, momentTags []string, momentCaption string) (*ResonanceResult, error)
	Available() bool
}

type aiService struct {
	client *openai.Client
	cfg    config.AIConfig
}

// NewAIService creates the AI capability client from configuration.
// Constructed once at process start and injected; when disabled or keyless,
// the client stays nil and every call takes its fallback path.
func NewAIService(cfg config.AIConfig) AIService {
	s := &aiService{cfg: cfg}
	if cfg.Enabled && cfg.APIKey != "" {
		openaiConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			openaiConfig.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(openaiConfig)
		log.Printf("INFO: [AIService] AI capability enabled (analysis model '%s', image model '%s').", cfg.AnalysisModel, cfg.ImageModel)
	} else {
		log.Println("INFO: [AIService] AI capability disabled. Deterministic fallbacks will be used.")
	}
	return s
}

// Available reports whether the upstream capability is configured.
func (s *aiService) Available() bool {
	return s.client != nil
}

const dreamAnalysisPrompt = `You are a dream interpreter for an entertainment service. Analyze the dream below and return JSON only, with this exact shape:
{
  "themes": ["..."],
  "emotions": ["..."],
  "symbols": ["..."],
  "narrative": "...",
  "tags": ["..."],
  "visual_prompt": "..."
}

themes: 3 plain-language themes. emotions: 3 vivid but simple emotions.
symbols: 4-5 concrete images from the dream with their meaning.
narrative: 2-3 warm, evocative sentences about what the dream says.
tags: 5 short searchable tags.
visual_prompt: an English prompt for image generation. No violence, blood,
death or gloom; only dreamy, surreal, ethereal, peaceful imagery.

DREAM: %s`

// AnalyzeDream extracts themes, emotions, symbols, a narrative, matching tags
// and a visual prompt from a dream description. Any upstream failure degrades
// to the deterministic fallback analysis; this never returns an error.
func (s *aiService) AnalyzeDream(ctx context.Context, description string) *models.DreamAnalysis {
	if s.client == nil {
		return fallbackDreamAnalysis(description)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.AnalysisModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(dreamAnalysisPrompt, description)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: 1024,
	})
	if err != nil {
		log.Printf("ERROR: [AIService] Dream analysis call failed: %v. Using fallback analysis.", err)
		return fallbackDreamAnalysis(description)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Println("WARN: [AIService] Dream analysis returned no content. Using fallback analysis.")
		return fallbackDreamAnalysis(description)
	}

	var analysis models.DreamAnalysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		log.Printf("ERROR: [AIService] Failed to parse dream analysis JSON: %v. Using fallback analysis.", err)
		return fallbackDreamAnalysis(description)
	}
	log.Printf("INFO: [AIService] Dream analysis complete (%d tags).", len(analysis.Tags))
	return &analysis
}

// AnalyzeMoment produces lightweight matching tags for a moment. This is pure
// keyword extraction, deterministic by design so moments get stable tags with
// or without the upstream capability.
func (s *aiService) AnalyzeMoment(ctx context.Context, caption, mediaType string) []string {
	if caption == "" {
		return []string{mediaType, "moment", "now"}
	}
	tags := extractKeywords(caption, 3, 5)
	tags = append(tags, mediaType, "moment")
	return tags
}

// GenerateImage renders the visual prompt and persists the artifact into the
// configured upload directory, because upstream image URLs expire shortly
// after generation. Returns "" on any failure.
func (s *aiService) GenerateImage(ctx context.Context, visualPrompt, dreamTitle string) string {
	if s.client == nil {
		return ""
	}

	enhanced := fmt.Sprintf("Dreamlike surreal artwork: %s. Ethereal, soft focus, mystical atmosphere, artistic interpretation.", visualPrompt)
	if dreamTitle != "" {
		enhanced = dreamTitle + " - " + enhanced
	}
	if len(enhanced) > 4000 {
		enhanced = enhanced[:4000]
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:   s.cfg.ImageModel,
		Prompt:  enhanced,
		Size:    openai.CreateImageSize1024x1024,
		Quality: openai.CreateImageQualityStandard,
		N:       1,
	})
	if err != nil {
		log.Printf("ERROR: [AIService] Image generation failed: %v", err)
		return ""
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		log.Println("WARN: [AIService] Image generation returned no data.")
		return ""
	}

	localURL, err := s.downloadAndSaveImage(ctx, resp.Data[0].URL)
	if err != nil {
		log.Printf("ERROR: [AIService] Failed to persist generated image: %v. Falling back to upstream URL.", err)
		return resp.Data[0].URL
	}
	return localURL
}

// downloadAndSaveImage fetches the upstream artifact and writes it under the
// upload directory, returning the served path.
func (s *aiService) downloadAndSaveImage(ctx context.Context, imageURL string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory '%s': %w", s.cfg.UploadDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download generated image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d downloading generated image", resp.StatusCode)
	}

	filename := fmt.Sprintf("dream_%s_%s.png", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(s.cfg.UploadDir, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file '%s': %w", path, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write image file '%s': %w", path, err)
	}

	localURL := "/uploads/dreams/" + filename
	log.Printf("INFO: [AIService] Generated image saved locally: %s", localURL)
	return localURL, nil
}

const resonanceRefinePrompt = `Analyze resonance between a dream and a moment:

Dream themes: %s
Dream emotions: %s
Dream tags: %s

Moment caption: %s
Moment tags: %s

Provide JSON:
{
  "score": 0-100,
  "explanation": "poetic one-sentence explanation of connection"
}`

// RefineResonance asks the LLM for a replacement score/explanation tuple.
// Returns an error when the capability is absent or the call fails; the
// caller keeps its deterministic base tuple in that case.
func (s *aiService) RefineResonance(ctx context.Context, analysis *models.DreamAnalysis, momentTags []string, momentCaption string) (*ResonanceResult, error) {
	if s.client == nil {
		return nil, apperrors.NewEnrichmentUnavailable("AI capability not configured")
	}

	prompt := fmt.Sprintf(resonanceRefinePrompt,
		strings.Join(analysis.Themes, ", "),
		strings.Join(analysis.Emotions, ", "),
		strings.Join(analysis.Tags, ", "),
		momentCaption,
		strings.Join(momentTags, ", "),
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.RefineModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: 256,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("resonance refinement call failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, apperrors.NewUpstreamFailure("resonance refinement returned no content", nil)
	}

	var result ResonanceResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, apperrors.NewUpstreamFailure("resonance refinement returned malformed JSON", err)
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return &result, nil
}

// fallbackDreamAnalysis is the deterministic analysis used whenever the
// upstream capability is absent or fails. Same input, same output.
func fallbackDreamAnalysis(description string) *models.DreamAnalysis {
	tags := extractKeywords(description, 4, 5)

	symbols := tags
	if len(symbols) > 3 {
		symbols = symbols[:3]
	}
	if len(symbols) == 0 {
		symbols = []string{"dream", "night", "mystery"}
	}

	narrative := description
	if len(narrative) > 100 {
		narrative = narrative[:100] + "..."
	}

	finalTags := tags
	if len(finalTags) == 0 {
		finalTags = []string{"dream", "sleep", "night"}
	}

	visualPrompt := description
	if len(visualPrompt) > 200 {
		visualPrompt = visualPrompt[:200]
	}

	return &models.DreamAnalysis{
		Themes:       []string{"journey", "transformation"},
		Emotions:     []string{"curiosity", "wonder"},
		Symbols:      symbols,
		Narrative:    narrative,
		Tags:         finalTags,
		VisualPrompt: visualPrompt,
	}
}
