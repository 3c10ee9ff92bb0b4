package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jetmil/dreamcapture/apperrors"
	"github.com/jetmil/dreamcapture/config"
)

// ModerationResult reports whether a text was flagged and which categories
// triggered it.
type ModerationResult struct {
	Flagged    bool
	Categories []string
}

// ModerationService checks user text against the moderation capability.
// It fails open: when the capability is absent or errors, content is treated
// as safe rather than blocking the creation path.
type ModerationService interface {
	CheckText(ctx context.Context, text string) ModerationResult
	ViolationError(result ModerationResult) error
}

type moderationService struct {
	client *openai.Client
}

// NewModerationService creates the moderation boundary from configuration.
func NewModerationService(cfg config.AIConfig) ModerationService {
	s := &moderationService{}
	if cfg.Enabled && cfg.APIKey != "" {
		openaiConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			openaiConfig.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(openaiConfig)
	} else {
		log.Println("INFO: [ModerationService] Moderation capability disabled. All content passes.")
	}
	return s
}

// CheckText runs the moderation endpoint over the text. Empty text, an absent
// client, and upstream errors all yield an unflagged result.
func (s *moderationService) CheckText(ctx context.Context, text string) ModerationResult {
	if s.client == nil || text == "" {
		return ModerationResult{}
	}

	resp, err := s.client.Moderations(ctx, openai.ModerationRequest{Input: text})
	if err != nil {
		// Fail open: never block content on an upstream error.
		log.Printf("ERROR: [ModerationService] Moderation call failed: %v. Failing open.", err)
		return ModerationResult{}
	}
	if len(resp.Results) == 0 {
		return ModerationResult{}
	}

	result := resp.Results[0]
	if !result.Flagged {
		return ModerationResult{}
	}

	return ModerationResult{
		Flagged:    true,
		Categories: flaggedCategories(result.Categories),
	}
}

// ViolationError builds the ContentRejected error surfaced to the caller,
// with a human-readable category list.
func (s *moderationService) ViolationError(result ModerationResult) error {
	if !result.Flagged {
		return nil
	}
	readable := make([]string, 0, len(result.Categories))
	for _, cat := range result.Categories {
		if msg, ok := categoryMessages[cat]; ok {
			readable = append(readable, msg)
		} else {
			readable = append(readable, cat)
		}
	}
	msg := fmt.Sprintf("Content contains prohibited material: %s", strings.Join(readable, ", "))
	return apperrors.NewContentRejected(msg, result.Categories)
}

var categoryMessages = map[string]string{
	"sexual":                 "sexual content",
	"sexual/minors":          "material involving minors",
	"hate":                   "hate speech",
	"hate/threatening":       "threats and violence",
	"harassment":             "harassment or bullying",
	"harassment/threatening": "threats and intimidation",
	"self-harm":              "content promoting self-harm",
	"self-harm/intent":       "intent of self-harm",
	"self-harm/instructions": "self-harm instructions",
	"violence":               "violence",
	"violence/graphic":       "graphic violence",
}

// flaggedCategories maps the fixed-field category struct into the list of
// flagged category names.
func flaggedCategories(c openai.ResultCategories) []string {
	var out []string
	checks := []struct {
		name    string
		flagged bool
	}{
		{"sexual", c.Sexual},
		{"sexual/minors", c.SexualMinors},
		{"hate", c.Hate},
		{"hate/threatening", c.HateThreatening},
		{"harassment", c.Harassment},
		{"harassment/threatening", c.HarassmentThreatening},
		{"self-harm", c.SelfHarm},
		{"self-harm/intent", c.SelfHarmIntent},
		{"self-harm/instructions", c.SelfHarmInstructions},
		{"violence", c.Violence},
		{"violence/graphic", c.ViolenceGraphic},
	}
	for _, check := range checks {
		if check.flagged {
			out = append(out, check.name)
		}
	}
	return out
}
