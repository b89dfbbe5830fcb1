package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"healthmate-be/internal/constant"
	"healthmate-be/pkg/llm"
)

var (
	keywordPattern   = regexp.MustCompile(`\(([^()]+)\)`)
	separatorPattern = regexp.MustCompile(`[,;、；\n]+`)
)

// ParseKeywords extracts the parenthesized keywords from a model reply.
// When the model ignored the requested format, it falls back to splitting
// on common separators so a sloppy reply still yields usable terms.
func ParseKeywords(raw string) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(k string) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keywords = append(keywords, k)
	}

	for _, m := range keywordPattern.FindAllStringSubmatch(raw, -1) {
		add(m[1])
	}
	if len(keywords) > 0 {
		return keywords
	}

	for _, tok := range separatorPattern.Split(raw, -1) {
		add(tok)
	}
	return keywords
}

func (s *advisorService) llmContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.llmTimeout)
}

// deriveKeywords maps a free-text question to effect keywords. A model
// failure degrades to an empty list; the caller proceeds with an empty
// candidate pool rather than failing the round.
func (s *advisorService) deriveKeywords(ctx context.Context, question string) []string {
	cctx, cancel := s.llmContext(ctx)
	defer cancel()

	raw, err := s.llmProvider.Chat(cctx, []llm.Message{
		{Role: "system", Content: constant.KeywordSystemPrompt},
		{Role: "user", Content: "User question: " + question},
	}, llm.WithTemperature(0), llm.WithMaxTokens(300))
	if err != nil {
		s.logger.Warn("advisor", "keyword derivation failed, continuing without keywords", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return ParseKeywords(raw)
}

// composeAnswer renders the final recommendation text. The internal
// retrieval artifacts are handed to the model as labeled sections; on
// failure a fixed apology is returned so the round still completes.
func (s *advisorService) composeAnswer(ctx context.Context, question string, keywords, recipes, subgraphs []string) string {
	cctx, cancel := s.llmContext(ctx)
	defer cancel()

	var b strings.Builder
	fmt.Fprintf(&b, "[User question]\n%s\n\n", question)
	fmt.Fprintf(&b, "[Internal keywords, never reveal]\n%s\n\n", strings.Join(keywords, ", "))
	fmt.Fprintf(&b, "[Recommended recipes]\n%s\n\n", strings.Join(recipes, "\n"))
	fmt.Fprintf(&b, "[Knowledge graph]\n%s\n", strings.Join(subgraphs, "\n\n"))

	answer, err := s.llmProvider.Chat(cctx, []llm.Message{
		{Role: "system", Content: constant.AnswerSystemPrompt},
		{Role: "user", Content: b.String()},
	}, llm.WithTemperature(0.2), llm.WithMaxTokens(1500))
	if err != nil {
		s.logger.Error("advisor", "answer composition failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.AnswerFailureFallback
	}
	return answer
}

// chaseAnswer answers a follow-up grounded in the previous round's answer.
func (s *advisorService) chaseAnswer(ctx context.Context, previousAnswer, question string) string {
	cctx, cancel := s.llmContext(ctx)
	defer cancel()

	content := fmt.Sprintf("[Previous answer]\n%s\n\n[Follow-up question]\n%s", previousAnswer, question)
	answer, err := s.llmProvider.Chat(cctx, []llm.Message{
		{Role: "system", Content: constant.ChaseSystemPrompt},
		{Role: "user", Content: content},
	}, llm.WithTemperature(0.2), llm.WithMaxTokens(1200))
	if err != nil {
		s.logger.Error("advisor", "chase answer failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.ChaseFailureFallback
	}
	return answer
}

// wantsMoreRecommendations classifies a follow-up: true means the user is
// asking for additional recipes, false means they want an explanation of
// the current ones. Any failure defaults to the conservative chase path.
func (s *advisorService) wantsMoreRecommendations(ctx context.Context, question string) bool {
	cctx, cancel := s.llmContext(ctx)
	defer cancel()

	raw, err := s.llmProvider.Chat(cctx, []llm.Message{
		{Role: "system", Content: constant.IntentSystemPrompt},
		{Role: "user", Content: question},
	}, llm.WithTemperature(0), llm.WithMaxTokens(10))
	if err != nil {
		s.logger.Warn("advisor", "intent classification failed, defaulting to chase", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func (s *advisorService) translateToEnglish(ctx context.Context, text string) string {
	cctx, cancel := s.llmContext(ctx)
	defer cancel()

	out, err := s.llmProvider.Chat(cctx, []llm.Message{
		{Role: "system", Content: constant.TranslationSystemPrompt},
		{Role: "user", Content: text},
	}, llm.WithTemperature(0), llm.WithMaxTokens(1500))
	if err != nil {
		s.logger.Error("advisor", "translation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.TranslationFailureFallback
	}
	return out
}
