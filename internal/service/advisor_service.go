package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"healthmate-be/internal/constant"
	"healthmate-be/internal/dto"
	"healthmate-be/internal/entity"
	"healthmate-be/internal/pkg/logger"
	"healthmate-be/internal/pkg/serverutils"
	"healthmate-be/internal/pkg/textutil"
	"healthmate-be/internal/repository/contract"
	"healthmate-be/pkg/kg"
	"healthmate-be/pkg/llm"
)

// IAdvisorService defines the recommendation service interface
type IAdvisorService interface {
	// Ask routes a question to the right operation: explicit include/exclude
	// terms run the filter, a follow-up is classified into recommend-more or
	// chase, anything else opens a new round.
	Ask(ctx context.Context, request *dto.QuestionRequest) (*dto.RecommendationResponse, error)
	NewRound(ctx context.Context, conversationID, question string) (*dto.RecommendationResponse, error)
	Chase(ctx context.Context, conversationID, question string) (*dto.ChaseResponse, error)
	RecommendMore(ctx context.Context, conversationID, question string) (*dto.RecommendationResponse, error)
	FilterIncludeExclude(ctx context.Context, conversationID string, include, exclude []string) (*dto.RecommendationResponse, error)
}

// advisorService coordinates retrieval, ranking and answer generation.
// Every public operation serializes on a per-conversation mutex so the
// round counter and the event log stay consistent under concurrent calls.
type advisorService struct {
	store       *kg.Store
	filter      *kg.FilterEngine
	sessionLog  contract.ISessionLogRepository
	snapshots   contract.ISnapshotRepository
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	llmTimeout  time.Duration

	convLocks sync.Map // conversationID -> *sync.Mutex
}

// NewAdvisorService creates a new advisor service
func NewAdvisorService(
	store *kg.Store,
	filter *kg.FilterEngine,
	sessionLog contract.ISessionLogRepository,
	snapshots contract.ISnapshotRepository,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
	llmTimeout time.Duration,
) IAdvisorService {
	if llmTimeout <= 0 {
		llmTimeout = 120 * time.Second
	}
	return &advisorService{
		store:       store,
		filter:      filter,
		sessionLog:  sessionLog,
		snapshots:   snapshots,
		llmProvider: llmProvider,
		logger:      log,
		llmTimeout:  llmTimeout,
	}
}

func (s *advisorService) lockConversation(conversationID string) func() {
	v, _ := s.convLocks.LoadOrStore(conversationID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *advisorService) Ask(ctx context.Context, request *dto.QuestionRequest) (*dto.RecommendationResponse, error) {
	if len(request.Include) > 0 || len(request.Exclude) > 0 {
		return s.FilterIncludeExclude(ctx, request.UserID, request.Include, request.Exclude)
	}
	if request.Question == "" {
		return nil, serverutils.BadRequest("question is required")
	}
	if request.FollowUp {
		if s.wantsMoreRecommendations(ctx, request.Question) {
			return s.RecommendMore(ctx, request.UserID, request.Question)
		}
		chase, err := s.Chase(ctx, request.UserID, request.Question)
		if err != nil {
			return nil, err
		}
		return &dto.RecommendationResponse{Round: chase.Round, Answer: chase.Answer}, nil
	}
	return s.NewRound(ctx, request.UserID, request.Question)
}

func (s *advisorService) NewRound(ctx context.Context, conversationID, question string) (*dto.RecommendationResponse, error) {
	unlock := s.lockConversation(conversationID)
	defer unlock()

	round, err := s.sessionLog.CurrentRound(ctx, conversationID)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	round++

	keywords := s.deriveKeywords(ctx, question)
	base, err := s.filter.SearchByKeywords(keywords)
	if err != nil {
		return nil, serverutils.RetrievalFailure(err)
	}
	pool := kg.RankSubjects(base, constant.CandidatePoolSize)

	top := pool
	if len(top) > constant.RecommendCount {
		top = top[:constant.RecommendCount]
	}
	english := textutil.IsMostlyEnglish(question)
	names, subgraphs := s.presentRecipes(top, english)

	answer := s.composeAnswer(ctx, question, keywords, names, subgraphs)
	if english {
		answer = s.translateToEnglish(ctx, answer)
	}

	if err := s.appendRoundEvents(ctx, conversationID, round, question, keywords, pool, answer); err != nil {
		return nil, serverutils.StorageFailure(err)
	}

	return &dto.RecommendationResponse{
		Round:      round,
		Answer:     answer,
		Keywords:   keywords,
		Presented:  names,
		Candidates: pool,
		Subgraphs:  subgraphs,
	}, nil
}

func (s *advisorService) Chase(ctx context.Context, conversationID, question string) (*dto.ChaseResponse, error) {
	unlock := s.lockConversation(conversationID)
	defer unlock()

	round, err := s.sessionLog.CurrentRound(ctx, conversationID)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if round < 1 {
		return nil, serverutils.NoPriorContext("no previous round to follow up on; ask a new question first")
	}
	answers, err := s.sessionLog.EventsOfKind(ctx, conversationID, round, constant.EventKindAnswer)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if len(answers) == 0 {
		return nil, serverutils.NoPriorContext("the last round has no answer to follow up on")
	}
	previous := answers[len(answers)-1].Content

	answer := s.chaseAnswer(ctx, previous, question)
	if textutil.IsMostlyEnglish(question) {
		answer = s.translateToEnglish(ctx, answer)
	}

	round++
	if err := s.appendRoundEvents(ctx, conversationID, round, question, nil, nil, answer); err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	return &dto.ChaseResponse{Round: round, Answer: answer}, nil
}

func (s *advisorService) RecommendMore(ctx context.Context, conversationID, question string) (*dto.RecommendationResponse, error) {
	unlock := s.lockConversation(conversationID)
	defer unlock()

	round, err := s.sessionLog.CurrentRound(ctx, conversationID)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if round < 1 {
		return nil, serverutils.NoPriorContext("no previous round to extend; ask a new question first")
	}
	candidates, err := s.sessionLog.EventsOfKind(ctx, conversationID, round, constant.EventKindCandidate)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if len(candidates) == 0 {
		return nil, serverutils.NoPriorContext("the last round has no candidate pool to draw from")
	}
	if len(candidates) < constant.MinCandidatesForMore {
		return nil, serverutils.NoPriorContext(
			fmt.Sprintf("only %d candidates remain; at least %d are needed for more recommendations",
				len(candidates), constant.MinCandidatesForMore))
	}
	keywords, _, err := s.sessionLog.MostRecentKeywordsBefore(ctx, conversationID, round)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if len(keywords) == 0 {
		return nil, serverutils.NoPriorContext("no keywords recorded in any previous round")
	}

	next := make([]string, 0, constant.MoreSliceEnd-constant.MoreSliceStart)
	for _, c := range candidates[constant.MoreSliceStart:constant.MoreSliceEnd] {
		next = append(next, c.Content)
	}

	combined := question
	if prior, err := s.mostRecentQuestion(ctx, conversationID, round); err == nil && prior != "" {
		combined = fmt.Sprintf("%s\n(user supplement: %s)", prior, question)
	}

	english := textutil.IsMostlyEnglish(question)
	names, subgraphs := s.presentRecipes(next, english)
	answer := s.composeAnswer(ctx, combined, keywords, names, subgraphs)
	if english {
		answer = s.translateToEnglish(ctx, answer)
	}

	round++
	if err := s.appendRoundEvents(ctx, conversationID, round, question, nil, nil, answer); err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	return &dto.RecommendationResponse{
		Round:     round,
		Answer:    answer,
		Keywords:  keywords,
		Presented: names,
		Subgraphs: subgraphs,
	}, nil
}

func (s *advisorService) FilterIncludeExclude(ctx context.Context, conversationID string, include, exclude []string) (*dto.RecommendationResponse, error) {
	unlock := s.lockConversation(conversationID)
	defer unlock()

	round, err := s.sessionLog.CurrentRound(ctx, conversationID)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if round < 1 {
		return nil, serverutils.NoPriorContext("no previous round to filter; ask a new question first")
	}
	keywords, _, err := s.sessionLog.MostRecentKeywordsBefore(ctx, conversationID, round)
	if err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	if len(keywords) == 0 {
		return nil, serverutils.NoPriorContext("no keywords recorded in any previous round")
	}

	result, err := s.filter.ApplyIncludeExclude(keywords, include, exclude, constant.RecommendCount)
	if err != nil {
		return nil, serverutils.RetrievalFailure(err)
	}
	steps := filterStepsToDTO(result.Steps)

	if result.Exhausted {
		// An empty survivor set is a valid terminal state, not an error.
		// No round is written; the conversation stays where it was.
		step := result.ExhaustedAt
		var msg string
		switch step.Kind {
		case kg.FilterStepInclude:
			msg = fmt.Sprintf("No recipe matching your keywords contains %q. Try relaxing the include conditions.", step.Ingredient)
		case kg.FilterStepExclude:
			msg = fmt.Sprintf("Excluding %q removed every remaining recipe. Try relaxing the exclude conditions.", step.Ingredient)
		default:
			msg = "No recipe matches the keywords from the previous rounds."
		}
		return &dto.RecommendationResponse{
			Round:       round,
			Answer:      msg,
			Keywords:    keywords,
			FilterSteps: steps,
			Exhausted:   true,
			ExhaustedAt: filterStepToDTO(step),
		}, nil
	}

	condition := struct {
		Include []string `json:"include"`
		Exclude []string `json:"exclude"`
	}{Include: include, Exclude: exclude}
	conditionJSON, _ := json.Marshal(condition)

	english := textutil.IsMostlyEnglish(strings.Join(append(append([]string{}, include...), exclude...), " "))
	names, subgraphs := s.presentRecipes(result.Subjects, english)

	explanation := fmt.Sprintf(
		"The user asked to include the ingredients %v and exclude %v.\nRecommend from the recipes below, which already satisfy those conditions.",
		include, exclude)
	answer := s.composeAnswer(ctx, explanation, keywords, names, subgraphs)
	if english {
		answer = s.translateToEnglish(ctx, answer)
	}

	round++
	if err := s.appendRoundEvents(ctx, conversationID, round, string(conditionJSON), nil, nil, answer); err != nil {
		return nil, serverutils.StorageFailure(err)
	}
	return &dto.RecommendationResponse{
		Round:       round,
		Answer:      answer,
		Keywords:    keywords,
		Presented:   names,
		Candidates:  result.Subjects,
		Subgraphs:   subgraphs,
		FilterSteps: steps,
	}, nil
}

// appendRoundEvents writes one round's events in their canonical order:
// question, keywords, candidates, answer. Keywords and candidates are only
// present on rounds that rebuilt the pool.
func (s *advisorService) appendRoundEvents(ctx context.Context, conversationID string, round int, question string, keywords, candidates []string, answer string) error {
	if err := s.sessionLog.AppendEvent(ctx, conversationID, round, constant.EventKindQuestion, question); err != nil {
		return err
	}
	for _, kw := range keywords {
		if err := s.sessionLog.AppendEvent(ctx, conversationID, round, constant.EventKindKeyword, kw); err != nil {
			return err
		}
	}
	for _, c := range candidates {
		if err := s.sessionLog.AppendEvent(ctx, conversationID, round, constant.EventKindCandidate, c); err != nil {
			return err
		}
	}
	return s.sessionLog.AppendEvent(ctx, conversationID, round, constant.EventKindAnswer, answer)
}

// mostRecentQuestion walks rounds backward for the latest question text.
func (s *advisorService) mostRecentQuestion(ctx context.Context, conversationID string, round int) (string, error) {
	for r := round; r >= 1; r-- {
		questions, err := s.sessionLog.EventsOfKind(ctx, conversationID, r, constant.EventKindQuestion)
		if err != nil {
			return "", err
		}
		if len(questions) > 0 {
			return questions[len(questions)-1].Content, nil
		}
	}
	return "", nil
}

// presentRecipes resolves display names and subgraph renderings for the
// recipes about to be shown, and replaces the snapshot files with their
// full corpus rows. For English conversations the display name comes from
// the translated row stored directly below each native row in the corpus.
// Snapshot failures are logged but never fail the recommendation.
func (s *advisorService) presentRecipes(subjects []string, english bool) (names []string, subgraphs []string) {
	if err := s.snapshots.Clear(); err != nil {
		s.logger.Warn("advisor", "failed to clear recipe snapshots", map[string]interface{}{
			"error": err.Error(),
		})
	}

	for i, subject := range subjects {
		name := subject
		rows, err := s.store.FullRowsForSubject(subject)
		if err != nil {
			s.logger.Warn("advisor", "failed to load corpus rows for recipe", map[string]interface{}{
				"subject": subject,
				"error":   err.Error(),
			})
			rows = nil
		}

		if english && len(rows) > 0 {
			indices := make([]int, 0, len(rows))
			for _, r := range rows {
				indices = append(indices, r.RowIndex+1)
			}
			if translated, err := s.store.RowsAt(indices); err == nil {
				translatedRows := make([]entity.FullRow, 0, len(rows))
				for _, r := range rows {
					if t, ok := translated[r.RowIndex+1]; ok {
						translatedRows = append(translatedRows, t)
					}
				}
				if len(translatedRows) > 0 {
					if translatedRows[0].Subject != "" {
						name = translatedRows[0].Subject
					}
					// The snapshot carries the translated rows so the
					// frontend renders the same language as the answer.
					rows = translatedRows
				}
			} else {
				s.logger.Warn("advisor", "failed to load translated rows", map[string]interface{}{
					"subject": subject,
					"error":   err.Error(),
				})
			}
		}

		if len(rows) > 0 {
			if err := s.snapshots.Write(i+1, rows); err != nil {
				s.logger.Warn("advisor", "failed to write recipe snapshot", map[string]interface{}{
					"subject": subject,
					"rank":    i + 1,
					"error":   err.Error(),
				})
			}
		}

		triples, err := s.store.AllTriplesForSubject(subject)
		if err != nil {
			s.logger.Warn("advisor", "failed to load subgraph triples", map[string]interface{}{
				"subject": subject,
				"error":   err.Error(),
			})
		}
		lines := kg.RenderEdgeList(kg.BuildGraph(triples))
		subgraphs = append(subgraphs, fmt.Sprintf("[KG for %s]\n%s", name, strings.Join(lines, "\n")))
		names = append(names, name)
	}
	return names, subgraphs
}

func filterStepToDTO(step *kg.FilterStep) *dto.FilterStepDTO {
	if step == nil {
		return nil
	}
	return &dto.FilterStepDTO{
		Kind:       step.Kind,
		Ingredient: step.Ingredient,
		Remaining:  step.Remaining,
	}
}

func filterStepsToDTO(steps []kg.FilterStep) []dto.FilterStepDTO {
	out := make([]dto.FilterStepDTO, 0, len(steps))
	for i := range steps {
		out = append(out, *filterStepToDTO(&steps[i]))
	}
	return out
}
