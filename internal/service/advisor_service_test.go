package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"healthmate-be/internal/constant"
	"healthmate-be/internal/dto"
	"healthmate-be/internal/pkg/serverutils"
	"healthmate-be/internal/repository/csvstore"
	"healthmate-be/pkg/kg"
	"healthmate-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM dispatches on the system prompt so each pipeline step can be
// scripted independently.
type scriptedLLM struct {
	keywordReply   string
	keywordErr     error
	answerReply    string
	answerErr      error
	chaseReply     string
	intentReply    string
	translateReply string

	lastAnswerInput string
	lastChaseInput  string
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	system := history[0].Content
	user := history[len(history)-1].Content
	switch system {
	case constant.KeywordSystemPrompt:
		return f.keywordReply, f.keywordErr
	case constant.AnswerSystemPrompt:
		f.lastAnswerInput = user
		return f.answerReply, f.answerErr
	case constant.ChaseSystemPrompt:
		f.lastChaseInput = user
		return f.chaseReply, nil
	case constant.IntentSystemPrompt:
		return f.intentReply, nil
	case constant.TranslationSystemPrompt:
		return f.translateReply, nil
	}
	return "", fmt.Errorf("unexpected system prompt: %q", system)
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

var advisorCorpus = "subject,relation,object,note\n" +
	"Ginger Soup,recipe-has-effect,cold relief,soup\n" +
	"Ginger Soup,recipe-has-effect,warming,soup\n" +
	"Ginger Soup,recipe-has-ingredient,ginger,soup\n" +
	"Ginger Soup,recipe-has-ingredient,rice,soup\n" +
	"Garlic Stew,recipe-has-effect,cold relief,stew\n" +
	"Garlic Stew,recipe-has-ingredient,garlic,stew\n" +
	"Scallion Congee,recipe-has-effect,cold relief,congee\n" +
	"Scallion Congee,recipe-has-ingredient,rice,congee\n" +
	"Mint Tea,recipe-has-effect,cold relief,tea\n" +
	"Mint Tea,recipe-has-ingredient,mint,tea\n" +
	"Date Tea,recipe-has-effect,cold relief,tea\n" +
	"Date Tea,recipe-has-ingredient,date,tea\n" +
	"Pear Soup,recipe-has-effect,cold relief,soup\n" +
	"Pear Soup,recipe-has-ingredient,pear,soup\n"

type advisorFixture struct {
	svc         IAdvisorService
	sessionLog  *csvstore.SessionLogRepository
	llm         *scriptedLLM
	snapshotDir string
}

func newAdvisorFixture(t *testing.T, corpus string) *advisorFixture {
	t.Helper()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "corpus.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(corpus), 0o644))

	store, err := kg.NewStore(csvPath)
	require.NoError(t, err)
	engine := kg.NewFilterEngine(store, constant.DefaultEffectRelation, constant.DefaultIngredientRelation)

	sessionLog, err := csvstore.NewSessionLogRepository(filepath.Join(dir, "rounds"))
	require.NoError(t, err)
	snapshotDir := filepath.Join(dir, "snapshots")
	snapshots, err := csvstore.NewSnapshotRepository(snapshotDir)
	require.NoError(t, err)

	fake := &scriptedLLM{
		keywordReply:   "(cold relief)(warming)",
		answerReply:    "试试这几道食谱。",
		chaseReply:     "这道汤性温，适合感冒初期。",
		intentReply:    "False",
		translateReply: "Try these recipes.",
	}

	svc := NewAdvisorService(store, engine, sessionLog, snapshots, fake, noopLogger{}, 0)
	return &advisorFixture{
		svc:         svc,
		sessionLog:  sessionLog,
		llm:         fake,
		snapshotDir: snapshotDir,
	}
}

const question = "感冒了吃什么好"

func TestNewRoundBuildsPoolAndLogsEvents(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	ctx := context.Background()

	resp, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Round)
	assert.Equal(t, fx.llm.answerReply, resp.Answer)
	assert.Equal(t, []string{"cold relief", "warming"}, resp.Keywords)
	// Ginger Soup matches both keywords, everything else ties at one.
	assert.Equal(t, []string{"Ginger Soup", "Garlic Stew", "Scallion Congee", "Mint Tea", "Date Tea", "Pear Soup"}, resp.Candidates)
	assert.Equal(t, []string{"Ginger Soup", "Garlic Stew", "Scallion Congee"}, resp.Presented)
	require.Len(t, resp.Subgraphs, 3)
	assert.Contains(t, resp.Subgraphs[0], "Ginger Soup -[recipe-has-ingredient]-> ginger")

	questions, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 1, constant.EventKindQuestion)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, question, questions[0].Content)

	keywords, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 1, constant.EventKindKeyword)
	require.NoError(t, err)
	assert.Len(t, keywords, 2)

	candidates, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 1, constant.EventKindCandidate)
	require.NoError(t, err)
	assert.Len(t, candidates, 6)

	answers, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 1, constant.EventKindAnswer)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, fx.llm.answerReply, answers[0].Content)

	for rank := 1; rank <= 3; rank++ {
		_, err := os.Stat(filepath.Join(fx.snapshotDir, fmt.Sprintf("KG%d.csv", rank)))
		assert.NoError(t, err, "snapshot KG%d.csv should exist", rank)
	}

	assert.Contains(t, fx.llm.lastAnswerInput, "cold relief")
	assert.Contains(t, fx.llm.lastAnswerInput, "Ginger Soup")
}

func TestNewRoundEnglishUsesTranslatedRows(t *testing.T) {
	// Translated rows sit directly below their native rows in the corpus.
	bilingualCorpus := "subject,relation,object\n" +
		"姜汤,recipe-has-effect,缓解感冒\n" +
		"Ginger Soup,recipe-has-effect,cold relief\n" +
		"姜汤,recipe-has-ingredient,生姜\n" +
		"Ginger Soup,recipe-has-ingredient,ginger\n"
	fx := newAdvisorFixture(t, bilingualCorpus)
	fx.llm.keywordReply = "(缓解感冒)"
	ctx := context.Background()

	resp, err := fx.svc.NewRound(ctx, "user-1", "what should I eat for a cold")
	require.NoError(t, err)

	// English conversations present the translated name and get the
	// translated answer.
	assert.Equal(t, []string{"Ginger Soup"}, resp.Presented)
	assert.Equal(t, fx.llm.translateReply, resp.Answer)

	// The snapshot carries the translated rows, not the native ones.
	f, err := os.Open(filepath.Join(fx.snapshotDir, "KG1.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"subject", "relation", "object"},
		{"Ginger Soup", "recipe-has-effect", "cold relief"},
		{"Ginger Soup", "recipe-has-ingredient", "ginger"},
	}, records)
}

func TestNewRoundProceedsWithoutKeywords(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	fx.llm.keywordErr = fmt.Errorf("model unavailable")
	ctx := context.Background()

	resp, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	assert.Equal(t, fx.llm.answerReply, resp.Answer)
	assert.Empty(t, resp.Keywords)
	assert.Empty(t, resp.Candidates)

	round, err := fx.sessionLog.CurrentRound(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, round)
}

func TestChaseRequiresPriorRound(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)

	_, err := fx.svc.Chase(context.Background(), "user-1", "为什么推荐这个")
	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "NO_PRIOR_CONTEXT", appErr.Code)
}

func TestChaseAnswersFromPreviousRound(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	ctx := context.Background()

	_, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	resp, err := fx.svc.Chase(ctx, "user-1", "为什么推荐姜汤")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Round)
	assert.Equal(t, fx.llm.chaseReply, resp.Answer)
	assert.Contains(t, fx.llm.lastChaseInput, fx.llm.answerReply)

	// Chase rounds carry no retrieval state.
	keywords, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 2, constant.EventKindKeyword)
	require.NoError(t, err)
	assert.Empty(t, keywords)
	candidates, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 2, constant.EventKindCandidate)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRecommendMorePresentsNextSlice(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	ctx := context.Background()

	_, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	resp, err := fx.svc.RecommendMore(ctx, "user-1", "再推荐几个")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Round)
	assert.Equal(t, []string{"Mint Tea", "Date Tea", "Pear Soup"}, resp.Presented)
	assert.Equal(t, []string{"cold relief", "warming"}, resp.Keywords)
	// The composer sees the original question alongside the supplement.
	assert.Contains(t, fx.llm.lastAnswerInput, question)
	assert.Contains(t, fx.llm.lastAnswerInput, "再推荐几个")
}

func TestRecommendMoreNeedsEnoughCandidates(t *testing.T) {
	smallCorpus := "subject,relation,object\n" +
		"Ginger Soup,recipe-has-effect,cold relief\n" +
		"Garlic Stew,recipe-has-effect,cold relief\n"
	fx := newAdvisorFixture(t, smallCorpus)
	ctx := context.Background()

	_, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	_, err = fx.svc.RecommendMore(ctx, "user-1", "再推荐几个")
	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "NO_PRIOR_CONTEXT", appErr.Code)
}

func TestFilterIncludeExclude(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	ctx := context.Background()

	_, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	resp, err := fx.svc.FilterIncludeExclude(ctx, "user-1", []string{"rice"}, []string{"ginger"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Round)
	assert.False(t, resp.Exhausted)
	assert.Equal(t, []string{"Scallion Congee"}, resp.Presented)
	require.Len(t, resp.FilterSteps, 2)
	assert.Equal(t, kg.FilterStepInclude, resp.FilterSteps[0].Kind)
	assert.Equal(t, "rice", resp.FilterSteps[0].Ingredient)
	assert.Equal(t, kg.FilterStepExclude, resp.FilterSteps[1].Kind)

	// The filter round records its condition as the question.
	questions, err := fx.sessionLog.EventsOfKind(ctx, "user-1", 2, constant.EventKindQuestion)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.JSONEq(t, `{"include":["rice"],"exclude":["ginger"]}`, questions[0].Content)
}

func TestFilterExhaustionLeavesRoundUntouched(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	ctx := context.Background()

	_, err := fx.svc.NewRound(ctx, "user-1", question)
	require.NoError(t, err)

	resp, err := fx.svc.FilterIncludeExclude(ctx, "user-1", []string{"truffle"}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Exhausted)
	require.NotNil(t, resp.ExhaustedAt)
	assert.Equal(t, kg.FilterStepInclude, resp.ExhaustedAt.Kind)
	assert.Equal(t, "truffle", resp.ExhaustedAt.Ingredient)
	assert.Equal(t, 1, resp.Round)

	round, err := fx.sessionLog.CurrentRound(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, round, "an exhausted filter must not open a new round")
}

func TestFilterRequiresPriorKeywords(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)

	_, err := fx.svc.FilterIncludeExclude(context.Background(), "user-1", []string{"rice"}, nil)
	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "NO_PRIOR_CONTEXT", appErr.Code)
}

func TestAskRouting(t *testing.T) {
	fx := newAdvisorFixture(t, advisorCorpus)
	ctx := context.Background()

	// Plain question opens a round.
	resp, err := fx.svc.Ask(ctx, &dto.QuestionRequest{UserID: "user-1", Question: question})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Round)
	assert.NotEmpty(t, resp.Candidates)

	// Follow-up classified as wanting more presents the next slice. This
	// must run while the candidate pool is still in the latest round.
	fx.llm.intentReply = "True"
	resp, err = fx.svc.Ask(ctx, &dto.QuestionRequest{UserID: "user-1", Question: "再来几个", FollowUp: true})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Round)
	assert.Equal(t, []string{"Mint Tea", "Date Tea", "Pear Soup"}, resp.Presented)

	// Follow-up classified as explanation goes down the chase path.
	fx.llm.intentReply = "False"
	resp, err = fx.svc.Ask(ctx, &dto.QuestionRequest{UserID: "user-1", Question: "为什么", FollowUp: true})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Round)
	assert.Equal(t, fx.llm.chaseReply, resp.Answer)

	// Include/exclude terms route to the filter regardless of the question.
	resp, err = fx.svc.Ask(ctx, &dto.QuestionRequest{UserID: "user-1", Include: []string{"rice"}})
	require.NoError(t, err)
	assert.False(t, resp.Exhausted)
	assert.NotEmpty(t, resp.Presented)

	// No question and no conditions is a bad request.
	_, err = fx.svc.Ask(ctx, &dto.QuestionRequest{UserID: "user-1"})
	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "BAD_REQUEST", appErr.Code)
}
