package csvstore

import (
	"context"
	"testing"

	"healthmate-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRepo(t *testing.T) *SessionLogRepository {
	t.Helper()
	repo, err := NewSessionLogRepository(t.TempDir())
	require.NoError(t, err)
	return repo
}

func TestCurrentRoundEmptyLog(t *testing.T) {
	repo := sessionRepo(t)

	round, err := repo.CurrentRound(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 0, round)
}

func TestAppendEventAndCurrentRound(t *testing.T) {
	repo := sessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendEvent(ctx, "conv-1", 1, constant.EventKindQuestion, "I cannot sleep"))
	require.NoError(t, repo.AppendEvent(ctx, "conv-1", 1, constant.EventKindAnswer, "try lotus soup"))
	require.NoError(t, repo.AppendEvent(ctx, "conv-1", 2, constant.EventKindQuestion, "more detail"))

	round, err := repo.CurrentRound(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 2, round)

	// Other conversations are fully independent.
	round, err = repo.CurrentRound(ctx, "conv-2")
	require.NoError(t, err)
	assert.Equal(t, 0, round)
}

func TestEventsOfKind(t *testing.T) {
	repo := sessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindKeyword, "calming"))
	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindKeyword, "warming"))
	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindCandidate, "Lotus Soup"))
	require.NoError(t, repo.AppendEvent(ctx, "c", 2, constant.EventKindKeyword, "digestion"))

	events, err := repo.EventsOfKind(ctx, "c", 1, constant.EventKindKeyword)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "calming", events[0].Content)
	assert.Equal(t, "warming", events[1].Content)
}

func TestEventContentSurvivesQuoting(t *testing.T) {
	repo := sessionRepo(t)
	ctx := context.Background()

	answer := "line one\nline two, with a comma and \"quotes\""
	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindAnswer, answer))

	events, err := repo.EventsOfKind(ctx, "c", 1, constant.EventKindAnswer)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, answer, events[0].Content)
}

func TestMostRecentKeywordsBefore(t *testing.T) {
	repo := sessionRepo(t)
	ctx := context.Background()

	// Round 1 is a full question round; rounds 2 and 3 are thin follow-ups.
	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindKeyword, "calming"))
	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindKeyword, "warming"))
	require.NoError(t, repo.AppendEvent(ctx, "c", 2, constant.EventKindQuestion, "more"))
	require.NoError(t, repo.AppendEvent(ctx, "c", 3, constant.EventKindQuestion, "again"))

	keywords, foundRound, err := repo.MostRecentKeywordsBefore(ctx, "c", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, foundRound)
	assert.Equal(t, []string{"calming", "warming"}, keywords)
}

func TestMostRecentKeywordsBeforeNoContext(t *testing.T) {
	repo := sessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendEvent(ctx, "c", 1, constant.EventKindQuestion, "hello"))

	keywords, foundRound, err := repo.MostRecentKeywordsBefore(ctx, "c", 1)
	require.NoError(t, err)
	assert.Zero(t, foundRound)
	assert.Empty(t, keywords)
}

func TestConversationIDSanitized(t *testing.T) {
	repo := sessionRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendEvent(ctx, "../../etc/passwd", 1, constant.EventKindQuestion, "q"))

	round, err := repo.CurrentRound(ctx, "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, 1, round)
}
