package article_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"
	"github.com/ryota-okonogi/wonderful-editor/internal/service/article"
	"github.com/ryota-okonogi/wonderful-editor/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service *article.Service
	storage *sqlite.Storage
	alice   models.User
	bob     models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	ctx := context.Background()
	alice, err := s.CreateUser(ctx, "alice", "alice@example.com", []byte("hash"))
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob", "bob@example.com", []byte("hash"))
	require.NoError(t, err)

	return &fixture{
		service: article.New(log, s),
		storage: s,
		alice:   alice,
		bob:     bob,
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestGetByID_DraftVisibleOnlyToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.service.Create(ctx, f.alice.ID, "secret draft", "wip", models.StatusDraft)
	require.NoError(t, err)

	got, err := f.service.GetByID(ctx, draft.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	_, err = f.service.GetByID(ctx, draft.ID, f.bob.ID)
	require.ErrorIs(t, err, article.ErrArticleNotFound)

	_, err = f.service.GetByID(ctx, draft.ID, article.Anonymous)
	require.ErrorIs(t, err, article.ErrArticleNotFound)
}

func TestGetByID_PublishedVisibleToAnyone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	art, err := f.service.Create(ctx, f.alice.ID, "title", "body", models.StatusPublished)
	require.NoError(t, err)

	for _, requester := range []int64{f.alice.ID, f.bob.ID, article.Anonymous} {
		got, err := f.service.GetByID(ctx, art.ID, requester)
		require.NoError(t, err)
		assert.Equal(t, art.ID, got.ID)
	}
}

func TestGetByID_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetByID(context.Background(), 77777, f.alice.ID)
	require.ErrorIs(t, err, article.ErrArticleNotFound)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, f.alice.ID, "", "body", models.StatusDraft)
	require.ErrorIs(t, err, models.ErrTitleEmpty)

	_, err = f.service.Create(ctx, f.alice.ID, "title", "", models.StatusDraft)
	require.ErrorIs(t, err, models.ErrBodyEmpty)

	_, err = f.service.Create(ctx, f.alice.ID, "title", "body", models.Status("foo"))
	require.ErrorIs(t, err, models.ErrUnknownStatus)

	// Nothing was written along the way.
	arts, err := f.storage.PublishedArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, arts)
}

func TestUpdate_NonOwnerGetsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	art, err := f.service.Create(ctx, f.alice.ID, "title", "body", models.StatusPublished)
	require.NoError(t, err)

	title := "hijack"
	_, err = f.service.Update(ctx, art.ID, f.bob.ID, &title, nil, nil)
	require.ErrorIs(t, err, article.ErrArticleNotFound)

	got, err := f.service.GetByID(ctx, art.ID, article.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
}

func TestUpdate_RejectsEmptyProvidedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	art, err := f.service.Create(ctx, f.alice.ID, "title", "body", models.StatusDraft)
	require.NoError(t, err)

	empty := "  "
	_, err = f.service.Update(ctx, art.ID, f.alice.ID, &empty, nil, nil)
	require.ErrorIs(t, err, models.ErrTitleEmpty)

	_, err = f.service.Update(ctx, art.ID, f.alice.ID, nil, &empty, nil)
	require.ErrorIs(t, err, models.ErrBodyEmpty)
}

func TestUpdate_AbsentFieldsKeepValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	art, err := f.service.Create(ctx, f.alice.ID, "title", "body", models.StatusDraft)
	require.NoError(t, err)

	status := models.StatusPublished
	updated, err := f.service.Update(ctx, art.ID, f.alice.ID, nil, nil, &status)
	require.NoError(t, err)

	assert.Equal(t, "title", updated.Title)
	assert.Equal(t, "body", updated.Body)
	assert.Equal(t, models.StatusPublished, updated.Status)
}

func TestRemove_NonOwnerGetsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	art, err := f.service.Create(ctx, f.alice.ID, "title", "body", models.StatusPublished)
	require.NoError(t, err)

	err = f.service.Remove(ctx, art.ID, f.bob.ID)
	require.ErrorIs(t, err, article.ErrArticleNotFound)

	require.NoError(t, f.service.Remove(ctx, art.ID, f.alice.ID))

	_, err = f.service.GetByID(ctx, art.ID, f.alice.ID)
	require.ErrorIs(t, err, article.ErrArticleNotFound)
}

func TestListOwn_ExcludesDraftsAndOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	published, err := f.service.Create(ctx, f.alice.ID, "mine", "body", models.StatusPublished)
	require.NoError(t, err)
	_, err = f.service.Create(ctx, f.alice.ID, "my draft", "body", models.StatusDraft)
	require.NoError(t, err)
	_, err = f.service.Create(ctx, f.bob.ID, "bobs", "body", models.StatusPublished)
	require.NoError(t, err)

	arts, err := f.service.ListOwn(ctx, f.alice.ID)
	require.NoError(t, err)

	require.Len(t, arts, 1)
	assert.Equal(t, published.ID, arts[0].ID)
}

func TestLike_FollowsReadVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.service.Create(ctx, f.alice.ID, "draft", "body", models.StatusDraft)
	require.NoError(t, err)

	err = f.service.Like(ctx, draft.ID, f.bob.ID)
	require.ErrorIs(t, err, article.ErrArticleNotFound)

	// The owner can like their own draft, twice is a no-op.
	require.NoError(t, f.service.Like(ctx, draft.ID, f.alice.ID))
	require.NoError(t, f.service.Like(ctx, draft.ID, f.alice.ID))

	n, err := f.storage.ArticleLikesCount(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, f.service.Unlike(ctx, draft.ID, f.alice.ID))

	n, err = f.storage.ArticleLikesCount(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
