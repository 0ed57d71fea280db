package service_test

import (
	"context"
	"database/sql"
	"testing"

	"feedsync/backend/internal/model"
	"feedsync/backend/internal/repository"
	"feedsync/backend/internal/repository/mock"
	"feedsync/backend/internal/repository/testutil"
	"feedsync/backend/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestArticleService_ToggleRead_NotFoundSkipsCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockArticles := mock.NewMockArticleRepository(ctrl)
	mockFeeds := mock.NewMockFeedRepository(ctrl)
	mockArticles.EXPECT().ToggleRead(gomock.Any(), int64(42)).Return(false, sql.ErrNoRows)

	reconciler := service.NewReconciler(mock.NewMockTransactor(ctrl), mockArticles, nil)
	svc := service.NewArticleService(mockArticles, mockFeeds, reconciler)

	_, err := svc.ToggleRead(context.Background(), 42)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_MarkRead_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockArticles := mock.NewMockArticleRepository(ctrl)
	mockArticles.EXPECT().MarkRead(gomock.Any(), int64(7)).Return(sql.ErrNoRows)

	reconciler := service.NewReconciler(mock.NewMockTransactor(ctrl), mockArticles, nil)
	svc := service.NewArticleService(mockArticles, mock.NewMockFeedRepository(ctrl), reconciler)

	_, err := svc.MarkRead(context.Background(), 7)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_ReadStateReportsUnreadCount(t *testing.T) {
	s := newStack(t, nil)
	ctx := context.Background()

	feedID := testutil.SeedFeed(t, s.db, model.Feed{Title: "Feed", URL: "u"})
	first := testutil.SeedArticle(t, s.db, model.Article{FeedID: feedID})
	testutil.SeedArticle(t, s.db, model.Article{FeedID: feedID})

	state, err := s.articleSvc.MarkRead(ctx, first)
	require.NoError(t, err)
	require.Equal(t, service.ReadState{ArticleID: first, FeedID: feedID, Read: true, UnreadCount: 1}, state)

	state, err = s.articleSvc.MarkRead(ctx, first)
	require.NoError(t, err)
	require.Equal(t, 1, state.UnreadCount)

	state, err = s.articleSvc.ToggleRead(ctx, first)
	require.NoError(t, err)
	require.False(t, state.Read)
	require.Equal(t, 2, state.UnreadCount)
}

func TestArticleService_List(t *testing.T) {
	s := newStack(t, nil)
	ctx := context.Background()

	feedID := testutil.SeedFeed(t, s.db, model.Feed{Title: "Feed", URL: "u"})
	for i := 0; i < 3; i++ {
		testutil.SeedArticle(t, s.db, model.Article{FeedID: feedID, Read: i == 0})
	}

	all, err := s.articleSvc.List(ctx, service.ArticleListParams{FeedID: feedID})
	require.NoError(t, err)
	require.Len(t, all, 3)

	unread, err := s.articleSvc.List(ctx, service.ArticleListParams{FeedID: feedID, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 2)

	page, err := s.articleSvc.List(ctx, service.ArticleListParams{FeedID: feedID, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)

	_, err = s.articleSvc.List(ctx, service.ArticleListParams{FeedID: feedID, Offset: -1})
	require.ErrorIs(t, err, service.ErrInvalid)

	_, err = s.articleSvc.List(ctx, service.ArticleListParams{FeedID: 404})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_ListClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockArticles := mock.NewMockArticleRepository(ctrl)
	mockFeeds := mock.NewMockFeedRepository(ctrl)
	mockFeeds.EXPECT().GetByID(gomock.Any(), int64(1)).Return(model.Feed{ID: 1}, nil).Times(2)
	gomock.InOrder(
		mockArticles.EXPECT().ListByFeed(gomock.Any(), repository.ArticleListFilter{FeedID: 1, Limit: 50}).Return(nil, nil),
		mockArticles.EXPECT().ListByFeed(gomock.Any(), repository.ArticleListFilter{FeedID: 1, Limit: 200}).Return(nil, nil),
	)

	svc := service.NewArticleService(mockArticles, mockFeeds, nil)
	_, err := svc.List(context.Background(), service.ArticleListParams{FeedID: 1})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), service.ArticleListParams{FeedID: 1, Limit: 10000})
	require.NoError(t, err)
}
