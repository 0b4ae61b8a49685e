package service

import (
	"context"
	"testing"
	"time"

	apierrors "github.com/rednote/backend/internal/errors"
	"github.com/rednote/backend/internal/models"
	"github.com/rednote/backend/internal/pagination"
	"github.com/rednote/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CommentServiceSuite struct {
	suite.Suite
	store    *store.Store
	blobs    *fakeBlobStore
	comments *CommentService
	alice    models.User
	bob      models.User
	post     models.Post
}

func (s *CommentServiceSuite) SetupTest() {
	s.store = newTestStore(s.T())
	s.blobs = &fakeBlobStore{width: 640, height: 480}
	s.comments = NewCommentService(s.store, s.blobs)
	s.alice = seedUser(s.T(), s.store, "alice")
	s.bob = seedUser(s.T(), s.store, "bob")
	s.post = seedPost(s.T(), s.store, s.alice.ID, "hello")
}

func (s *CommentServiceSuite) TestPublishRootComment() {
	view, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID:  s.post.ID,
		Content: "nice shot",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "bob", view.Nickname)

	stored, err := s.store.CommentByID(view.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), stored.ParentID)
	assert.Nil(s.T(), stored.RootParentID)

	post, err := s.store.PostByID(s.post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, post.CommentCount)
}

func (s *CommentServiceSuite) TestReplyFlattensToThreadRoot() {
	root, err := s.comments.Publish(context.Background(), s.alice.ID, PublishCommentInput{
		PostID:  s.post.ID,
		Content: "root",
	})
	require.NoError(s.T(), err)

	reply, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID:   s.post.ID,
		Content:  "reply to root",
		ParentID: &root.ID,
	})
	require.NoError(s.T(), err)

	// A reply to a reply still points at the thread root.
	deep, err := s.comments.Publish(context.Background(), s.alice.ID, PublishCommentInput{
		PostID:        s.post.ID,
		Content:       "reply to reply",
		ParentID:      &reply.ID,
		ReplyToUserID: &s.bob.ID,
	})
	require.NoError(s.T(), err)

	storedReply, err := s.store.CommentByID(reply.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), storedReply.RootParentID)
	assert.Equal(s.T(), root.ID, *storedReply.RootParentID)

	storedDeep, err := s.store.CommentByID(deep.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), storedDeep.RootParentID)
	assert.Equal(s.T(), root.ID, *storedDeep.RootParentID)
	require.NotNil(s.T(), storedDeep.ParentID)
	assert.Equal(s.T(), reply.ID, *storedDeep.ParentID)
}

func (s *CommentServiceSuite) TestReplyToMissingParent() {
	missing := uint(9999)
	_, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID:   s.post.ID,
		Content:  "orphan",
		ParentID: &missing,
	})
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), apierrors.ErrNotFound, apiErr.Code)
}

func (s *CommentServiceSuite) TestPublishToMissingPost() {
	_, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID:  9999,
		Content: "void",
	})
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), apierrors.ErrNotFound, apiErr.Code)
}

func (s *CommentServiceSuite) TestPublishNeedsTextOrImage() {
	_, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID: s.post.ID,
	})
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), apierrors.ErrValidation, apiErr.Code)
}

func (s *CommentServiceSuite) TestImageProbeFailureIsNonFatal() {
	s.blobs.failProbe = true

	view, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID: s.post.ID,
		Image:  &ImageUpload{Data: []byte("x"), Filename: "pic.jpg"},
	})
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), view.ImageURL)
	assert.Nil(s.T(), view.ImageWidth)
	assert.Nil(s.T(), view.ImageHeight)
}

func (s *CommentServiceSuite) TestImageUploadFailureIsFatal() {
	s.blobs.failUpload = true

	_, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID: s.post.ID,
		Image:  &ImageUpload{Data: []byte("x"), Filename: "pic.jpg"},
	})
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), apierrors.ErrUpstream, apiErr.Code)
}

func (s *CommentServiceSuite) TestImageDimensionsProbedWhenMissing() {
	view, err := s.comments.Publish(context.Background(), s.bob.ID, PublishCommentInput{
		PostID: s.post.ID,
		Image:  &ImageUpload{Data: []byte("x"), Filename: "pic.jpg"},
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), view.ImageWidth)
	require.NotNil(s.T(), view.ImageHeight)
	assert.Equal(s.T(), 640, *view.ImageWidth)
	assert.Equal(s.T(), 480, *view.ImageHeight)
}

func (s *CommentServiceSuite) TestFeedOrdersHottestFirstWithCursor() {
	// Six roots; two share a like count so the id tiebreak is exercised.
	likeCounts := []int{9, 7, 7, 4, 2, 0}
	ids := make([]uint, len(likeCounts))
	for i, likes := range likeCounts {
		c := seedRootComment(s.T(), s.store, s.post.ID, s.bob.ID, "root", likes)
		ids[i] = c.ID
	}

	first, err := s.comments.Feed(0, s.post.ID, "", 5)
	require.NoError(s.T(), err)
	require.Len(s.T(), first.Items, 5)
	assert.True(s.T(), first.HasMore)

	// 9, then the 7-tie newest id first, then 4, 2.
	assert.Equal(s.T(), ids[0], first.Items[0].ID)
	assert.Equal(s.T(), ids[2], first.Items[1].ID)
	assert.Equal(s.T(), ids[1], first.Items[2].ID)
	assert.Equal(s.T(), ids[3], first.Items[3].ID)
	assert.Equal(s.T(), ids[4], first.Items[4].ID)

	assert.Equal(s.T(), pagination.FormatHotCursor(2, ids[4]), first.NextCursor)

	second, err := s.comments.Feed(0, s.post.ID, first.NextCursor, 5)
	require.NoError(s.T(), err)
	require.Len(s.T(), second.Items, 1)
	assert.Equal(s.T(), ids[5], second.Items[0].ID)
	assert.False(s.T(), second.HasMore)
}

func (s *CommentServiceSuite) TestFeedMalformedCursorResetsToFirstPage() {
	for i := 0; i < 3; i++ {
		seedRootComment(s.T(), s.store, s.post.ID, s.bob.ID, "root", i)
	}

	fresh, err := s.comments.Feed(0, s.post.ID, "", 10)
	require.NoError(s.T(), err)
	garbled, err := s.comments.Feed(0, s.post.ID, "garbage", 10)
	require.NoError(s.T(), err)

	require.Len(s.T(), garbled.Items, 3)
	assert.Equal(s.T(), fresh.Items, garbled.Items)
}

func (s *CommentServiceSuite) TestFeedTopReplyPrefersPostAuthor() {
	root := seedRootComment(s.T(), s.store, s.post.ID, s.bob.ID, "root", 5)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Bob replies first; the post author replies later but still wins.
	seedReply(s.T(), s.store, &root, s.bob.ID, "earliest", base)
	authorReply := seedReply(s.T(), s.store, &root, s.alice.ID, "author reply", base.Add(time.Hour))
	seedReply(s.T(), s.store, &root, s.bob.ID, "latest", base.Add(2*time.Hour))

	page, err := s.comments.Feed(0, s.post.ID, "", 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Items, 1)

	thread := page.Items[0]
	assert.Equal(s.T(), int64(3), thread.ReplyCount)
	require.NotNil(s.T(), thread.TopReply)
	assert.Equal(s.T(), authorReply.ID, thread.TopReply.ID)
	assert.Equal(s.T(), "alice", thread.TopReply.Nickname)
}

func (s *CommentServiceSuite) TestFeedTopReplyFallsBackToEarliest() {
	root := seedRootComment(s.T(), s.store, s.post.ID, s.alice.ID, "root", 0)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	earliest := seedReply(s.T(), s.store, &root, s.bob.ID, "first in", base)
	seedReply(s.T(), s.store, &root, s.bob.ID, "second", base.Add(time.Minute))

	page, err := s.comments.Feed(0, s.post.ID, "", 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Items, 1)
	require.NotNil(s.T(), page.Items[0].TopReply)
	assert.Equal(s.T(), earliest.ID, page.Items[0].TopReply.ID)
}

func (s *CommentServiceSuite) TestRepliesFirstPageSkipsTopReply() {
	root := seedRootComment(s.T(), s.store, s.post.ID, s.alice.ID, "root", 0)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	replies := make([]models.Comment, 5)
	for i := range replies {
		replies[i] = seedReply(s.T(), s.store, &root, s.bob.ID, "reply", base.Add(time.Duration(i)*time.Minute))
	}

	// The thread's first reply is already on screen in the feed summary.
	first, err := s.comments.Replies(0, root.ID, "", 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), first.Items, 2)
	assert.Equal(s.T(), replies[1].ID, first.Items[0].ID)
	assert.Equal(s.T(), replies[2].ID, first.Items[1].ID)
	assert.True(s.T(), first.HasMore)

	second, err := s.comments.Replies(0, root.ID, first.NextCursor, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), second.Items, 2)
	assert.Equal(s.T(), replies[3].ID, second.Items[0].ID)
	assert.Equal(s.T(), replies[4].ID, second.Items[1].ID)
	assert.False(s.T(), second.HasMore)
}

func (s *CommentServiceSuite) TestRepliesEmptyThread() {
	root := seedRootComment(s.T(), s.store, s.post.ID, s.alice.ID, "root", 0)

	page, err := s.comments.Replies(0, root.ID, "", 10)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), page.Items)
	assert.False(s.T(), page.HasMore)
}

func (s *CommentServiceSuite) TestRootCommentsListsHottestFirst() {
	low := seedRootComment(s.T(), s.store, s.post.ID, s.bob.ID, "cold", 1)
	high := seedRootComment(s.T(), s.store, s.post.ID, s.bob.ID, "hot", 8)

	list, err := s.comments.RootComments(0, s.post.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	assert.Equal(s.T(), high.ID, list[0].ID)
	assert.Equal(s.T(), low.ID, list[1].ID)
}

func TestCommentServiceSuite(t *testing.T) {
	suite.Run(t, new(CommentServiceSuite))
}
