package service

import (
	"testing"

	apierrors "github.com/rednote/backend/internal/errors"
	"github.com/rednote/backend/internal/models"
	"github.com/rednote/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LikeServiceSuite struct {
	suite.Suite
	store *store.Store
	likes *LikeService
	alice models.User
	bob   models.User
	post  models.Post
}

func (s *LikeServiceSuite) SetupTest() {
	s.store = newTestStore(s.T())
	s.likes = NewLikeService(s.store)
	s.alice = seedUser(s.T(), s.store, "alice")
	s.bob = seedUser(s.T(), s.store, "bob")
	s.post = seedPost(s.T(), s.store, s.alice.ID, "hello")
}

func (s *LikeServiceSuite) TestDoubleLikeIsIdempotent() {
	require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, s.bob.ID, true))
	require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, s.bob.ID, true))

	rows, err := s.store.CountPostLikes(s.post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), rows)

	post, err := s.store.PostByID(s.post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, post.LikeCount)
}

func (s *LikeServiceSuite) TestUnlikeWithoutLikeIsNoOp() {
	require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, s.bob.ID, false))

	post, err := s.store.PostByID(s.post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, post.LikeCount)
}

func (s *LikeServiceSuite) TestCounterTracksLedgerThroughChurn() {
	users := []models.User{
		s.bob,
		seedUser(s.T(), s.store, "carol"),
		seedUser(s.T(), s.store, "dave"),
	}
	for _, u := range users {
		require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, u.ID, true))
	}

	// A fourth user flips rapidly; the counter must land where the ledger
	// lands.
	erin := seedUser(s.T(), s.store, "erin")
	require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, erin.ID, true))
	require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, erin.ID, false))
	require.NoError(s.T(), s.likes.SetPostLike(s.post.ID, erin.ID, true))

	rows, err := s.store.CountPostLikes(s.post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(4), rows)

	post, err := s.store.PostByID(s.post.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4, post.LikeCount)
}

func (s *LikeServiceSuite) TestLikeMissingPost() {
	err := s.likes.SetPostLike(9999, s.bob.ID, true)
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), apierrors.ErrNotFound, apiErr.Code)
}

func (s *LikeServiceSuite) TestCommentLikeLifecycle() {
	comment := seedRootComment(s.T(), s.store, s.post.ID, s.alice.ID, "first", 0)

	require.NoError(s.T(), s.likes.SetCommentLike(comment.ID, s.bob.ID, true))
	require.NoError(s.T(), s.likes.SetCommentLike(comment.ID, s.bob.ID, true))

	got, err := s.store.CommentByID(comment.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, got.LikeCount)

	require.NoError(s.T(), s.likes.SetCommentLike(comment.ID, s.bob.ID, false))
	require.NoError(s.T(), s.likes.SetCommentLike(comment.ID, s.bob.ID, false))

	got, err = s.store.CommentByID(comment.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, got.LikeCount)

	rows, err := s.store.CountCommentLikes(comment.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), rows)
}

func (s *LikeServiceSuite) TestLikeMissingComment() {
	err := s.likes.SetCommentLike(9999, s.bob.ID, true)
	apiErr, ok := apierrors.AsAPIError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), apierrors.ErrNotFound, apiErr.Code)
}

func TestLikeServiceSuite(t *testing.T) {
	suite.Run(t, new(LikeServiceSuite))
}
