package social_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
	"github.com/CoolizzLuo/graphql-demo/internal/models"
	"github.com/CoolizzLuo/graphql-demo/internal/social"
	"github.com/CoolizzLuo/graphql-demo/internal/store"
)

func newTestService(t *testing.T) (*social.Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := social.NewService(
		st,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewJWTCodec("test-secret"),
		0,
	)
	return svc, st
}

func anon() *social.Ctx {
	return &social.Ctx{Context: context.Background()}
}

func as(userID int64) *social.Ctx {
	return &social.Ctx{
		Context: context.Background(),
		Session: &auth.Session{UserID: userID},
	}
}

func signUp(t *testing.T, svc *social.Service, email string) *models.User {
	t.Helper()
	u, err := svc.SignUp(anon(), models.SignUpRequest{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "123456",
	})
	require.NoError(t, err)
	return u
}

func TestSignUpDuplicateEmailFailsAndMutatesNothing(t *testing.T) {
	svc, st := newTestService(t)
	signUp(t, svc, "a@x.com")

	_, err := svc.SignUp(anon(), models.SignUpRequest{
		Name:     "other",
		Email:    "a@x.com",
		Password: "different",
	})
	require.ErrorIs(t, err, social.ErrEmailTaken)

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	u := signUp(t, svc, "a@x.com")

	tok, err := svc.Login(anon(), models.LoginRequest{Email: "a@x.com", Password: "123456"})
	require.NoError(t, err)

	// The token must carry the same id it was issued for.
	session, err := auth.Resolve(auth.NewJWTCodec("test-secret"), tok.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, session.UserID)

	_, err = svc.Login(anon(), models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, social.ErrInvalidCredentials)

	_, err = svc.Login(anon(), models.LoginRequest{Email: "ghost@x.com", Password: "123456"})
	require.ErrorIs(t, err, social.ErrAccountNotFound)
}

func TestMeRequiresAuthentication(t *testing.T) {
	svc, _ := newTestService(t)
	u := signUp(t, svc, "a@x.com")

	_, err := svc.Me(anon(), social.NoArgs{})
	require.ErrorIs(t, err, social.ErrNotAuthenticated)

	me, err := svc.Me(as(u.ID), social.NoArgs{})
	require.NoError(t, err)
	require.Equal(t, u.ID, me.ID)
}

func TestUpdateMyInfoMergesOnlyPresentFields(t *testing.T) {
	svc, _ := newTestService(t)
	u := signUp(t, svc, "a@x.com")

	age := 23
	updated, err := svc.UpdateMyInfo(as(u.ID), models.UpdateMyInfoRequest{Age: &age})
	require.NoError(t, err)
	require.Equal(t, u.Name, updated.Name)
	require.Equal(t, 23, *updated.Age)

	name := "Fong"
	updated, err = svc.UpdateMyInfo(as(u.ID), models.UpdateMyInfoRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Fong", updated.Name)
	require.Equal(t, 23, *updated.Age)
}

func TestAddFriendIsSymmetric(t *testing.T) {
	svc, st := newTestService(t)
	a := signUp(t, svc, "a@x.com")
	b := signUp(t, svc, "b@x.com")

	updated, err := svc.AddFriend(as(a.ID), models.AddFriendRequest{UserID: b.ID})
	require.NoError(t, err)
	require.Contains(t, updated.FriendIDs, b.ID)

	ctx := context.Background()
	friendsOfA, err := svc.Friends(ctx, updated)
	require.NoError(t, err)
	require.Len(t, friendsOfA, 1)
	require.Equal(t, b.ID, friendsOfA[0].ID)

	freshB, err := st.GetUser(ctx, b.ID)
	require.NoError(t, err)
	require.Contains(t, freshB.FriendIDs, a.ID)
}

func TestUserByName(t *testing.T) {
	svc, _ := newTestService(t)
	a := signUp(t, svc, "a@x.com")

	name := "Fong"
	_, err := svc.UpdateMyInfo(as(a.ID), models.UpdateMyInfoRequest{Name: &name})
	require.NoError(t, err)

	found, err := svc.UserByName(anon(), social.NameArgs{Name: "Fong"})
	require.NoError(t, err)
	require.Equal(t, a.ID, found.ID)

	_, err = svc.UserByName(anon(), social.NameArgs{Name: "Nobody"})
	require.ErrorIs(t, err, social.ErrUserNotFound)
}

func TestAddFriendRejectsDuplicatesAndSelf(t *testing.T) {
	svc, _ := newTestService(t)
	a := signUp(t, svc, "a@x.com")
	b := signUp(t, svc, "b@x.com")

	_, err := svc.AddFriend(as(a.ID), models.AddFriendRequest{UserID: b.ID})
	require.NoError(t, err)

	_, err = svc.AddFriend(as(a.ID), models.AddFriendRequest{UserID: b.ID})
	require.ErrorIs(t, err, social.ErrAlreadyFriends)

	// The reverse direction is already a friendship too.
	_, err = svc.AddFriend(as(b.ID), models.AddFriendRequest{UserID: a.ID})
	require.ErrorIs(t, err, social.ErrAlreadyFriends)

	_, err = svc.AddFriend(as(a.ID), models.AddFriendRequest{UserID: a.ID})
	require.ErrorIs(t, err, social.ErrSelfFriend)

	_, err = svc.AddFriend(as(a.ID), models.AddFriendRequest{UserID: 999})
	require.ErrorIs(t, err, social.ErrUserNotFound)
}

func TestAddPostSetsAuthorAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	a := signUp(t, svc, "a@x.com")

	post, err := svc.AddPost(as(a.ID), models.AddPostRequest{Title: "T", Body: "B"})
	require.NoError(t, err)
	require.Equal(t, a.ID, post.AuthorID)
	require.Empty(t, post.LikeGiverIDs)
	require.False(t, post.CreatedAt.IsZero())
}

func TestLikePostIsAnInvolution(t *testing.T) {
	svc, _ := newTestService(t)
	a := signUp(t, svc, "a@x.com")
	b := signUp(t, svc, "b@x.com")

	post, err := svc.AddPost(as(a.ID), models.AddPostRequest{Title: "T"})
	require.NoError(t, err)

	liked, err := svc.LikePost(as(b.ID), social.PostIDArgs{PostID: post.ID})
	require.NoError(t, err)
	require.Equal(t, []int64{b.ID}, liked.LikeGiverIDs)

	unliked, err := svc.LikePost(as(b.ID), social.PostIDArgs{PostID: post.ID})
	require.NoError(t, err)
	require.Empty(t, unliked.LikeGiverIDs)

	_, err = svc.LikePost(as(b.ID), social.PostIDArgs{PostID: 999})
	require.ErrorIs(t, err, social.ErrPostNotFound)
}

// The toggle keys on the caller's id, not the post's. A post whose like set
// happens to contain its own id must still gain the caller's like.
func TestLikePostTogglesOnCallerID(t *testing.T) {
	svc, st := newTestService(t)
	a := signUp(t, svc, "a@x.com")
	b := signUp(t, svc, "b@x.com")

	post, err := svc.AddPost(as(a.ID), models.AddPostRequest{Title: "T"})
	require.NoError(t, err)
	likeGivers := []int64{post.ID}
	_, err = st.UpdatePost(context.Background(), post.ID, store.PostUpdate{LikeGiverIDs: &likeGivers})
	require.NoError(t, err)

	liked, err := svc.LikePost(as(b.ID), social.PostIDArgs{PostID: post.ID})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{post.ID, b.ID}, liked.LikeGiverIDs)
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	svc, st := newTestService(t)
	a := signUp(t, svc, "a@x.com")
	b := signUp(t, svc, "b@x.com")

	post, err := svc.AddPost(as(a.ID), models.AddPostRequest{Title: "T"})
	require.NoError(t, err)

	_, err = svc.DeletePost(as(b.ID), social.PostIDArgs{PostID: post.ID})
	require.ErrorIs(t, err, social.ErrForbidden)

	// The post must survive the rejected attempt.
	_, err = st.GetPost(context.Background(), post.ID)
	require.NoError(t, err)

	deleted, err := svc.DeletePost(as(a.ID), social.PostIDArgs{PostID: post.ID})
	require.NoError(t, err)
	require.Equal(t, post.ID, deleted.ID)

	_, err = st.GetPost(context.Background(), post.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.DeletePost(as(a.ID), social.PostIDArgs{PostID: post.ID})
	require.ErrorIs(t, err, social.ErrPostNotFound)
}

func TestFieldResolution(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	a := signUp(t, svc, "a@x.com")
	b := signUp(t, svc, "b@x.com")

	_, err := svc.AddFriend(as(a.ID), models.AddFriendRequest{UserID: b.ID})
	require.NoError(t, err)
	post, err := svc.AddPost(as(a.ID), models.AddPostRequest{Title: "T"})
	require.NoError(t, err)
	_, err = svc.LikePost(as(b.ID), social.PostIDArgs{PostID: post.ID})
	require.NoError(t, err)

	view, err := svc.ResolvePost(ctx, post)
	require.NoError(t, err)
	require.NotNil(t, view.Author)
	require.Equal(t, a.ID, view.Author.ID)
	require.Len(t, view.LikeGivers, 1)
	require.Equal(t, b.ID, view.LikeGivers[0].ID)

	freshA, err := st.GetUser(ctx, a.ID)
	require.NoError(t, err)
	userView, err := svc.ResolveUser(ctx, freshA)
	require.NoError(t, err)
	require.Len(t, userView.Friends, 1)
	require.Equal(t, b.ID, userView.Friends[0].ID)
	require.Len(t, userView.Posts, 1)
	require.Equal(t, post.ID, userView.Posts[0].ID)
}

// An orphan post (author gone from the store) resolves its author to nil,
// not an error.
func TestAuthorAbsenceResolvesToNil(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	orphan, err := st.CreatePost(ctx, &models.Post{AuthorID: 999, Title: "ghost"})
	require.NoError(t, err)

	author, err := svc.Author(ctx, orphan)
	require.NoError(t, err)
	require.Nil(t, author)
}

// End-to-end scenario: sign up, log in, post with the issued token, and find
// the post attributed to the signup email.
func TestSignUpLoginPostScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	codec := auth.NewJWTCodec("test-secret")

	_, err := svc.SignUp(anon(), models.SignUpRequest{
		Email:    "a@x.com",
		Password: "secret",
	})
	require.NoError(t, err)

	tok, err := svc.Login(anon(), models.LoginRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	session, err := auth.Resolve(codec, tok.Token)
	require.NoError(t, err)

	c := &social.Ctx{Context: ctx, Session: session}
	_, err = svc.AddPost(c, models.AddPostRequest{Title: "T"})
	require.NoError(t, err)

	posts, err := svc.Posts(anon(), social.NoArgs{})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	author, err := svc.Author(ctx, &posts[0])
	require.NoError(t, err)
	require.NotNil(t, author)
	require.Equal(t, "a@x.com", author.Email)
}
