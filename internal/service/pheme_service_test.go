package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheme-social/pheme-service/internal/domain"
)

type phemeFixture struct {
	users  *memUserRepo
	phemes *memPhemeRepo
	graph  *memGraphRepo
	svc    PhemeService
}

func newPhemeFixture(t *testing.T, userIDs ...uint) *phemeFixture {
	t.Helper()
	f := &phemeFixture{
		users:  newMemUserRepo(),
		phemes: newMemPhemeRepo(),
		graph:  newMemGraphRepo(),
	}
	f.svc = NewPhemeService(f.phemes, f.users, f.graph)
	for _, id := range userIDs {
		require.NoError(t, f.users.Create(context.Background(), &domain.User{ID: id, Name: userName(id)}))
	}
	return f
}

func userName(id uint) string {
	return "user-" + string(rune('a'+id))
}

func req(visibility byte, ownerID uint) *domain.PhemeRequest {
	return &domain.PhemeRequest{
		Visibility: visibility,
		Category:   "general",
		Text:       "hello there",
		UserID:     ownerID,
	}
}

func TestPhemeCreate(t *testing.T) {
	f := newPhemeFixture(t, 1)
	ctx := context.Background()

	pheme, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPublic), 1))
	require.NoError(t, err)

	assert.NotZero(t, pheme.ID)
	assert.Equal(t, uint(1), pheme.OwnerID)
	assert.Equal(t, uint(1), pheme.AuthorID)
	assert.Equal(t, domain.VisibilityPublic, pheme.Visibility)
	assert.Equal(t, "general", pheme.Category)
	assert.False(t, pheme.CreatedAt.IsZero())
}

func TestPhemeCreateValidation(t *testing.T) {
	f := newPhemeFixture(t, 1)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *domain.PhemeRequest
	}{
		{"nil request", nil},
		{"empty category", &domain.PhemeRequest{Text: "x", UserID: 1}},
		{"blank category", &domain.PhemeRequest{Category: "   ", Text: "x", UserID: 1}},
		{"empty text", &domain.PhemeRequest{Category: "c", UserID: 1}},
		{"zero owner", &domain.PhemeRequest{Category: "c", Text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, 1, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPhemeCreateWallPost(t *testing.T) {
	f := newPhemeFixture(t, 1, 2, 3)
	ctx := context.Background()
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))

	t.Run("friend wall allowed", func(t *testing.T) {
		pheme, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityProtected), 2))
		require.NoError(t, err)
		assert.Equal(t, uint(2), pheme.OwnerID)
		assert.Equal(t, uint(1), pheme.AuthorID)
	})

	t.Run("non-friend wall rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPublic), 3))
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("unknown wall owner rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPublic), 99))
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})
}

func TestPhemeGetVisibility(t *testing.T) {
	f := newPhemeFixture(t, 1, 2, 3, 4)
	ctx := context.Background()
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))
	require.NoError(t, f.graph.AddFollower(ctx, 3, 1)) // 3 follows 1

	private, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPrivate), 1))
	require.NoError(t, err)
	protected, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityProtected), 1))
	require.NoError(t, err)
	public, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPublic), 1))
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  uint
		phemeID uint
		wantErr bool
	}{
		{"owner reads private", 1, private.ID, false},
		{"friend blocked from private", 2, private.ID, true},
		{"friend reads protected", 2, protected.ID, false},
		{"follower blocked from protected", 3, protected.ID, true},
		{"follower reads public", 3, public.ID, false},
		{"stranger reads public", 4, public.ID, false},
		{"stranger blocked from protected", 4, protected.ID, true},
		{"stranger blocked from private", 4, private.ID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Get(ctx, tt.caller, tt.phemeID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.phemeID, got.ID)
		})
	}
}

func TestPhemeGetMissingAndForbiddenLookAlike(t *testing.T) {
	f := newPhemeFixture(t, 1, 2)
	ctx := context.Background()

	private, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPrivate), 1))
	require.NoError(t, err)

	_, missingErr := f.svc.Get(ctx, 2, 9999)
	_, forbiddenErr := f.svc.Get(ctx, 2, private.ID)

	assert.ErrorIs(t, missingErr, ErrNotFoundOrForbidden)
	assert.ErrorIs(t, forbiddenErr, ErrNotFoundOrForbidden)
	assert.Equal(t, missingErr, forbiddenErr)
}

func TestPhemeUpdate(t *testing.T) {
	f := newPhemeFixture(t, 1, 2)
	ctx := context.Background()
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))

	pheme, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPrivate), 1))
	require.NoError(t, err)

	t.Run("author updates", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, 1, pheme.ID, &domain.PhemeRequest{
			Visibility: byte(domain.VisibilityPublic),
			Category:   "news",
			Text:       "updated text",
			UserID:     1,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.VisibilityPublic, updated.Visibility)
		assert.Equal(t, "news", updated.Category)
		assert.Equal(t, "updated text", updated.Text)
	})

	t.Run("non-author rejected", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 2, pheme.ID, req(byte(domain.VisibilityPublic), 1))
		assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	})

	t.Run("wall owner cannot edit friend's post", func(t *testing.T) {
		wallPost, err := f.svc.Create(ctx, 2, req(byte(domain.VisibilityProtected), 1))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, 1, wallPost.ID, req(byte(domain.VisibilityPublic), 1))
		assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	})

	t.Run("missing pheme", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 1, 9999, req(byte(domain.VisibilityPublic), 1))
		assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	})
}

func TestPhemeDelete(t *testing.T) {
	f := newPhemeFixture(t, 1, 2)
	ctx := context.Background()
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))

	t.Run("owner deletes and gets the record back", func(t *testing.T) {
		pheme, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPublic), 1))
		require.NoError(t, err)

		deleted, err := f.svc.Delete(ctx, 1, pheme.ID)
		require.NoError(t, err)
		assert.Equal(t, pheme.ID, deleted.ID)
		assert.Equal(t, pheme.Text, deleted.Text)

		_, err = f.svc.Get(ctx, 1, pheme.ID)
		assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	})

	t.Run("author cannot delete from friend's wall", func(t *testing.T) {
		wallPost, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityProtected), 2))
		require.NoError(t, err)

		_, err = f.svc.Delete(ctx, 1, wallPost.ID)
		assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

		// The wall owner can.
		deleted, err := f.svc.Delete(ctx, 2, wallPost.ID)
		require.NoError(t, err)
		assert.Equal(t, wallPost.ID, deleted.ID)
	})
}

func TestPhemeListMine(t *testing.T) {
	f := newPhemeFixture(t, 1, 2)
	ctx := context.Background()

	for _, v := range []domain.Visibility{domain.VisibilityPrivate, domain.VisibilityProtected, domain.VisibilityPublic} {
		_, err := f.svc.Create(ctx, 1, req(byte(v), 1))
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, 2, req(byte(domain.VisibilityPublic), 2))
	require.NoError(t, err)

	mine, err := f.svc.ListMine(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, p := range mine {
		assert.Equal(t, uint(1), p.OwnerID)
	}
}

func TestPhemeListUser(t *testing.T) {
	f := newPhemeFixture(t, 1, 2, 3)
	ctx := context.Background()
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))

	for _, v := range []domain.Visibility{domain.VisibilityPrivate, domain.VisibilityProtected, domain.VisibilityPublic} {
		_, err := f.svc.Create(ctx, 1, req(byte(v), 1))
		require.NoError(t, err)
	}

	t.Run("owner sees all", func(t *testing.T) {
		got, err := f.svc.ListUser(ctx, 1, 1)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("friend sees protected and public", func(t *testing.T) {
		got, err := f.svc.ListUser(ctx, 2, 1)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("stranger sees public only", func(t *testing.T) {
		got, err := f.svc.ListUser(ctx, 3, 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, domain.VisibilityPublic, got[0].Visibility)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.svc.ListUser(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})
}

func TestPhemeFeed(t *testing.T) {
	f := newPhemeFixture(t, 1, 2, 3, 4)
	ctx := context.Background()
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))
	require.NoError(t, f.graph.AddFollower(ctx, 3, 1)) // 3 follows 1

	own, err := f.svc.Create(ctx, 1, req(byte(domain.VisibilityPrivate), 1))
	require.NoError(t, err)
	friendProtected, err := f.svc.Create(ctx, 2, req(byte(domain.VisibilityProtected), 2))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, 2, req(byte(domain.VisibilityPrivate), 2))
	require.NoError(t, err)
	followerPublic, err := f.svc.Create(ctx, 3, req(byte(domain.VisibilityPublic), 3))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, 3, req(byte(domain.VisibilityProtected), 3))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, 4, req(byte(domain.VisibilityPublic), 4))
	require.NoError(t, err)

	feed, err := f.svc.Feed(ctx, 1)
	require.NoError(t, err)

	ids := make([]uint, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{own.ID, friendProtected.ID, followerPublic.ID}, ids)
}

func TestPhemeFeedOrderingAndDedup(t *testing.T) {
	f := newPhemeFixture(t, 1, 2)
	ctx := context.Background()
	// 2 is both friend of and follower of 1.
	require.NoError(t, f.graph.AddFriend(ctx, 1, 2))
	require.NoError(t, f.graph.AddFollower(ctx, 2, 1))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		p := &domain.Pheme{
			OwnerID:    2,
			AuthorID:   2,
			Visibility: domain.VisibilityPublic,
			Category:   "general",
			Text:       "post",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.phemes.Create(ctx, p))
	}

	feed, err := f.svc.Feed(ctx, 1)
	require.NoError(t, err)

	require.Len(t, feed, 3)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt), "feed must be newest first")
	}
}
