package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-net/commune/models"
)

func TestCreateGroupSubscribesOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	owner := seedProfile(t, db, "u1", "alice")

	group, err := svc.Create(asIdentity(owner), CreateGroupInput{Name: "Bikers"})
	require.NoError(t, err)
	assert.Equal(t, "Bikers", group.Name)
	assert.Equal(t, owner.ID, group.OwnerID)
	assert.Equal(t, "alice", group.Owner.Username)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("user_id = ? AND group_id = ?", owner.ID, group.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "owner must be subscribed right after creation")
}

func TestCreateGroupRequiresAuth(t *testing.T) {
	svc := NewGroupService(newTestDB(t))

	_, err := svc.Create(Anonymous, CreateGroupInput{Name: "Bikers"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestCreateGroupEmptyName(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	owner := seedProfile(t, db, "u1", "alice")

	_, err := svc.Create(asIdentity(owner), CreateGroupInput{Name: "   "})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSearchPublicExcludesPrivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	owner := seedProfile(t, db, "u1", "alice")

	_, err := svc.Create(asIdentity(owner), CreateGroupInput{Name: "Bikers"})
	require.NoError(t, err)
	_, err = svc.Create(asIdentity(owner), CreateGroupInput{Name: "Bike Club", IsPrivate: true})
	require.NoError(t, err)

	groups, err := svc.SearchPublic("bik")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Bikers", groups[0].Name)
	assert.Equal(t, "alice", groups[0].Owner.Username)

	// No prefix still never leaks private groups.
	groups, err = svc.SearchPublic("")
	require.NoError(t, err)
	for _, g := range groups {
		assert.False(t, g.IsPrivate)
	}
}

func TestListSubscribed(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedProfile(t, db, "u1", "alice")
	bob := seedProfile(t, db, "u2", "bob")

	mine, err := svc.Create(asIdentity(alice), CreateGroupInput{Name: "Bikers"})
	require.NoError(t, err)
	_, err = svc.Create(asIdentity(bob), CreateGroupInput{Name: "Hikers"})
	require.NoError(t, err)

	groups, err := svc.ListSubscribed(asIdentity(alice))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, mine.ID, groups[0].ID)
}

func TestListSubscribedRequiresAuth(t *testing.T) {
	svc := NewGroupService(newTestDB(t))

	_, err := svc.ListSubscribed(Anonymous)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestDetailComposition(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	threads := NewThreadService(db)
	alice := seedProfile(t, db, "u1", "alice")
	bob := seedProfile(t, db, "u2", "bob")

	group, err := svc.Create(asIdentity(alice), CreateGroupInput{Name: "Bikers"})
	require.NoError(t, err)
	require.NoError(t, svc.Join(asIdentity(bob), group.ID))

	old := models.ThreadEntry{
		Kind: models.EntryKindPost, Title: "First", Content: "c",
		GroupID: group.ID, UserID: alice.ID,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&old).Error)
	newer, err := threads.CreatePost(asIdentity(bob), CreatePostInput{
		Title: "Second", Content: "c", GroupID: group.ID,
	})
	require.NoError(t, err)
	_, err = threads.CreateComment(asIdentity(alice), CreateCommentInput{
		Content: "reply", GroupID: group.ID, ParentID: newer.ID,
	})
	require.NoError(t, err)

	detail, err := svc.Detail(group.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Owner.Username)

	// Top-level posts only, newest first.
	require.Len(t, detail.Posts, 2)
	assert.Equal(t, "Second", detail.Posts[0].Title)
	assert.Equal(t, "First", detail.Posts[1].Title)
	assert.Equal(t, "bob", detail.Posts[0].Author.Username)

	memberIDs := make([]string, len(detail.Members))
	for i, m := range detail.Members {
		memberIDs[i] = m.ID
	}
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, memberIDs)
}

func TestDetailNotFound(t *testing.T) {
	svc := NewGroupService(newTestDB(t))

	_, err := svc.Detail("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinRequiresAuth(t *testing.T) {
	svc := NewGroupService(newTestDB(t))

	err := svc.Join(Anonymous, "g1")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestJoinIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedProfile(t, db, "u1", "alice")
	group, err := svc.Create(asIdentity(alice), CreateGroupInput{Name: "Bikers"})
	require.NoError(t, err)

	require.NoError(t, svc.Join(asIdentity(alice), group.ID))
	require.NoError(t, svc.Join(asIdentity(alice), group.ID))

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLeaveMissingSubscriptionIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedProfile(t, db, "u1", "alice")

	assert.NoError(t, svc.Leave(asIdentity(alice), "nonexistent"))
}

func TestAddAndRemoveMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedProfile(t, db, "u1", "alice")
	bob := seedProfile(t, db, "u2", "bob")
	group, err := svc.Create(asIdentity(alice), CreateGroupInput{Name: "Bikers"})
	require.NoError(t, err)

	require.NoError(t, svc.AddMember(asIdentity(alice), group.ID, bob.ID))
	subscribed, err := svc.ListSubscribed(asIdentity(bob))
	require.NoError(t, err)
	require.Len(t, subscribed, 1)

	require.NoError(t, svc.RemoveMember(asIdentity(alice), group.ID, bob.ID))
	subscribed, err = svc.ListSubscribed(asIdentity(bob))
	require.NoError(t, err)
	assert.Empty(t, subscribed)
}

func TestCreateGroupRollsBackOnSubscribeFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedProfile(t, db, "u1", "alice")

	// Force the subscription insert inside the transaction to fail.
	require.NoError(t, db.Migrator().DropTable(&models.Subscription{}))

	_, err := svc.Create(asIdentity(alice), CreateGroupInput{Name: "Bikers"})
	require.Error(t, err)
	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "group must not survive a failed owner subscription")
}
