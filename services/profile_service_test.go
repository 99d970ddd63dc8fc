package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-net/commune/storage"
)

// memStore is an in-memory BlobStore recording every write.
type memStore struct {
	blobs map[string][]byte
	puts  int
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) Put(path string, data []byte) (string, error) {
	m.puts++
	m.blobs[path] = data
	return "/static/avatars/" + path, nil
}

func TestFetchAnonymousReturnsNil(t *testing.T) {
	svc := NewProfileService(newTestDB(t), newMemStore())

	profile, err := svc.Fetch(Anonymous)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestFetchMergesIdentityWithoutRow(t *testing.T) {
	svc := NewProfileService(newTestDB(t), newMemStore())

	profile, err := svc.Fetch(Identity{UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "u1", profile.ID)
	assert.Empty(t, profile.Username)
}

func TestFetchIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db, newMemStore())
	alice := seedProfile(t, db, "u1", "alice")

	first, err := svc.Fetch(asIdentity(alice))
	require.NoError(t, err)
	second, err := svc.Fetch(asIdentity(alice))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpsertRequiresAuth(t *testing.T) {
	svc := NewProfileService(newTestDB(t), newMemStore())

	_, err := svc.Upsert(Anonymous, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestUpsertKeepsStoredValues(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db, newMemStore())
	ident := Identity{UserID: "u1"}

	username := "a"
	name := "Smith"
	_, err := svc.Upsert(ident, ProfileUpdate{Username: &username, Name: &name})
	require.NoError(t, err)

	// Second upsert supplies nothing; stored values must survive.
	profile, err := svc.Upsert(ident, ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "a", profile.Username)
	assert.Equal(t, "Smith", profile.Name)
	assert.Contains(t, profile.AvatarURL, "ui-avatars.com")
	assert.False(t, profile.UpdatedAt.IsZero())
}

func TestUpsertEmptyUsername(t *testing.T) {
	svc := NewProfileService(newTestDB(t), newMemStore())

	_, err := svc.Upsert(Identity{UserID: "u1"}, ProfileUpdate{})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpsertUploadsAvatarPayload(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	svc := NewProfileService(db, store)
	ident := Identity{UserID: "u1"}

	username := "a"
	profile, err := svc.Upsert(ident, ProfileUpdate{
		Username: &username,
		Avatar:   &storage.Upload{Data: []byte("png-bytes"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/static/avatars/u1.png", profile.AvatarURL)
	assert.Equal(t, []byte("png-bytes"), store.blobs["u1.png"])
}

func TestUploadAvatarSizeCeiling(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(newTestDB(t), store)

	payload := &storage.Upload{
		Data:        bytes.Repeat([]byte{0xff}, 600000),
		ContentType: "image/png",
	}
	_, err := svc.UploadAvatar(Identity{UserID: "u1"}, payload)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Zero(t, store.puts, "no store mutation on oversized payload")
}

func TestUploadAvatarMissingPayload(t *testing.T) {
	svc := NewProfileService(newTestDB(t), newMemStore())

	_, err := svc.UploadAvatar(Identity{UserID: "u1"}, nil)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.UploadAvatar(Anonymous, &storage.Upload{Data: []byte("x")})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestUploadAvatarOverwritesByPath(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(newTestDB(t), store)
	ident := Identity{UserID: "u1"}

	url1, err := svc.UploadAvatar(ident, &storage.Upload{Data: []byte("one"), ContentType: "image/png"})
	require.NoError(t, err)
	url2, err := svc.UploadAvatar(ident, &storage.Upload{Data: []byte("two"), ContentType: "image/png"})
	require.NoError(t, err)

	assert.Equal(t, url1, url2)
	assert.Equal(t, []byte("two"), store.blobs["u1.png"])
}

func TestSearchExcludesCaller(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db, newMemStore())
	alice := seedProfile(t, db, "u1", "alice")
	seedProfile(t, db, "u2", "malice")
	seedProfile(t, db, "u3", "bob")

	results, err := svc.Search(asIdentity(alice), "ALI")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "malice", results[0].Username)
}

func TestSearchRequiresAuth(t *testing.T) {
	svc := NewProfileService(newTestDB(t), newMemStore())

	_, err := svc.Search(Anonymous, "a")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}
