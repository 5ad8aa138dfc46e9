package service

import (
	"context"
	"errors"
	"testing"

	"github.com/markhub/markhub/internal/profile"
	"github.com/markhub/markhub/internal/profile/repository"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/stretchr/testify/require"
)

type fakeAvatars struct {
	uploaded []string
	removed  []string
	fail     error
}

func (f *fakeAvatars) RescaleAndUpload(_ context.Context, uid, _ string) (profile.Avatar, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.uploaded = append(f.uploaded, uid)
	return profile.Avatar{"md": {ID: "a", URL: "http://cdn/" + uid + "/avatars/md", Width: 64, Height: 64, Ext: "jpeg"}}, nil
}

func (f *fakeAvatars) Remove(_ context.Context, uid string) error {
	f.removed = append(f.removed, uid)
	return nil
}

func strp(s string) *string { return &s }

func newTestService() (*Service, *repository.MemoryRepo, *fakeAvatars) {
	repo := repository.NewMemoryRepo()
	avatars := &fakeAvatars{}
	return New(repo, avatars), repo, avatars
}

func TestGet_MissingProfileIsEmpty(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, p.ID)
	require.Nil(t, p.DisplayName)
}

func TestUpdate_CreatesLazily(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	p, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark_01"), Bio: strp("hi")})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, p.CDate, p.MDate)
	require.Equal(t, "mark_01", *p.DisplayName)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, p.ID, stored.ID)
}

func TestUpdate_PreservesIdentityAndBumpsStamp(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	first, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark")})
	require.NoError(t, err)

	second, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark"), Bio: strp("updated")})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.CDate, second.CDate)
	require.GreaterOrEqual(t, second.MDate, first.MDate)
	require.Equal(t, "updated", *second.Bio)
}

func TestUpdate_OmittedFieldsAreCleared(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark"), Bio: strp("hi")})
	require.NoError(t, err)

	p, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark")})
	require.NoError(t, err)
	require.Nil(t, p.Bio)
}

func TestUpdate_DisplayNameTaken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u2", Payload{DisplayName: strp("mark")})
	require.True(t, apperr.IsKind(err, apperr.KindExists))
}

func TestUpdate_KeepingOwnDisplayNameIsNotACollision(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Update(ctx, "u1", Payload{DisplayName: strp("mark")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u1", Payload{DisplayName: strp("mark"), Bio: strp("hi")})
	require.NoError(t, err)
}

func TestUpdate_InvalidDisplayName(t *testing.T) {
	svc, _, _ := newTestService()

	for _, name := range []string{"a", "has space", "bad!chars", ""} {
		_, err := svc.Update(context.Background(), "u1", Payload{DisplayName: strp(name)})
		require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument), "name %q", name)
	}
}

func TestUpdate_InvalidLink(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Update(context.Background(), "u1", Payload{BlogURL: strp("ftp://example.com")})
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestUpdate_AvatarUpdateRunsPipeline(t *testing.T) {
	ctx := context.Background()
	svc, _, avatars := newTestService()

	p, err := svc.Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarUpdate, Data: "data:image/png;base64,iVBORw0KGgo="}})
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, avatars.uploaded)
	require.Contains(t, p.Avatar, "md")
}

func TestUpdate_AvatarSurvivesUnrelatedUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarUpdate, Data: "data:image/png;base64,iVBORw0KGgo="}})
	require.NoError(t, err)

	p, err := svc.Update(ctx, "u1", Payload{Bio: strp("hi")})
	require.NoError(t, err)
	require.Contains(t, p.Avatar, "md")
}

func TestUpdate_AvatarRemove(t *testing.T) {
	ctx := context.Background()
	svc, _, avatars := newTestService()

	_, err := svc.Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarUpdate, Data: "data:image/png;base64,iVBORw0KGgo="}})
	require.NoError(t, err)

	p, err := svc.Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarRemove}})
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, avatars.removed)
	require.Nil(t, p.Avatar)
}

func TestUpdate_FailedAvatarUploadLeavesProfileUntouched(t *testing.T) {
	ctx := context.Background()
	svc, repo, avatars := newTestService()
	avatars.fail = apperr.InvalidArgument("invalid image")

	_, err := svc.Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarUpdate, Data: "junk"}})
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, stored)
}

type failingSetRepo struct {
	*repository.MemoryRepo
}

func (r *failingSetRepo) Set(context.Context, string, profile.Profile) error {
	return errors.New("write refused")
}

func TestUpdate_FailedStoreKeepsRenditions(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryRepo()
	avatars := &fakeAvatars{}

	_, err := New(mem, avatars).Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarUpdate, Data: "data:image/png;base64,iVBORw0KGgo="}})
	require.NoError(t, err)

	svc := New(&failingSetRepo{mem}, avatars)
	_, err = svc.Update(ctx, "u1", Payload{Avatar: AvatarOp{Type: AvatarRemove}})
	require.True(t, apperr.IsKind(err, apperr.KindInternal))
	require.Empty(t, avatars.removed, "stored objects must survive a failed profile write")

	stored, err := mem.Get(ctx, "u1")
	require.NoError(t, err)
	require.Contains(t, stored.Avatar, "md", "profile still references its renditions")
}

func TestUpdate_UnknownAvatarOp(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Update(context.Background(), "u1", Payload{Avatar: AvatarOp{Type: "rotate"}})
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}
