package family

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository/memory"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
)

type fakeMailer struct {
	invites []sentInvite
}

type sentInvite struct {
	to    string
	token string
}

func (f *fakeMailer) SendFamilyInvite(_ context.Context, to, _, token string) error {
	f.invites = append(f.invites, sentInvite{to: to, token: token})
	return nil
}

func (f *fakeMailer) SendSOSAlert(context.Context, []string, string, string) error {
	return nil
}

type env struct {
	svc    *Service
	shares *memory.FamilyShareRepository
	users  *memory.UserRepository
	outbox *memory.OutboxRepository
	mailer *fakeMailer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		shares: memory.NewFamilyShareRepository(),
		users:  memory.NewUserRepository(),
		outbox: memory.NewOutboxRepository(),
		mailer: &fakeMailer{},
	}
	e.svc = NewService(e.shares, e.users, e.outbox, e.mailer, logger.NewLogger(nil))
	return e
}

func (e *env) addUser(t *testing.T, emailAddr string) *model.User {
	t.Helper()

	now := time.Now()
	u := &model.User{
		Base:     model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:    emailAddr,
		Timezone: "UTC",
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func TestInviteCreatesPendingShare(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")

	share, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: "kid@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, model.FamilyShareStatusPending, share.Status)
	assert.Equal(t, model.FamilyShareRoleViewer, share.Role, "role defaults to viewer")
	assert.Nil(t, share.MemberID)
	assert.NotEmpty(t, share.InviteToken)

	require.Len(t, e.mailer.invites, 1)
	assert.Equal(t, "kid@example.com", e.mailer.invites[0].to)
	assert.Equal(t, share.InviteToken, e.mailer.invites[0].token)

	events := e.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFamilyInvite, events[0].EventType)
}

func TestInviteSelfRejected(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")

	_, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: owner.Email,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestRespondAcceptBindsMember(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")
	member := e.addUser(t, "kid@example.com")

	share, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: member.Email,
		Role:        model.FamilyShareRoleManager,
	})
	require.NoError(t, err)

	got, err := e.svc.Respond(context.Background(), member.ID, share.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.FamilyShareStatusAccepted, got.Status)
	require.NotNil(t, got.MemberID)
	assert.Equal(t, member.ID, *got.MemberID)
	assert.Equal(t, model.FamilyShareRoleManager, got.Role)
}

func TestRespondDecline(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")
	member := e.addUser(t, "kid@example.com")

	share, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: member.Email,
	})
	require.NoError(t, err)

	got, err := e.svc.Respond(context.Background(), member.ID, share.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.FamilyShareStatusDeclined, got.Status)
	assert.Nil(t, got.MemberID)
}

func TestRespondWrongAccountReadsAsNotFound(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")
	e.addUser(t, "kid@example.com")
	stranger := e.addUser(t, "stranger@example.com")

	share, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: "kid@example.com",
	})
	require.NoError(t, err)

	_, err = e.svc.Respond(context.Background(), stranger.ID, share.ID, true)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRespondTwiceConflicts(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")
	member := e.addUser(t, "kid@example.com")

	share, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: member.Email,
	})
	require.NoError(t, err)

	_, err = e.svc.Respond(context.Background(), member.ID, share.ID, true)
	require.NoError(t, err)

	_, err = e.svc.Respond(context.Background(), member.ID, share.ID, false)
	assert.True(t, apperrors.IsConflict(err))
}

func TestListCoversBothSidesOfShare(t *testing.T) {
	e := newEnv(t)
	owner := e.addUser(t, "owner@example.com")
	member := e.addUser(t, "kid@example.com")

	share, err := e.svc.Invite(context.Background(), owner.ID, &model.CreateFamilyShareRequest{
		MemberEmail: member.Email,
	})
	require.NoError(t, err)
	_, err = e.svc.Respond(context.Background(), member.ID, share.ID, true)
	require.NoError(t, err)

	forOwner, err := e.svc.List(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, forOwner, 1)

	forMember, err := e.svc.List(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Len(t, forMember, 1)
}
