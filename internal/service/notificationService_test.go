package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

type fakeNotificationRepo struct {
	created []*entity.Notification
	prefs   map[int64]*entity.NotificationPreferences
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{prefs: make(map[int64]*entity.NotificationPreferences)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(_ context.Context, userID int64, limit int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range f.created {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID int64) error {
	now := time.Now()
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			n.ReadAt = &now
			return nil
		}
	}
	return entity.ErrInvalidInput
}

func (f *fakeNotificationRepo) GetPreferences(_ context.Context, userID int64) (*entity.NotificationPreferences, error) {
	return f.prefs[userID], nil
}

func (f *fakeNotificationRepo) SavePreferences(_ context.Context, prefs *entity.NotificationPreferences) error {
	f.prefs[prefs.UserID] = prefs
	return nil
}

type fakeUserRepo struct {
	users map[int64]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *entity.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, _ int64, _ entity.UserRole) error { return nil }
func (f *fakeUserRepo) UpdateTelegramID(_ context.Context, _ int64, _ string) error    { return nil }
func (f *fakeUserRepo) GetAll(_ context.Context) ([]*entity.User, error)               { return nil, nil }

type fakePublisher struct {
	tasks []*Task
}

func (f *fakePublisher) Publish(_ context.Context, task *Task) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func newNotificationFixture() (*fakeNotificationRepo, *fakePublisher, NotificationService) {
	repo := newFakeNotificationRepo()
	users := &fakeUserRepo{users: map[int64]*entity.User{
		1: {ID: 1, Email: "sam@example.com", Name: "Sam"},
	}}
	publisher := &fakePublisher{}
	return repo, publisher, NewNotificationService(repo, users, publisher)
}

func TestGetPreferencesReturnsDefaultsWhenUnset(t *testing.T) {
	_, _, svc := newNotificationFixture()

	prefs, err := svc.GetPreferences(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPreferences, prefs.Prefs)
}

func TestSavePreferences(t *testing.T) {
	t.Run("unknown key is rejected", func(t *testing.T) {
		_, _, svc := newNotificationFixture()
		_, err := svc.SavePreferences(context.Background(), 1, map[string]bool{"email_everything": true})
		assert.ErrorIs(t, err, entity.ErrInvalidInput)
	})

	t.Run("partial update merges over defaults", func(t *testing.T) {
		_, _, svc := newNotificationFixture()

		saved, err := svc.SavePreferences(context.Background(), 1, map[string]bool{"email_waitlist": false})
		require.NoError(t, err)
		assert.False(t, saved.Prefs["email_waitlist"])
		assert.True(t, saved.Prefs["email_rsvp"], "untouched keys keep their defaults")

		reloaded, err := svc.GetPreferences(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, reloaded.Prefs["email_waitlist"])
	})
}

func TestNotifyWritesRecordAndGatesEmail(t *testing.T) {
	t.Run("allowed category enqueues email", func(t *testing.T) {
		repo, publisher, svc := newNotificationFixture()

		err := svc.Notify(context.Background(), 1, entity.CategoryRSVP, "You're in", "See you there", nil)
		require.NoError(t, err)

		require.Len(t, repo.created, 1)
		require.Len(t, publisher.tasks, 1)
		task := publisher.tasks[0]
		assert.Equal(t, TaskTypeSendEmail, task.Type)
		assert.Equal(t, "sam@example.com", task.Data["to"])
		assert.Equal(t, "You're in", task.Data["subject"])
	})

	t.Run("muted category keeps in-app record but no email", func(t *testing.T) {
		repo, publisher, svc := newNotificationFixture()

		_, err := svc.SavePreferences(context.Background(), 1, map[string]bool{"email_waitlist": false})
		require.NoError(t, err)

		err = svc.Notify(context.Background(), 1, entity.CategoryWaitlist, "A spot opened up", "Accept soon", nil)
		require.NoError(t, err)

		assert.Len(t, repo.created, 1)
		assert.Empty(t, publisher.tasks)
	})

	t.Run("master switch silences every category", func(t *testing.T) {
		repo, publisher, svc := newNotificationFixture()

		_, err := svc.SavePreferences(context.Background(), 1, map[string]bool{"email_enabled": false})
		require.NoError(t, err)

		err = svc.Notify(context.Background(), 1, entity.CategoryRSVP, "You're in", "", nil)
		require.NoError(t, err)

		assert.Len(t, repo.created, 1)
		assert.Empty(t, publisher.tasks)
	})
}
