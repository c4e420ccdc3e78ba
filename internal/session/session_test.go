package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/techvote/techvote/internal/geo"
	"github.com/techvote/techvote/internal/models"
	"github.com/techvote/techvote/internal/preview"
	"github.com/techvote/techvote/internal/report"
	"github.com/techvote/techvote/internal/rumor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(ttl time.Duration) (*Store, *preview.Registry) {
	previews := preview.NewRegistry("/api/v1/previews")
	deps := Deps{
		Selector:      report.NewSelector(geo.Default()),
		Previews:      previews,
		Sink:          report.LogSink{},
		ReportOptions: report.Options{MaxAttachmentBytes: 1 << 20},
		Assessor:      rumor.NewChecker(nil, nil, rumor.Options{}),
	}
	return NewStore(deps, ttl, 0), previews
}

func TestStateTransitions(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, models.LanguageEnglish, s.Language)
	assert.Equal(t, models.ViewHome, s.View)

	assert.Equal(t, models.LanguageBangla, s.ToggleLanguage())
	assert.Equal(t, models.LanguageEnglish, s.ToggleLanguage())

	require.NoError(t, s.SetLanguage(models.LanguageBangla))
	assert.ErrorIs(t, s.SetLanguage("fr"), ErrUnknownLanguage)
	assert.Equal(t, models.LanguageBangla, s.Language)

	require.NoError(t, s.Navigate(models.ViewRumorChecker))
	assert.ErrorIs(t, s.Navigate("SETTINGS"), ErrUnknownView)
	assert.Equal(t, models.ViewRumorChecker, s.View)
}

func TestStoreCreateGetDelete(t *testing.T) {
	st, _ := newTestStore(time.Hour)

	s := st.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, report.StateEditing, s.Report.State())
	assert.Equal(t, rumor.DefaultCategory, s.Rumor.Category())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	state, err := got.Update(func(st *State) error { return st.Navigate(models.ViewJourney) })
	require.NoError(t, err)
	assert.Equal(t, models.ViewJourney, state.View)
	assert.Equal(t, models.ViewJourney, s.State().View)

	assert.True(t, st.Delete(s.ID))
	assert.False(t, st.Delete(s.ID))
	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReleasesPreviews(t *testing.T) {
	st, previews := newTestStore(time.Hour)
	s := st.Create()

	err := s.Do(func() error {
		_, err := s.Report.AttachFile("booth.jpg", "image/jpeg", []byte("jpeg"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, previews.Live())

	st.Delete(s.ID)
	assert.Equal(t, 0, previews.Live())
}

func TestClosedSessionIsNotRevived(t *testing.T) {
	st, previews := newTestStore(time.Hour)
	s := st.Create()
	require.NoError(t, s.Do(func() error {
		_, err := s.Report.AttachFile("booth.jpg", "image/jpeg", []byte("jpeg"))
		return err
	}))

	// The janitor closes a session before the cache entry is replaced.
	s.close()

	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 0, previews.Live())

	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiredSessionsAreSwept(t *testing.T) {
	st, previews := newTestStore(20 * time.Millisecond)
	s := st.Create()
	require.NoError(t, s.Do(func() error {
		_, err := s.Report.AttachFile("clip.mp4", "video/mp4", []byte("mp4"))
		return err
	}))

	time.Sleep(50 * time.Millisecond)
	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	st.Sweep()
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 0, previews.Live())
}

func TestCloseEndsEverySession(t *testing.T) {
	st, previews := newTestStore(time.Hour)
	for i := 0; i < 3; i++ {
		s := st.Create()
		require.NoError(t, s.Do(func() error {
			_, err := s.Report.AttachFile("a.png", "image/png", []byte("png"))
			return err
		}))
	}
	assert.Equal(t, 3, previews.Live())

	st.Close()
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 0, previews.Live())
}

func TestRumorCheckDoesNotHoldSessionLock(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	s := st.Create()

	out, err := s.Rumor.Check(context.Background(), models.RumorCheckRequest{Text: "Is voting postponed?"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusLikelyMisleading, out.Result.Status)

	// The lock is free after a check.
	assert.NoError(t, s.Do(func() error { return nil }))
}
