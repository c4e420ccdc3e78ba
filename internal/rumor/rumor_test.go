package rumor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/database"
	"github.com/techvote/techvote/internal/llm"
	"github.com/techvote/techvote/internal/models"
)

func leakOpts() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	}
}

var remoteResult = models.RumorCheckResult{
	Status:       models.StatusLikelyAccurate,
	Summary:      "The Election Commission published this schedule.",
	KeyQuestions: []string{"Is the EC website the source?"},
	SafetyTip:    "Share the official link instead of screenshots.",
	IsHarmful:    false,
}

type fakeProvider struct {
	calls  atomic.Int32
	result *models.RumorCheckResult
	err    error
	block  chan struct{}
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Assess(ctx context.Context, _ models.RumorCheckRequest) (*models.RumorCheckResult, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	r := f.result.Clone()
	return &r, nil
}

func fallbackOnly() *Checker {
	return NewChecker(nil, nil, Options{})
}

func TestFallbackTable(t *testing.T) {
	media := EncodeMedia([]byte("jpeg"), "image/jpeg")

	tests := []struct {
		name    string
		req     models.RumorCheckRequest
		status  models.RumorStatus
		harmful bool
		rule    string
	}{
		{"media wins over keywords", models.RumorCheckRequest{Text: "violence and postpone", Media: media}, models.StatusNeedsExpertReview, false, "media"},
		{"media only", models.RumorCheckRequest{Media: media}, models.StatusNeedsExpertReview, false, "media"},
		{"postpone", models.RumorCheckRequest{Text: "The election is POSTPONED"}, models.StatusLikelyMisleading, false, "postponement"},
		{"cancel beats violence", models.RumorCheckRequest{Text: "cancelled due to violence"}, models.StatusLikelyMisleading, false, "postponement"},
		{"hate", models.RumorCheckRequest{Text: "hate speech at the centre"}, models.StatusNeedsExpertReview, true, "violence"},
		{"violence", models.RumorCheckRequest{Text: "Violence reported"}, models.StatusNeedsExpertReview, true, "violence"},
		{"default", models.RumorCheckRequest{Text: "Polls open at 8am"}, models.StatusUnverifiable, false, "default"},
	}

	f := NewFallbackResponder(nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rule, f.Match(tt.req).Name)
			res := f.Respond(context.Background(), tt.req)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.harmful, res.IsHarmful)
			assert.NoError(t, res.Validate())
		})
	}
}

func TestFallbackRespondReturnsCopy(t *testing.T) {
	f := NewFallbackResponder(nil, 0)
	res := f.Respond(context.Background(), models.RumorCheckRequest{Text: "x"})
	res.KeyQuestions[0] = "mutated"

	again := f.Respond(context.Background(), models.RumorCheckRequest{Text: "x"})
	assert.Equal(t, "Who is the original author?", again.KeyQuestions[0])
}

func TestFallbackDelayHonorsContext(t *testing.T) {
	f := NewFallbackResponder(nil, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := f.Respond(ctx, models.RumorCheckRequest{Text: "x"})
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, models.StatusUnverifiable, res.Status)
}

func TestCanSubmit(t *testing.T) {
	assert.False(t, CanSubmit("", nil))
	assert.False(t, CanSubmit("  \n\t", nil))
	assert.True(t, CanSubmit("a", nil))
	assert.True(t, CanSubmit("", &models.Media{Data: "eA==", MIMEType: "image/png"}))
}

func TestMediaFromDataURL(t *testing.T) {
	m, err := MediaFromDataURL("data:image/png;base64,cG5n", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, &models.Media{Data: "cG5n", MIMEType: "image/png"}, m)

	m, err = MediaFromDataURL("cG5n", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", m.MIMEType)

	for _, bad := range []string{"", "data:image/png,cG5n", "data:image/png;base64", "!!!"} {
		_, err := MediaFromDataURL(bad, "image/png")
		assert.ErrorIs(t, err, ErrInvalidMedia, bad)
	}
	_, err = MediaFromDataURL("cG5n", "")
	assert.ErrorIs(t, err, ErrInvalidMedia)
}

func TestEncodeMedia(t *testing.T) {
	m := EncodeMedia([]byte("png"), "image/png")
	assert.Equal(t, "cG5n", m.Data)
	assert.Equal(t, "image/png", m.MIMEType)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "plain text", NormalizeText("  plain text \n"))
	assert.Equal(t, "a < b", NormalizeText("a < b"))

	got := NormalizeText(`<div><p>Voting   is <b>cancelled</b></p><script>alert(1)</script><p>Share now!</p></div>`)
	assert.Equal(t, "Voting is cancelled\nShare now!", got)
}

func TestRequestHash(t *testing.T) {
	a := RequestHash(models.RumorCheckRequest{Text: "x", Category: "General"})
	b := RequestHash(models.RumorCheckRequest{Text: "x", Category: "Other"})
	c := RequestHash(models.RumorCheckRequest{Text: "x", Category: "General", Media: &models.Media{Data: "eA==", MIMEType: "image/png"}})
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, RequestHash(models.RumorCheckRequest{Text: "x", Category: "General"}))
}

func TestCheckerWithoutRemoteUsesFallback(t *testing.T) {
	out := fallbackOnly().Check(context.Background(), models.RumorCheckRequest{Text: "Election postponed!", Category: "General"})
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Equal(t, models.StatusLikelyMisleading, out.Result.Status)
}

func TestCheckerRemoteAndCache(t *testing.T) {
	remote := &fakeProvider{result: &remoteResult}
	c := NewChecker(remote, nil, Options{CacheTTL: time.Minute})
	req := models.RumorCheckRequest{Text: "EC publishes schedule", Category: "Election Date/Rules"}

	out := c.Check(context.Background(), req)
	assert.Equal(t, models.SourceRemote, out.Source)
	if diff := cmp.Diff(remoteResult, out.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	out = c.Check(context.Background(), req)
	assert.Equal(t, models.SourceCache, out.Source)
	assert.Equal(t, int32(1), remote.calls.Load())
}

func TestCheckerRemoteFailureFallsBack(t *testing.T) {
	remote := &fakeProvider{err: errors.New("quota exceeded")}
	c := NewChecker(remote, nil, Options{})

	out := c.Check(context.Background(), models.RumorCheckRequest{Text: "violence near the booth"})
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Equal(t, models.StatusNeedsExpertReview, out.Result.Status)
	assert.True(t, out.Result.IsHarmful)
}

func TestCheckerInvalidRemoteResultFallsBack(t *testing.T) {
	remote := &fakeProvider{result: &models.RumorCheckResult{Status: "Maybe", Summary: "s"}}
	c := NewChecker(remote, nil, Options{})

	out := c.Check(context.Background(), models.RumorCheckRequest{Text: "anything"})
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Equal(t, models.StatusUnverifiable, out.Result.Status)
}

func TestCheckerTimeoutFallsBack(t *testing.T) {
	remote := &fakeProvider{result: &remoteResult, block: make(chan struct{})}
	c := NewChecker(remote, nil, Options{Timeout: 20 * time.Millisecond})

	out := c.Check(context.Background(), models.RumorCheckRequest{Text: "anything"})
	assert.Equal(t, models.SourceFallback, out.Source)
}

func TestCheckerWithHTTPAssessor(t *testing.T) {
	reply := `{"status":"Likely Accurate","summary":"Matches the EC notice.","keyQuestions":["Is it on ecs.gov.bd?"],"safetyTip":"Prefer official sources.","isHarmful":false}`
	var garbage atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if garbage.Load() {
			json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]any{{"type": "text", "text": "I cannot help with that."}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": reply}},
		})
	}))
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(&config.LLMConfig{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)
	c := NewChecker(p, nil, Options{})

	out := c.Check(context.Background(), models.RumorCheckRequest{Text: "Polling hours announced"})
	assert.Equal(t, models.SourceRemote, out.Source)
	assert.Equal(t, models.StatusLikelyAccurate, out.Result.Status)

	garbage.Store(true)
	out = c.Check(context.Background(), models.RumorCheckRequest{Text: "Polling hours changed"})
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Equal(t, models.StatusUnverifiable, out.Result.Status)
}

func TestCheckerServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"overloaded"}}`)
	}))
	defer srv.Close()

	p, err := llm.NewAnthropicProvider(&config.LLMConfig{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)

	out := NewChecker(p, nil, Options{}).Check(context.Background(), models.RumorCheckRequest{Text: "x"})
	assert.Equal(t, models.SourceFallback, out.Source)
}

func TestCheckerRecordsHistory(t *testing.T) {
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	remote := &fakeProvider{result: &remoteResult}
	req := models.RumorCheckRequest{Text: "EC publishes schedule", Category: "General"}

	out := NewChecker(remote, store, Options{}).Check(context.Background(), req)
	require.Equal(t, models.SourceRemote, out.Source)

	records, err := store.ListChecks(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fake", records[0].Provider)
	assert.NotContains(t, records[0].ResultJSON, req.Text)

	// A fresh checker with an empty memory cache reuses the stored verdict.
	out = NewChecker(remote, store, Options{}).Check(context.Background(), req)
	assert.Equal(t, models.SourceCache, out.Source)
	assert.Equal(t, int32(1), remote.calls.Load())
}

func TestCycleRejectsEmptyInput(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts()...)

	remote := &fakeProvider{result: &remoteResult}
	c := NewCycle(NewChecker(remote, nil, Options{}))

	for _, text := range []string{"", "   ", "<p><br></p>", "<div> </div>\n"} {
		_, err := c.Check(context.Background(), models.RumorCheckRequest{Text: text})
		assert.ErrorIs(t, err, ErrNothingToCheck, "%q", text)
	}
	assert.False(t, c.Loading())
	assert.Nil(t, c.Result())
	assert.Equal(t, int32(0), remote.calls.Load())
}

func TestCheckerNeverSendsEmptyRequests(t *testing.T) {
	remote := &fakeProvider{result: &remoteResult}
	c := NewChecker(remote, nil, Options{})

	out := c.Check(context.Background(), models.RumorCheckRequest{Text: "<p><br></p>", Category: "General"})
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Equal(t, int32(0), remote.calls.Load())
}

func TestCheckerThrottledCheckFallsBack(t *testing.T) {
	remote := &fakeProvider{result: &remoteResult}
	c := NewChecker(remote, nil, Options{RequestsPerMinute: 1, Timeout: 50 * time.Millisecond})

	out := c.Check(context.Background(), models.RumorCheckRequest{Text: "first claim"})
	assert.Equal(t, models.SourceRemote, out.Source)

	start := time.Now()
	out = c.Check(context.Background(), models.RumorCheckRequest{Text: "second claim"})
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), remote.calls.Load())
}

type assessorFunc func(ctx context.Context, req models.RumorCheckRequest) Outcome

func (f assessorFunc) Check(ctx context.Context, req models.RumorCheckRequest) Outcome {
	return f(ctx, req)
}

func TestCycleRecoversFromPanickingAssessor(t *testing.T) {
	var calls atomic.Int32
	c := NewCycle(assessorFunc(func(ctx context.Context, req models.RumorCheckRequest) Outcome {
		if calls.Add(1) == 1 {
			panic("assessor exploded")
		}
		return fallbackOnly().Check(ctx, req)
	}))

	assert.Panics(t, func() {
		c.Check(context.Background(), models.RumorCheckRequest{Text: "first"})
	})
	assert.False(t, c.Loading())

	out, err := c.Check(context.Background(), models.RumorCheckRequest{Text: "second"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, out.Source)
}

func TestCycleReplacesResult(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts()...)

	c := NewCycle(fallbackOnly())
	assert.Equal(t, DefaultCategory, c.Category())

	out, err := c.Check(context.Background(), models.RumorCheckRequest{Text: "postpone"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusLikelyMisleading, out.Result.Status)
	assert.Equal(t, models.StatusLikelyMisleading, c.Result().Status)

	_, err = c.Check(context.Background(), models.RumorCheckRequest{Text: "hello", Category: "Other"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnverifiable, c.Result().Status)
	assert.Equal(t, "Other", c.Category())
	assert.Equal(t, models.SourceFallback, c.Last().Source)

	c.Result().KeyQuestions[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Result().KeyQuestions[0])
}

func TestCycleBusyWhileLoading(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts()...)

	remote := &fakeProvider{result: &remoteResult, block: make(chan struct{})}
	c := NewCycle(NewChecker(remote, nil, Options{}))

	// Seed a previous result so clearing at the start is observable.
	c.result = &models.RumorCheckResult{Status: models.StatusUnverifiable}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, err := c.Check(context.Background(), models.RumorCheckRequest{Text: "first"})
		assert.NoError(t, err)
		assert.Equal(t, models.SourceRemote, out.Source)
	}()

	require.Eventually(t, c.Loading, time.Second, time.Millisecond)
	assert.Nil(t, c.Result())

	_, err := c.Check(context.Background(), models.RumorCheckRequest{Text: "second"})
	assert.ErrorIs(t, err, ErrBusy)

	close(remote.block)
	wg.Wait()

	assert.False(t, c.Loading())
	assert.Equal(t, models.StatusLikelyAccurate, c.Result().Status)
	assert.Equal(t, int32(1), remote.calls.Load())
}
