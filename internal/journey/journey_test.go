package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvote/techvote/internal/models"
)

func TestStepsHaveEveryTip(t *testing.T) {
	require.Len(t, Steps, 3)
	for _, s := range Steps {
		for _, seg := range []Segment{SegmentGeneral, SegmentYoungVoter, SegmentWoman, SegmentDisability, SegmentRural} {
			assert.NotEmpty(t, s.Tips[seg].EN, "%s/%s", s.Title, seg)
			assert.NotEmpty(t, s.Tips[seg].BN, "%s/%s", s.Title, seg)
		}
	}
	assert.Len(t, Segments, 4)
}

func TestNextIsClamped(t *testing.T) {
	v := NewView()
	assert.Equal(t, 1, v.Next())
	assert.Equal(t, 2, v.Next())
	assert.Equal(t, 2, v.Next())

	assert.ErrorIs(t, v.SetStep(3), ErrUnknownStep)
	assert.ErrorIs(t, v.SetStep(-1), ErrUnknownStep)
	require.NoError(t, v.SetStep(0))
	assert.Equal(t, 0, v.ActiveStep())
}

func TestSetSegment(t *testing.T) {
	v := NewView()
	assert.Equal(t, SegmentGeneral, v.Segment())
	require.NoError(t, v.SetSegment(SegmentRural))
	assert.ErrorIs(t, v.SetSegment("ALIEN"), ErrUnknownSegment)
	assert.Equal(t, SegmentRural, v.Segment())
}

func TestToggleContent(t *testing.T) {
	v := NewView()

	a, err := v.ToggleContent(1)
	require.NoError(t, err)
	assert.Equal(t, ActionSpeak, a.Kind)
	require.NotNil(t, a.Utterance)
	assert.Equal(t, "ভোট কেন্দ্র জানুন. "+Steps[1].ContentBangla, a.Utterance.Text)
	assert.Equal(t, "bn-BD", a.Utterance.Lang)
	assert.Equal(t, 0.9, a.Utterance.Rate)
	assert.Equal(t, Slot{Kind: SlotContent, Step: 1}, v.Slot())

	a, err = v.ToggleContent(1)
	require.NoError(t, err)
	assert.Equal(t, ActionStop, a.Kind)
	assert.Equal(t, SlotNone, v.Slot().Kind)

	_, err = v.ToggleContent(7)
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestToggleTipUsesLanguageAndSegment(t *testing.T) {
	v := NewView()
	require.NoError(t, v.SetSegment(SegmentWoman))

	a, err := v.ToggleTip(2, models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "If you feel unsafe, report to the presiding officer immediately.", a.Utterance.Text)
	assert.Equal(t, "en-US", a.Utterance.Lang)

	v.Stop()
	a, err = v.ToggleTip(2, models.LanguageBangla)
	require.NoError(t, err)
	assert.Equal(t, "bn-BD", a.Utterance.Lang)
}

func TestSingleSlotIsMutuallyExclusive(t *testing.T) {
	v := NewView()

	_, err := v.ToggleContent(0)
	require.NoError(t, err)
	a, err := v.ToggleTip(0, models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, ActionSpeak, a.Kind)
	assert.Equal(t, Slot{Kind: SlotTip, Step: 0}, v.Slot())

	page := v.Render(models.LanguageEnglish)
	assert.False(t, page.Steps[0].ContentPlaying)
	assert.True(t, page.Steps[0].TipPlaying)

	// A stale end event from the content playback must not clear the tip.
	assert.False(t, v.Ended(Slot{Kind: SlotContent, Step: 0}))
	assert.Equal(t, Slot{Kind: SlotTip, Step: 0}, v.Slot())

	assert.True(t, v.Ended(Slot{Kind: SlotTip, Step: 0}))
	assert.Equal(t, SlotNone, v.Slot().Kind)
	assert.False(t, v.Ended(v.Slot()))
}

func TestUnsupportedSpeechNoticeShownOnce(t *testing.T) {
	v := NewView()
	v.SetSpeechSupported(false)

	a, err := v.ToggleContent(0)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, a.Kind)
	assert.Equal(t, UnsupportedNotice, a.Notice)

	a, err = v.ToggleTip(1, models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, a.Kind)
	assert.Empty(t, a.Notice)
	assert.Equal(t, SlotNone, v.Slot().Kind)
}

func TestRender(t *testing.T) {
	v := NewView()
	v.Next()

	en := v.Render(models.LanguageEnglish)
	assert.Equal(t, "Voter Journey", en.Title)
	assert.Equal(t, "Know Your Center", en.Steps[1].Title)
	assert.Equal(t, "ভোট কেন্দ্র জানুন", en.Steps[1].Subtitle)
	assert.True(t, en.Steps[0].Done)
	assert.True(t, en.Steps[1].Active)
	assert.Equal(t, "Centers open at 8:00 AM.", en.Steps[1].Tip)
	require.Len(t, en.Segments, 4)
	assert.True(t, en.Segments[0].Selected)

	bn := v.Render(models.LanguageBangla)
	assert.Equal(t, "ভোটার গাইড", bn.Title)
	assert.Equal(t, "ভোট কেন্দ্র জানুন", bn.Steps[1].Title)
	assert.Equal(t, "Know Your Center", bn.Steps[1].Subtitle)
	assert.Equal(t, "পরবর্তী ধাপ", bn.NextLabel)
}
