package journey

import (
	"errors"
	"fmt"

	"github.com/techvote/techvote/internal/models"
)

var (
	// ErrUnknownStep is returned for a step index outside the journey.
	ErrUnknownStep = errors.New("unknown journey step")
	// ErrUnknownSegment is returned for a segment without tips.
	ErrUnknownSegment = errors.New("unknown voter segment")
)

// SlotKind names what is being read aloud.
type SlotKind string

const (
	SlotNone    SlotKind = "none"
	SlotContent SlotKind = "content"
	SlotTip     SlotKind = "tip"
)

// Slot is the single read-aloud slot of a view.
type Slot struct {
	Kind SlotKind `json:"kind"`
	Step int      `json:"step"`
}

var idle = Slot{Kind: SlotNone, Step: -1}

// Utterance is what the client should speak.
type Utterance struct {
	Text string  `json:"text"`
	Lang string  `json:"lang"`
	Rate float64 `json:"rate"`
}

// ActionKind tells the client what to do with its speech engine.
type ActionKind string

const (
	ActionSpeak ActionKind = "speak"
	ActionStop  ActionKind = "stop"
	ActionNone  ActionKind = "none"
)

// Action is the outcome of a speech toggle.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Slot      Slot       `json:"slot"`
	Utterance *Utterance `json:"utterance,omitempty"`
	Notice    string     `json:"notice,omitempty"`
}

const speechRate = 0.9

func speechLang(lang models.Language) string {
	if lang == models.LanguageBangla {
		return "bn-BD"
	}
	return "en-US"
}

// View is the journey state of one session. It is not safe for concurrent
// use; the owning session serializes access.
type View struct {
	segment         Segment
	active          int
	slot            Slot
	speechSupported bool
	noticeShown     bool
}

// NewView returns a view on the first step for general voters.
func NewView() *View {
	return &View{
		segment:         SegmentGeneral,
		slot:            idle,
		speechSupported: true,
	}
}

// Segment returns the selected segment.
func (v *View) Segment() Segment { return v.segment }

// ActiveStep returns the index of the highlighted step.
func (v *View) ActiveStep() int { return v.active }

// Slot returns the current read-aloud slot.
func (v *View) Slot() Slot { return v.slot }

// SetSegment selects the audience for tips.
func (v *View) SetSegment(seg Segment) error {
	if !seg.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSegment, seg)
	}
	v.segment = seg
	return nil
}

// SetStep highlights step i.
func (v *View) SetStep(i int) error {
	if i < 0 || i >= len(Steps) {
		return fmt.Errorf("%w: %d", ErrUnknownStep, i)
	}
	v.active = i
	return nil
}

// Next advances the highlighted step, stopping at the last one.
func (v *View) Next() int {
	v.active = min(v.active+1, len(Steps)-1)
	return v.active
}

// SetSpeechSupported records whether the client can synthesize speech.
func (v *View) SetSpeechSupported(ok bool) {
	v.speechSupported = ok
}

// ToggleContent starts or stops reading step i aloud. The step is always
// read in Bangla.
func (v *View) ToggleContent(i int) (Action, error) {
	if i < 0 || i >= len(Steps) {
		return Action{}, fmt.Errorf("%w: %d", ErrUnknownStep, i)
	}
	step := Steps[i]
	return v.toggle(Slot{Kind: SlotContent, Step: i}, Utterance{
		Text: step.TitleBangla + ". " + step.ContentBangla,
		Lang: speechLang(models.LanguageBangla),
		Rate: speechRate,
	}), nil
}

// ToggleTip starts or stops reading the tip of step i for the selected
// segment in lang.
func (v *View) ToggleTip(i int, lang models.Language) (Action, error) {
	if i < 0 || i >= len(Steps) {
		return Action{}, fmt.Errorf("%w: %d", ErrUnknownStep, i)
	}
	return v.toggle(Slot{Kind: SlotTip, Step: i}, Utterance{
		Text: Steps[i].Tip(v.segment, lang),
		Lang: speechLang(lang),
		Rate: speechRate,
	}), nil
}

func (v *View) toggle(target Slot, u Utterance) Action {
	if v.slot == target {
		v.slot = idle
		return Action{Kind: ActionStop, Slot: v.slot}
	}

	if !v.speechSupported {
		a := Action{Kind: ActionNone, Slot: v.slot}
		if !v.noticeShown {
			v.noticeShown = true
			a.Notice = UnsupportedNotice
		}
		return a
	}

	// Starting one slot silences the other.
	v.slot = target
	return Action{Kind: ActionSpeak, Slot: target, Utterance: &u}
}

// Ended clears the slot when playback of s finished, unless another slot has
// started since.
func (v *View) Ended(s Slot) bool {
	if v.slot != s || s.Kind == SlotNone {
		return false
	}
	v.slot = idle
	return true
}

// Stop silences any playback.
func (v *View) Stop() {
	v.slot = idle
}
