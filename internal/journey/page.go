package journey

import "github.com/techvote/techvote/internal/models"

// SegmentView is a segment button.
type SegmentView struct {
	ID       Segment `json:"id"`
	Label    string  `json:"label"`
	Selected bool    `json:"selected"`
}

// StepView is one localized step card.
type StepView struct {
	Index          int    `json:"index"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	Content        string `json:"content"`
	Tip            string `json:"tip"`
	Active         bool   `json:"active"`
	Done           bool   `json:"done"`
	ContentPlaying bool   `json:"content_playing"`
	TipPlaying     bool   `json:"tip_playing"`
}

// Page is the localized journey view model.
type Page struct {
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Customize   string        `json:"customize"`
	Segments    []SegmentView `json:"segments"`
	Steps       []StepView    `json:"steps"`
	ActiveStep  int           `json:"active_step"`
	Slot        Slot          `json:"slot"`
	ActiveLabel string        `json:"active_label"`
	TipLabel    string        `json:"tip_label"`
	ListenLabel string        `json:"listen_label"`
	ListenHint  string        `json:"listen_hint"`
	TipHint     string        `json:"tip_hint"`
	NextLabel   string        `json:"next_label"`
}

// Render builds the view model in lang. The secondary title is the other
// language's title.
func (v *View) Render(lang models.Language) Page {
	p := Page{
		Title:       titleText.Pick(lang),
		Subtitle:    subtitleText.Pick(lang),
		Customize:   customizeText.Pick(lang),
		ActiveStep:  v.active,
		Slot:        v.slot,
		ActiveLabel: activeText.Pick(lang),
		TipLabel:    tipText.Pick(lang),
		ListenLabel: listenText.Pick(lang),
		ListenHint:  listenBNText.Pick(lang),
		TipHint:     listenTipText.Pick(lang),
		NextLabel:   nextText.Pick(lang),
	}

	for _, s := range Segments {
		p.Segments = append(p.Segments, SegmentView{
			ID:       s.ID,
			Label:    s.Label.Pick(lang),
			Selected: s.ID == v.segment,
		})
	}

	for i, s := range Steps {
		sv := StepView{
			Index:          i,
			Title:          s.Title,
			Subtitle:       s.TitleBangla,
			Content:        s.Content,
			Tip:            s.Tip(v.segment, lang),
			Active:         i == v.active,
			Done:           i < v.active,
			ContentPlaying: v.slot == Slot{Kind: SlotContent, Step: i},
			TipPlaying:     v.slot == Slot{Kind: SlotTip, Step: i},
		}
		if lang == models.LanguageBangla {
			sv.Title, sv.Subtitle = s.TitleBangla, s.Title
			sv.Content = s.ContentBangla
		}
		p.Steps = append(p.Steps, sv)
	}
	return p
}
