// Package journey implements the voter-journey walkthrough: three steps with
// audience-specific tips and a single read-aloud slot.
package journey

import (
	"github.com/techvote/techvote/internal/content"
	"github.com/techvote/techvote/internal/models"
)

// Segment is an audience the tips are tailored to.
type Segment string

const (
	SegmentGeneral    Segment = "GENERAL"
	SegmentYoungVoter Segment = "YOUNG_VOTER"
	SegmentWoman      Segment = "WOMAN"
	SegmentDisability Segment = "DISABILITY"
	SegmentRural      Segment = "RURAL"
)

// Valid reports whether s has tips.
func (s Segment) Valid() bool {
	switch s {
	case SegmentGeneral, SegmentYoungVoter, SegmentWoman, SegmentDisability, SegmentRural:
		return true
	}
	return false
}

// SegmentOption is an offered segment with its label.
type SegmentOption struct {
	ID    Segment
	Label content.Text
}

// Segments are the segments offered in the selector. Rural tips exist but
// are not offered.
var Segments = []SegmentOption{
	{SegmentGeneral, content.T("General Voter", "সাধারণ ভোটার")},
	{SegmentYoungVoter, content.T("First Time (Young)", "নতুন ভোটার")},
	{SegmentWoman, content.T("Woman Voter", "নারী ভোটার")},
	{SegmentDisability, content.T("Disability Support", "প্রতিবন্ধী সহায়তা")},
}

// Step is one stage of the journey.
type Step struct {
	Title         string
	TitleBangla   string
	Content       string
	ContentBangla string
	Tips          map[Segment]content.Text
}

// Tip returns the tip for seg in lang.
func (s Step) Tip(seg Segment, lang models.Language) string {
	return s.Tips[seg].Pick(lang)
}

// Steps is the ordered journey.
var Steps = []Step{
	{
		Title:         "Registration Check",
		TitleBangla:   "নিবন্ধন যাচাই",
		Content:       "Ensure your name is on the voter list. You can check online at the Election Commission website or your local Upazila office.",
		ContentBangla: "আপনার নাম ভোটার তালিকায় আছে কিনা তা নিশ্চিত করুন। আপনি নির্বাচন কমিশনের ওয়েবসাইট বা স্থানীয় উপজেলা অফিসে এটি যাচাই করতে পারেন।",
		Tips: map[Segment]content.Text{
			SegmentGeneral:    content.T("Check at least 3 months before the election.", "নির্বাচনের অন্তত ৩ মাস আগে যাচাই করুন।"),
			SegmentYoungVoter: content.T("If you turned 18 recently, verify your NID draft status.", "আপনি যদি সম্প্রতি ১৮ বছর পূর্ণ করে থাকেন, তবে আপনার এনআইডি স্ট্যাটাস যাচাই করুন।"),
			SegmentWoman:      content.T("Ensure your photo on the list matches your current appearance (e.g., hijab/niqab rules).", "তালিকায় আপনার ছবি বর্তমান চেহারার সাথে মিলছে কিনা তা নিশ্চিত করুন।"),
			SegmentDisability: content.T("Check if your disability status is marked for priority access.", "আপনার প্রতিবন্ধী স্ট্যাটাস অগ্রাধিকারের জন্য চিহ্নিত করা আছে কিনা তা দেখুন।"),
			SegmentRural:      content.T("Visit the local Union Parishad office for help.", "সাহায্যের জন্য স্থানীয় ইউনিয়ন পরিষদ অফিসে যান।"),
		},
	},
	{
		Title:         "Know Your Center",
		TitleBangla:   "ভোট কেন্দ্র জানুন",
		Content:       "Find out where your polling center is located. It might change from the last election.",
		ContentBangla: "আপনার ভোট কেন্দ্র কোথায় তা জেনে নিন। গত নির্বাচনের চেয়ে এটি পরিবর্তন হতে পারে।",
		Tips: map[Segment]content.Text{
			SegmentGeneral:    content.T("Centers open at 8:00 AM.", "কেন্দ্রগুলো সকাল ৮:০০ টায় খোলে।"),
			SegmentYoungVoter: content.T("Download the 'Smart Election' app for maps.", "ম্যাপের জন্য 'স্মার্ট ইলেকশন' অ্যাপ ডাউনলোড করুন।"),
			SegmentWoman:      content.T("Look for separate queues for women.", "নারীদের জন্য আলাদা লাইন খুঁজুন।"),
			SegmentDisability: content.T("Verify if the center has ramp access.", "কেন্দ্রে র‍্যাম্প সুবিধা আছে কিনা তা যাচাই করুন।"),
			SegmentRural:      content.T("Ask community leaders for transport arrangements.", "পরিবহন ব্যবস্থার জন্য স্থানীয় নেতাদের জিজ্ঞাসা করুন।"),
		},
	},
	{
		Title:         "Election Day",
		TitleBangla:   "নির্বাচনের দিন",
		Content:       "Bring your NID or Smart Card. Do not wear party symbols inside the center.",
		ContentBangla: "আপনার এনআইডি বা স্মার্ট কার্ড সাথে আনুন। কেন্দ্রের ভিতরে কোনো দলের প্রতীক পরবেন না।",
		Tips: map[Segment]content.Text{
			SegmentGeneral:    content.T("Leave your mobile phone outside the booth.", "ভোটকক্ষের বাইরে মোবাইল ফোন রেখে যান।"),
			SegmentYoungVoter: content.T("Your vote is your secret. Do not take selfies while voting.", "আপনার ভোট গোপন। ভোট দেওয়ার সময় সেলফি তুলবেন না।"),
			SegmentWoman:      content.T("If you feel unsafe, report to the presiding officer immediately.", "নিরাপদ বোধ না করলে অবিলম্বে প্রিজাইডিং অফিসারকে জানান।"),
			SegmentDisability: content.T("You are allowed to bring a trusted helper if visually impaired.", "দৃষ্টিপ্রতিবন্ধী হলে একজন বিশ্বস্ত সাহায্যকারী সাথে রাখতে পারবেন।"),
			SegmentRural:      content.T("Go early to avoid long lines in the heat.", "গরমে দীর্ঘ লাইন এড়াতে সকালে যান।"),
		},
	},
}

// Page copy.
var (
	titleText     = content.T("Voter Journey", "ভোটার গাইড")
	subtitleText  = content.T("Steps to Vote", "ভোট প্রদানের ধাপসমূহ")
	customizeText = content.T("Customize for me", "আমার জন্য কাস্টমাইজ করুন")
	activeText    = content.T("Active", "সক্রিয়")
	tipText       = content.T("Tip", "পরামর্শ")
	listenText    = content.T("Listen", "শুনুন")
	listenBNText  = content.T("Listen in Bangla", "বাংলায় শুনুন")
	listenTipText = content.T("Listen to tip", "পরামর্শ শুনুন")
	nextText      = content.T("Next Step", "পরবর্তী ধাপ")
)

// UnsupportedNotice is shown once per session when the client cannot speak.
const UnsupportedNotice = "Text-to-speech is not supported in this browser."
