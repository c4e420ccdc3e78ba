package content

import "github.com/techvote/techvote/internal/models"

// Card is a linked feature tile on the home page.
type Card struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Target      models.ViewState `json:"target"`
}

// HomePage is the localized landing page.
type HomePage struct {
	Tagline     string `json:"tagline"`
	HeroTitle   string `json:"hero_title"`
	HeroTitle2  string `json:"hero_title_2"`
	HeroDesc    string `json:"hero_description"`
	JourneyCTA  string `json:"journey_cta"`
	RumorCTA    string `json:"rumor_cta"`
	Cards       []Card `json:"cards"`
	FooterTitle string `json:"footer_title"`
	FooterBody  string `json:"footer_body"`
}

var (
	homeTagline    = T("Bangladesh Election 2026", "বাংলাদেশ নির্বাচন ২০২৬")
	homeHeroTitle  = T("Your Vote,", "আপনার ভোট,")
	homeHeroTitle2 = T("Your Future", "আপনার ভবিষ্যৎ")
	homeHeroDesc   = T(
		"A safe space for verified election information, rumor checking, and digital safety tools. Built for every citizen.",
		"যাচাইকৃত নির্বাচন তথ্য, গুজব যাচাই এবং ডিজিটাল নিরাপত্তা টুলের জন্য একটি নিরাপদ স্থান। প্রতিটি নাগরিকের জন্য তৈরি।",
	)
	homeJourneyCTA = T("Start Voter Journey", "ভোটার গাইড শুরু করুন")
	homeRumorCTA   = T("Check a Rumor", "গুজব যাচাই করুন")

	homeCards = []struct {
		title, desc Text
		target      models.ViewState
	}{
		{
			T("Voter Guide", "ভোটার গাইড"),
			T("Step-by-step instructions on registration, polling centers, and voting rights.",
				"নিবন্ধন, ভোট কেন্দ্র এবং ভোটের অধিকার সম্পর্কে ধাপে ধাপে নির্দেশিকা।"),
			models.ViewJourney,
		},
		{
			T("Safe Spaces", "নিরাপদ ইন্টারনেট"),
			T("Tips to stay safe online, avoid harassment, and spot fake news.",
				"অনলাইনে নিরাপদ থাকা, হয়রানি এড়ানো এবং ভুয়া খবর শনাক্ত করার টিপস।"),
			models.ViewMediaLiteracy,
		},
		{
			T("Fact Checker", "গুজব যাচাই"),
			T("AI-powered analysis to help you verify social media claims instantly.",
				"সোশ্যাল মিডিয়ার দাবি তাৎক্ষণিকভাবে যাচাই করতে এআই-চালিত বিশ্লেষণ।"),
			models.ViewRumorChecker,
		},
	}

	footerTitle = T("TechVote BD", "TechVote BD")
	footerBody  = T(
		"Empowering Bangladeshi voters with verified information and safe digital tools for the 2026 election.",
		"২০২৬ সালের নির্বাচনের জন্য যাচাইকৃত তথ্য এবং নিরাপদ ডিজিটাল টুলস দিয়ে বাংলাদেশী ভোটারদের ক্ষমতায়ন।",
	)
)

// Home returns the landing page in lang.
func Home(lang models.Language) HomePage {
	page := HomePage{
		Tagline:     homeTagline.Pick(lang),
		HeroTitle:   homeHeroTitle.Pick(lang),
		HeroTitle2:  homeHeroTitle2.Pick(lang),
		HeroDesc:    homeHeroDesc.Pick(lang),
		JourneyCTA:  homeJourneyCTA.Pick(lang),
		RumorCTA:    homeRumorCTA.Pick(lang),
		FooterTitle: footerTitle.Pick(lang),
		FooterBody:  footerBody.Pick(lang),
	}
	for _, c := range homeCards {
		page.Cards = append(page.Cards, Card{
			Title:       c.title.Pick(lang),
			Description: c.desc.Pick(lang),
			Target:      c.target,
		})
	}
	return page
}

// NavItem is one entry of the main navigation.
type NavItem struct {
	View  models.ViewState `json:"view"`
	Label string           `json:"label"`
}

var navigation = []struct {
	view  models.ViewState
	label Text
}{
	{models.ViewHome, T("Home", "হোম")},
	{models.ViewJourney, T("Voter Guide", "ভোটার গাইড")},
	{models.ViewRumorChecker, T("Rumor Check", "গুজব যাচাই")},
	{models.ViewMediaLiteracy, T("Safe Space", "নিরাপদ ইন্টারনেট")},
	{models.ViewCommunity, T("Report", "রিপোর্ট")},
}

// Navigation returns the navigation bar in lang. The toggle label names the
// language a click switches to.
func Navigation(lang models.Language) (items []NavItem, toggle string) {
	for _, n := range navigation {
		items = append(items, NavItem{View: n.view, Label: n.label.Pick(lang)})
	}
	toggle = "BN"
	if lang == models.LanguageBangla {
		toggle = "EN"
	}
	return items, toggle
}

// Guide is a safe-space literacy card.
type Guide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Action  string `json:"action"`
}

// SafeSpacePage is the localized digital-safety page.
type SafeSpacePage struct {
	Title     string  `json:"title"`
	Intro     string  `json:"intro"`
	Checklist string  `json:"checklist"`
	Helplines string  `json:"helplines"`
	Guides    []Guide `json:"guides"`
	Insights  string  `json:"insights"`
}

var (
	safeSpaceTitle = T("Safe Digital Spaces", "নিরাপদ ডিজিটাল স্পেস")
	safeSpaceIntro = T(
		"The internet should be a safe place for political discussion. Learn how to protect yourself and your community during the election.",
		"ইন্টারনেট রাজনৈতিক আলোচনার জন্য একটি নিরাপদ স্থান হওয়া উচিত। নির্বাচনকালীন সময়ে নিজেকে এবং আপনার সম্প্রদায়কে কীভাবে রক্ষা করবেন তা জানুন।",
	)
	safeSpaceChecklist = T("Digital Hygiene Checklist", "ডিজিটাল হাইজিন চেকলিস্ট")
	safeSpaceHelplines = T("Helpline Numbers", "হেল্পলাইন নম্বর")
	safeSpaceInsights  = T("Community Insights", "কমিউনিটি রিপোর্ট")

	guides = []struct{ title, content, action Text }{
		{
			T("Secure Your Account", "অ্যাকাউন্ট সুরক্ষিত করুন"),
			T("Turn on Two-Factor Authentication (2FA) for Facebook and WhatsApp. Use a strong password unique to your social media.",
				"ফেসবুক এবং হোয়াটসঅ্যাপের জন্য টু-ফ্যাক্টর অথেনটিকেশন (2FA) চালু করুন। শক্তিশালী পাসওয়ার্ড ব্যবহার করুন।"),
			T("Check Privacy Settings", "সেটিংস চেক করুন"),
		},
		{
			T("Spot Deepfakes", "ডিপফেক শনাক্ত করুন"),
			T("Look for unnatural blinking, mismatched lip-syncing, or blurry edges around the face. AI-generated audio often lacks emotion.",
				"অস্বাভাবিক চোখের পলক বা ঠোঁটের অসামঞ্জস্যতা লক্ষ্য করুন। এআই-তৈরি অডিওতে প্রায়ই আবেগের অভাব থাকে।"),
			T("Learn More", "আরও জানুন"),
		},
		{
			T("Handling Harassment", "হয়রানি মোকাবিলা"),
			T("If you receive threats or hate speech, do not reply. Screenshot the evidence, block the user, and report it to the platform.",
				"হুমকি বা ঘৃণাত্মক বার্তা পেলে উত্তর দেবেন না। স্ক্রিনশট নিন, ব্যবহারকারীকে ব্লক করুন এবং রিপোর্ট করুন।"),
			T("Report Guide", "রিপোর্ট গাইড"),
		},
		{
			T("Think Before Sharing", "শেয়ার করার আগে ভাবুন"),
			T("Misinformation spreads faster than facts. Ask: Who wrote this? Is there a source link? Is the image from an old event?",
				"ভুল তথ্য সত্যের চেয়ে দ্রুত ছড়ায়। প্রশ্ন করুন: এর লেখক কে? কোন সূত্র আছে কি? ছবিটি কি পুরনো?"),
			T("Fact-Check Tips", "যাচাই টিপস"),
		},
	}
)

// SafeSpace returns the digital-safety page in lang.
func SafeSpace(lang models.Language) SafeSpacePage {
	page := SafeSpacePage{
		Title:     safeSpaceTitle.Pick(lang),
		Intro:     safeSpaceIntro.Pick(lang),
		Checklist: safeSpaceChecklist.Pick(lang),
		Helplines: safeSpaceHelplines.Pick(lang),
		Insights:  safeSpaceInsights.Pick(lang),
	}
	for _, g := range guides {
		page.Guides = append(page.Guides, Guide{
			Title:   g.title.Pick(lang),
			Content: g.content.Pick(lang),
			Action:  g.action.Pick(lang),
		})
	}
	return page
}
