package content

import "github.com/techvote/techvote/internal/models"

// Labels is a set of keyed UI strings.
type Labels map[string]Text

// Localize renders every label in lang.
func (l Labels) Localize(lang models.Language) map[string]string {
	out := make(map[string]string, len(l))
	for k, t := range l {
		out[k] = t.Pick(lang)
	}
	return out
}

// ReportLabels is the copy of the anonymous report form.
var ReportLabels = Labels{
	"title": T("Anonymous Election Observation", "বেনামী নির্বাচনী পর্যবেক্ষণ"),
	"subtitle": T("Report incidents or observations from your constituency. Your identity remains hidden.",
		"আপনার নির্বাচনী এলাকার ঘটনা বা পর্যবেক্ষণ রিপোর্ট করুন। আপনার পরিচয় গোপন থাকবে।"),
	"success_title": T("Report Logged", "রিপোর্ট গ্রহণ করা হয়েছে"),
	"success_message": T("Thank you. Your anonymous report has been categorized by district and will help in aggregating election data.",
		"ধন্যবাদ। আপনার বেনামী রিপোর্টটি জেলা অনুযায়ী তালিকাভুক্ত করা হয়েছে এবং এটি নির্বাচনী তথ্য বিশ্লেষণে সাহায্য করবে।"),
	"submit_another":          T("Submit another report", "আরেকটি রিপোর্ট জমা দিন"),
	"role":                    T("Reporting As (Anonymous)", "রিপোর্টার এর ধরণ (বেনামী)"),
	"location":                T("Location Details", "অবস্থানের বিবরণ"),
	"division":                T("Division", "বিভাগ"),
	"district":                T("District", "জেলা"),
	"seat":                    T("Parliamentary Seat", "সংসদীয় আসন"),
	"division_placeholder":    T("Search or Select Division...", "বিভাগ খুঁজুন বা নির্বাচন করুন..."),
	"district_placeholder":    T("Search or Select District...", "জেলা খুঁজুন বা নির্বাচন করুন..."),
	"seat_placeholder":        T("Search or Select Seat...", "আসন খুঁজুন বা নির্বাচন করুন..."),
	"category":                T("Incident Type", "ঘটনার ধরণ"),
	"description":             T("Description & Evidence", "বিবরণ এবং প্রমাণ"),
	"description_placeholder": T("Describe what happened...", "কী ঘটেছে তা বর্ণনা করুন..."),
	"attachment":              T("Attach Photo/Video", "ছবি/ভিডিও যুক্ত করুন"),
	"privacy_note": T("This report is strictly anonymous. Data is used for statistical analysis of election integrity.",
		"এই রিপোর্ট সম্পূর্ণ বেনামী। তথ্য শুধুমাত্র নির্বাচনী স্বচ্ছতার পরিসংখ্যানগত বিশ্লেষণের জন্য ব্যবহৃত হয়।"),
	"submit":       T("Submit Secure Report", "নিরাপদ রিপোর্ট জমা দিন"),
	"secure_badge": T("Secure & Encrypted", "নিরাপদ ও এনক্রিপটেড"),
}

// RumorLabels is the copy of the rumor checker.
var RumorLabels = Labels{
	"title":    T("Rumor Checker", "গুজব যাচাই কেন্দ্র"),
	"subtitle": T("Verify Misinformation", "ভুল তথ্য যাচাই করুন"),
	"description": T("Unsure about something you saw on social media? Paste it here for an AI-assisted analysis.",
		"সোশ্যাল মিডিয়ায় যা দেখেছেন তা নিয়ে নিশ্চিত নন? এআই বিশ্লেষণের জন্য এখানে পেস্ট করুন।"),
	"category":         T("Category", "বিভাগ"),
	"input":            T("Text to Analyze", "যাচাই করার জন্য টেক্সট"),
	"placeholder":      T("Paste the post, message, or claim here...", "পোস্ট, বার্তা বা দাবি এখানে পেস্ট করুন..."),
	"analyze":          T("Check Now", "যাচাই করুন"),
	"loading":          T("Analyzing...", "বিশ্লেষণ করা হচ্ছে..."),
	"upload":           T("Upload Image/Video", "ছবি বা ভিডিও আপলোড"),
	"result_summary":   T("Analysis Summary", "বিশ্লেষণ সারাংশ"),
	"result_questions": T("Critical Questions to Ask", "গুরুত্বপূর্ণ প্রশ্ন"),
	"result_safety":    T("Safety Tip", "নিরাপত্তা টিপ"),
	"disclaimer": T("* This tool helps you think critically. It is not an official verdict from the Election Commission.",
		"* এই টুলটি আপনাকে সমালোচনামূলকভাবে চিন্তা করতে সাহায্য করে। এটি নির্বাচন কমিশনের আনুষ্ঠানিক রায় নয়।"),
	"features_title": T("Scanner Features:", "স্ক্যানার ফিচার:"),
}

// RumorFeatures lists the scanner features shown beside the checker.
var RumorFeatures = []Text{
	T("Feature that allows you to take a picture and have it analyzed.", "ছবি তুলে বা আপলোড করে বিশ্লেষণ করার সুবিধা।"),
	T("Supports text analysis or image/video analysis.", "টেক্সট বা ছবি/ভিডিও বিশ্লেষণের মাধ্যমে যাচাই।"),
	T("Perform fact analysis to increase productivity.", "সত্যতা যাচাইয়ের (Fact Analysis) মাধ্যমে সচেতনতা বৃদ্ধি।"),
}

// PickAll renders texts in lang.
func PickAll(texts []Text, lang models.Language) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = t.Pick(lang)
	}
	return out
}
