// Package report implements the anonymous incident-report form: cascading
// location selection, the draft state machine and report transmission.
package report

import "github.com/techvote/techvote/internal/content"

// DefaultRole is the reporter role of a fresh draft.
const DefaultRole = "General Citizen"

// Roles lists the anonymous reporter roles. Keys are stable English labels.
var Roles = []content.Option{
	{Key: DefaultRole, Label: content.T("General Citizen", "সাধারণ নাগরিক")},
	{Key: "Teacher / Instructor", Label: content.T("Teacher / Instructor", "শিক্ষক / প্রশিক্ষক")},
	{Key: "Student", Label: content.T("Student", "ছাত্র")},
	{Key: "Election Official", Label: content.T("Election Official", "নির্বাচনী কর্মকর্তা")},
	{Key: "Journalist", Label: content.T("Journalist", "সাংবাদিক")},
}

// Categories lists the incident types a report can carry.
var Categories = []content.Option{
	{Key: "Vote Rigging / Irregularity", Label: content.T("Vote Rigging / Irregularity", "ভোট কারচুপি / অনিয়ম")},
	{Key: "Violence / Harassment", Label: content.T("Violence / Harassment", "সহিংসতা / হয়রানি")},
	{Key: "Fake News Distribution", Label: content.T("Fake News Distribution", "ভুয়া খবর প্রচার")},
	{Key: "Code of Conduct Violation", Label: content.T("Code of Conduct Violation", "আচরণবিধি লঙ্ঘন")},
}
