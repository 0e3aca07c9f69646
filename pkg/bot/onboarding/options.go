package onboarding

var FaithPracticeOptions = []string{
	"Actively practicing",
	"Exploring",
	"Lapsed",
	"Spiritual but not religious",
	"Other",
}

var TopicOptions = []string{
	"Hope",
	"Uplifting",
	"Healing",
	"Mental Health",
	"Faith",
	"Affirmations",
	"Quotes",
	"God",
}

type TimelineItem struct {
	Title       string
	Description string
}

var FreeTrialTimeline = []TimelineItem{
	{Title: "Install the app", Description: "Set it up for your goals"},
	{Title: "Free trial starts", Description: "Enjoy full access, totally free for your first 3 days"},
	{Title: "Trial reminder", Description: "To let you know it's ending soon"},
	{Title: "Become member", Description: "Your trial ends unless cancelled"},
}
