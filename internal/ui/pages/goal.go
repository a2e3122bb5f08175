package pages

import (
	"github.com/a-h/templ"
)

// Site carries the app identity shown on every page.
type Site struct {
	AppName string
	AppURL  string
}

func (s Site) page(p page) templ.Component {
	p.AppName = s.AppName
	p.AppURL = s.AppURL
	return layout(p)
}

func ResponseRecorded(s Site, goalText string, achieved bool) templ.Component {
	if achieved {
		return s.page(page{
			Title:   "Congratulations!",
			Icon:    "🎉",
			Heading: "Congratulations on achieving your goal!",
			Message: "Thank you for being part of " + s.AppName + ".",
			Quote:   goalText,
		})
	}
	return s.page(page{
		Title:   "Keep Going!",
		Icon:    "💪",
		Heading: "Keep working towards your dreams. Every step counts!",
		Message: "Thank you for being part of " + s.AppName + ".",
		Quote:   goalText,
	})
}

func AlreadyResponded(s Site) templ.Component {
	return s.page(page{
		Title:   "Already Responded",
		Heading: "Already Responded",
		Message: "You have already responded to this goal reminder.",
	})
}

func GoalDeleted(s Site) templ.Component {
	return s.page(page{
		Title:   "Goal Deleted",
		Icon:    "✓",
		Heading: "Goal Deleted",
		Message: "Your goal has been permanently removed. You will not receive a reminder for it.",
	})
}

func Unsubscribed(s Site) templ.Component {
	return s.page(page{
		Title:   "Unsubscribed",
		Icon:    "✓",
		Heading: "You're unsubscribed",
		Message: "We will not email you about this goal again.",
	})
}

// Error renders a failure page with a user-facing message.
func Error(s Site, heading, message string) templ.Component {
	return s.page(page{
		Title:   heading,
		Heading: heading,
		Message: message,
	})
}
