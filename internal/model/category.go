package model

const (
	CategoryCareer        = "CAREER"
	CategoryHealth        = "HEALTH"
	CategoryFinance       = "FINANCE"
	CategoryRelationships = "RELATIONSHIPS"
	CategoryLearning      = "LEARNING"
	CategoryOther         = "OTHER"
)

type Category struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Templates   []string `json:"templates"`
}

// Categories is ordered as shown in the planner.
var Categories = []Category{
	{
		ID:          CategoryCareer,
		Label:       "Career",
		Icon:        "💼",
		Description: "Professional growth and career goals",
		Templates: []string{
			"Become a senior software engineer",
			"Start my own business",
			"Get promoted to management",
			"Learn a new programming language",
			"Speak at a tech conference",
		},
	},
	{
		ID:          CategoryHealth,
		Label:       "Health",
		Icon:        "💪",
		Description: "Physical and mental wellness",
		Templates: []string{
			"Run a marathon",
			"Lose 20 pounds",
			"Practice yoga daily",
			"Quit smoking",
			"Build muscle and get fit",
		},
	},
	{
		ID:          CategoryFinance,
		Label:       "Finance",
		Icon:        "💰",
		Description: "Financial goals and wealth building",
		Templates: []string{
			"Save $50,000 for a house",
			"Become debt-free",
			"Start investing in stocks",
			"Build a passive income stream",
			"Reach $100K net worth",
		},
	},
	{
		ID:          CategoryRelationships,
		Label:       "Relationships",
		Icon:        "❤️",
		Description: "Personal relationships and connections",
		Templates: []string{
			"Get married",
			"Reconnect with old friends",
			"Improve communication with family",
			"Make 10 new meaningful friendships",
			"Travel with my partner to 5 countries",
		},
	},
	{
		ID:          CategoryLearning,
		Label:       "Learning",
		Icon:        "📚",
		Description: "Education and skill development",
		Templates: []string{
			"Learn to speak Spanish fluently",
			"Master data science",
			"Read 100 books",
			"Get a master's degree",
			"Learn to play guitar",
		},
	},
	{
		ID:          CategoryOther,
		Label:       "Other",
		Icon:        "🎯",
		Description: "Other personal goals",
		Templates: []string{
			"Travel to 20 countries",
			"Write a book",
			"Learn to cook gourmet meals",
			"Volunteer 100 hours",
			"Complete a creative project",
		},
	},
}

func ValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
