package domain

import "time"

// DefaultResourceMinutes is the reading time assumed when none is given.
const DefaultResourceMinutes = 5

// Resource is an entry of the legal resource library.
type Resource struct {
	ID        int64
	Title     string
	Category  string
	Language  string
	Minutes   int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResourceFilter narrows a resource listing. Empty fields match everything.
type ResourceFilter struct {
	Category string
	Language string
}

// StarterResources is the initial library content.
func StarterResources() []Resource {
	return []Resource{
		{Title: "How to resolve a land dispute", Category: "land", Language: DefaultLanguage, Minutes: 5},
		{Title: "Your Employment Contract", Category: "employment", Language: DefaultLanguage, Minutes: 8},
		{Title: "Registering a Small Business", Category: "commercial", Language: DefaultLanguage, Minutes: 6},
	}
}
