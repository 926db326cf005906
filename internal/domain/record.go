package domain

import "time"

// Record is the durable unit representing one quiz result, keyed by an
// opaque identifier and bounded by a store TTL.
type Record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title,omitempty"`
	Company      string    `json:"company,omitempty"`
	Email        string    `json:"email"`
	ProfileURL   string    `json:"profileUrl,omitempty"`
	DemoInterest bool      `json:"demoInterest"`
	ArchetypeID  string    `json:"archetypeId"`
	Phrases      []string  `json:"phrases"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	SourceImage  string    `json:"sourceImage,omitempty"`
	CardURL      string    `json:"cardUrl,omitempty"`
	Enriched     bool      `json:"enriched"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the identity data resolved by the enrichment job for a
// profile URL.
type Profile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company"`
	Title      string `json:"title"`
	ImageURL   string `json:"imageUrl"`
	ProfileURL string `json:"profileUrl"`
}

// FullName joins the profile name parts, tolerating either being empty.
func (p Profile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Answer is one (question, option) pair from a submission.
type Answer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// QuizSubmission is the ephemeral submit payload. It is never persisted
// as-is; Submit derives a Record from it.
type QuizSubmission struct {
	Role         string   `json:"role"`
	Answers      []Answer `json:"answers"`
	Name         string   `json:"name"`
	Company      string   `json:"company,omitempty"`
	Email        string   `json:"email"`
	ProfileURL   string   `json:"profileUrl,omitempty"`
	SourceImage  string   `json:"sourceImage,omitempty"`
	DemoInterest bool     `json:"demoInterest"`
}
