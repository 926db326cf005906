package models

import "time"

// SubmissionLog is one audit row per quiz submission. Records themselves
// live in the TTL store; this table is the durable trail for analytics
// and is written best effort.
type SubmissionLog struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	Email        string    `json:"email" gorm:"type:text;index"`
	Name         string    `json:"name" gorm:"type:text"`
	Company      string    `json:"company" gorm:"type:text"`
	Role         string    `json:"role" gorm:"type:text"`
	ArchetypeID  string    `json:"archetypeId" gorm:"type:text;index"`
	DemoInterest bool      `json:"demoInterest"`
	Enriched     bool      `json:"enriched"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (SubmissionLog) TableName() string { return "submission_logs" }
