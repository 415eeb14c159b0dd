// Package models defines the domain types shared across the service.
package models

import (
	"fmt"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Feedback values a user can attach to a logged exchange.
const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
	FeedbackImprove = "improve"
)

// ValidFeedback reports whether s is an accepted feedback value.
func ValidFeedback(s string) bool {
	return s == FeedbackLike || s == FeedbackDislike || s == FeedbackImprove
}

// Message is a single turn within a conversation log.
type Message struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationLog is a persisted chat session with post-hoc feedback and
// training flags. Messages are ordered oldest first.
type ConversationLog struct {
	ID                surrealmodels.RecordID `json:"id"`
	Messages          []Message              `json:"messages"`
	Duration          float64                `json:"duration"`
	Category          string                 `json:"category"`
	Feedback          *string                `json:"feedback,omitempty"`
	IsTrainingExample bool                   `json:"is_training_example"`
	CreatedAt         time.Time              `json:"created_at"`
}

// LogID returns the record identifier portion of the log's ID as a string.
func (l *ConversationLog) LogID() string {
	return fmt.Sprintf("%v", l.ID.ID)
}

// FirstExchange returns the first user/bot message pair, if the log has one.
func (l *ConversationLog) FirstExchange() (prompt, response string, ok bool) {
	for i := 0; i < len(l.Messages)-1; i++ {
		if l.Messages[i].Sender == SenderUser && l.Messages[i+1].Sender == SenderBot {
			return l.Messages[i].Content, l.Messages[i+1].Content, true
		}
	}
	return "", "", false
}
