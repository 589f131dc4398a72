package domain

import "time"

// ChatMessage is the envelope exchanged with the message broker.
// Timestamp marshals as RFC 3339, matching the broker's ISO-8601 contract.
type ChatMessage struct {
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
