package queue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CurrentVersion is stamped on every message this build produces.
const CurrentVersion = 1

// Message asks a batch worker to extract contacts from a stored document.
type Message struct {
	DocumentKey string `json:"documentKey"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
	EnqueuedAt  string `json:"enqueuedAt"`
	Version     int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	if strings.TrimSpace(msg.DocumentKey) == "" {
		return nil, fmt.Errorf("encode message: document key is required")
	}
	if msg.Version == 0 {
		msg.Version = CurrentVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	msg.DocumentKey = strings.TrimSpace(msg.DocumentKey)
	return msg, nil
}
