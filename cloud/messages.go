/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import (
	"encoding/json"
	"fmt"
)

type EventType string

// Client → server
const (
	EventJoinSession EventType = "joinSession"
	EventSendWords   EventType = "sendWords"
	EventNewQuestion EventType = "newQuestion"
	EventReset       EventType = "reset"
)

// Server → client
const (
	EventParticipants EventType = "participants"
	EventCloud        EventType = "cloud"
	EventQuestion     EventType = "question"
	EventWordCount    EventType = "wordCount"
)

// Message is a frame received from a client.
type Message struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is a frame sent to clients. Data is never mutated after the event
// is queued, since several write pumps may encode it at once.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

type NewQuestionPayload struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

type command struct {
	client    *Client
	kind      EventType
	sessionID string
	question  string
	phrases   []string
}

func decode(msg Message) (command, error) {
	cmd := command{kind: msg.Type}

	switch msg.Type {
	case EventJoinSession:
		if err := json.Unmarshal(msg.Data, &cmd.sessionID); err != nil {
			return cmd, fmt.Errorf("%s: %w", msg.Type, err)
		}
	case EventSendWords:
		if err := json.Unmarshal(msg.Data, &cmd.phrases); err != nil {
			return cmd, fmt.Errorf("%s: %w", msg.Type, err)
		}
	case EventNewQuestion:
		var p NewQuestionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return cmd, fmt.Errorf("%s: %w", msg.Type, err)
		}
		cmd.sessionID = p.SessionID
		cmd.question = p.Question
	case EventReset:
	default:
		return cmd, fmt.Errorf("unknown message type %q", msg.Type)
	}

	return cmd, nil
}
