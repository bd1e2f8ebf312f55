package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeSelect  MessageType = "select"
	MessageTypeMove    MessageType = "move"
	MessageTypePromote MessageType = "promote"
	MessageTypeCancel  MessageType = "cancel"
	MessageTypeView    MessageType = "view"

	// server -> client
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewMessage(msgType MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: data}, nil
}

type SelectPayload struct {
	Square string `json:"square"`
}

type PromotePayload struct {
	Piece string `json:"piece"`
}

type ViewPayload struct {
	Index int `json:"index"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
