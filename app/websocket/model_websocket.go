package web3socket

import (
	tools "github.com/kirillDanshin/nulltime"
)

// Define our message object
type WSHeaderMessage struct {
	UserId  string           `json:"user_id"`
	Message WebsocketMessage `json:"message"`
}

type WebsocketMessage struct {
	MessageType string         `json:"message_type"`
	Timestamp   tools.NullTime `json:"timestamp"`
	Status      int            `json:"status,omitempty"`
	Message     string         `json:"message,omitempty"`
	ForeignType string         `json:"foreign_type,omitempty"`
	ForeignId   string         `json:"foreign_id,omitempty"`
	Action      string         `json:"action,omitempty"`
	Data        interface{}    `json:"data,omitempty"`
}

type WebsocketMessageHeartbeat struct {
	Site       string         `json:"site"`
	LastAction tools.NullTime `json:"last_action"`
}

type Notification struct {
	Title     string         `json:"title"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Priority  int64          `json:"priority"`
	Timestamp tools.NullTime `json:"timestamp"`
}
