package api

import "encoding/json"

type ClientMessageEvent string
type ServerMessageEvent string

const (
	ClientMessageEventJoinRoom  = ClientMessageEvent("join-room")
	ClientMessageEventSignal    = ClientMessageEvent("signal")
	ClientMessageEventLeaveRoom = ClientMessageEvent("leave-room")
	ClientMessageEventPong      = ClientMessageEvent("pong")
)

const (
	ServerMessageEventInit             = ServerMessageEvent("init")
	ServerMessageEventUserConnected    = ServerMessageEvent("user-connected")
	ServerMessageEventUserDisconnected = ServerMessageEvent("user-disconnected")
	ServerMessageEventSignal           = ServerMessageEvent("signal")
	ServerMessageEventPing             = ServerMessageEvent("ping")
	ServerMessageEventError            = ServerMessageEvent("error")
)

// ClientMessage is the envelope for everything a client sends. Exactly one
// of the payload pointers is set, matching Event.
type ClientMessage struct {
	Event  ClientMessageEvent `json:"event"`
	Join   *JoinRoomMessage   `json:"join,omitempty"`
	Signal *SignalMessage     `json:"signal,omitempty"`
	Leave  *LeaveRoomMessage  `json:"leave,omitempty"`
}

type ServerMessage struct {
	Event            ServerMessageEvent `json:"event"`
	Init             *InitMessage       `json:"init,omitempty"`
	UserConnected    *UserEventMessage  `json:"userConnected,omitempty"`
	UserDisconnected *UserEventMessage  `json:"userDisconnected,omitempty"`
	Signal           *SignalMessage     `json:"signal,omitempty"`
	Ping             *PingMessage       `json:"ping,omitempty"`
	Error            *ErrorMessage      `json:"error,omitempty"`
}

type JoinRoomMessage struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type LeaveRoomMessage struct {
	RoomID string `json:"roomId"`
}

// SignalMessage carries one negotiation payload. SignalData is opaque to
// the server; its type field (offer, answer, ice-candidate) is interpreted
// only by the receiving client.
type SignalMessage struct {
	RoomID     string          `json:"roomId"`
	UserID     string          `json:"userId"`
	SignalData json.RawMessage `json:"signalData"`
}

type UserEventMessage struct {
	UserID string `json:"userId"`
}

type InitMessage struct {
	PcConfig     PeerConnectionConfig `json:"pcConfig"`
	PingInterval int                  `json:"pingInterval"`
}

type PingMessage struct {
	Timestamp int64 `json:"timestamp"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
