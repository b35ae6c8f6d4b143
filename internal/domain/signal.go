package domain

import (
	"encoding/json"
	"errors"
)

var (
	ErrMalformedEnvelope = errors.New("envelope is missing room or sender id")
	ErrDeliveryDropped   = errors.New("delivery dropped, outbound buffer full")
)

// Envelope is one opaque signaling message. Payload carries the session
// negotiation data (offer, answer, ICE candidate) and is never inspected
// by the relay.
type Envelope struct {
	RoomID       string
	SenderUserID string
	Payload      json.RawMessage
}

func (e Envelope) Validate() error {
	if e.RoomID == "" || e.SenderUserID == "" {
		return ErrMalformedEnvelope
	}
	return nil
}

// EventSender delivers server events to a single connection. Delivery is
// best effort: implementations must not block on a slow recipient.
type EventSender interface {
	SendUserConnected(connID, userID string) error
	SendUserDisconnected(connID, userID string) error
	SendSignal(connID string, envelope Envelope) error
}
