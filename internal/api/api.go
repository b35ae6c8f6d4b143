package api

import (
	"time"

	"github.com/pion/webrtc/v4"
)

// PeerConnectionConfig is handed to clients in the init event so their
// browser-native peer connections know which ICE servers to use.
type PeerConnectionConfig struct {
	ICEServers []webrtc.ICEServer `json:"iceServers" yaml:"iceServers"`
}

func DefaultPeerConnectionConfig() PeerConnectionConfig {
	return PeerConnectionConfig{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
	}
}

// RoomStatus is the admin view of one room.
type RoomStatus struct {
	RoomID    string    `json:"roomId"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}
