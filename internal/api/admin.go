package api

type AdminMessageEvent string

const (
	AdminMessageEventAuth        = AdminMessageEvent("auth")
	AdminMessageEventAuthRequest = AdminMessageEvent("auth:request")
	AdminMessageEventAuthFailed  = AdminMessageEvent("auth:failed")
	AdminMessageEventRoomStatus  = AdminMessageEvent("rooms")
)

type AdminMessage struct {
	Event         AdminMessageEvent `json:"event"`
	Auth          *AdminAuthMessage `json:"auth,omitempty"`
	RoomsStatus   []RoomStatus      `json:"roomsStatus,omitempty"`
	AccessMessage *string           `json:"accessMessage,omitempty"`
}

type AdminAuthMessage struct {
	Credential string `json:"credential"`
}
