package api

import (
	"sort"

	"github.com/videocall/relay/internal/domain"
)

func ToRoomStatus(room domain.Room) RoomStatus {
	members := room.MemberIDs()
	sort.Strings(members)

	return RoomStatus{
		RoomID:    room.ID,
		Members:   members,
		CreatedAt: room.CreatedAt,
	}
}

func ToRoomStatuses(rooms []domain.Room) []RoomStatus {
	statuses := make([]RoomStatus, len(rooms))
	for i, room := range rooms {
		statuses[i] = ToRoomStatus(room)
	}
	return statuses
}
