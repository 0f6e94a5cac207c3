package nats

import (
	"fmt"
)

func GetRoom2AllPlayerSubject(roomID string) string {
	return fmt.Sprintf("room.%s.player", roomID)
}

func GetPlayerSubject(playerID string) string {
	return fmt.Sprintf("player.%s", playerID)
}
