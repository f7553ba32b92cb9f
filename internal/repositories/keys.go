package repositories

import "fmt"

// Every repository that commits a room mutation increments the same
// sequence key inside its own transaction.
const roomSeqKey = "room:%s:seq"

// RoomSeqKey returns the Redis key holding a room's sequence number.
func RoomSeqKey(roomID string) string {
	return fmt.Sprintf(roomSeqKey, roomID)
}
