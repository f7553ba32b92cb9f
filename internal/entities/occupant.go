package entities

// Role is a permission granted by the token service
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the verified subject of a bearer token
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

// HasRole reports whether the identity carries role
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Occupant is a user's presence and position within a room
type Occupant struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []Role   `json:"roles"`
	Position Position `json:"position"`
}

// Location is the last room and tile a user was persisted at
type Location struct {
	RoomID   string   `json:"room_id"`
	Position Position `json:"position"`
}
