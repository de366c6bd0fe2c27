package core

// A Room is a place where shifts happen.
type Room struct {
	ID          int
	Name        string
	Description string
	Comment     string
	Visible     bool
	Order       *int // nil sorts last
	Source      string
}

type RoomDB interface {
	GetRoom(id int) (*Room, error)
	GetAllRooms() ([]*Room, error)     // ordered by Order, then Name
	GetVisibleRooms() ([]*Room, error) // ordered by Order, then Name
	InsertRoom(r *Room) error          // sets r.ID
}
