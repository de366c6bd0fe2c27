package core

import (
	"errors"
	"time"
)

type Shift struct {
	ID      int
	RoomID  int
	Title   string
	Comment string
	URL     string
	Begin   time.Time
	End     time.Time
}

func (s *Shift) Duration() time.Duration {
	return s.End.Sub(s.Begin)
}

type ShiftDB interface {
	GetShift(id int) (*Shift, error)
	GetShiftsOf(r *Room) ([]*Shift, error) // ordered by Begin
	InsertShift(s *Shift) error            // sets s.ID
}

// InsertShift shadows ShiftDB.InsertShift.
func (c *CoreDB) InsertShift(s *Shift) error {
	if s.End.Before(s.Begin) {
		return errors.New("shift ends before it begins")
	}
	return c.ShiftDB.InsertShift(s)
}
