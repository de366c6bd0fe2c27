package core

// A ShiftEntry assigns a user to a task allocation. Freeloaded means that the user did not show up.
type ShiftEntry struct {
	ID               int
	TaskAllocationID int
	UserID           int
	Freeloaded       bool
}

type EntryDB interface {
	GetEntriesOf(a *TaskAllocation) ([]*ShiftEntry, error)
	GetEntriesOfUser(u *User) ([]*ShiftEntry, error)
	InsertEntry(e *ShiftEntry) error // sets e.ID
}
