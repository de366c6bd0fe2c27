package core

import (
	"errors"
	"fmt"
)

type RoomShifts struct {
	*Room
	Shifts []*Shift
}

// ShiftPlan returns all visible rooms with their shifts.
func (c *CoreDB) ShiftPlan() ([]RoomShifts, error) {
	rooms, err := c.GetVisibleRooms()
	if err != nil {
		return nil, err
	}
	var plan = make([]RoomShifts, 0, len(rooms))
	for _, room := range rooms {
		shifts, err := c.GetShiftsOf(room)
		if err != nil {
			return nil, fmt.Errorf("shifts of room %d: %w", room.ID, err)
		}
		plan = append(plan, RoomShifts{
			Room:   room,
			Shifts: shifts,
		})
	}
	return plan, nil
}

// An Allocation is a TaskAllocation with its task and the users who are signed up.
type Allocation struct {
	*TaskAllocation
	Task    *Task
	Entries []*ShiftEntry
}

// Taken returns the number of entries.
func (a *Allocation) Taken() int {
	return len(a.Entries)
}

// Free returns the number of angels which are still needed.
func (a *Allocation) Free() int {
	if free := a.Amount - a.Taken(); free > 0 {
		return free
	}
	return 0
}

type ShiftDetail struct {
	Shift       *Shift
	Room        *Room
	Allocations []*Allocation // of the shift
	Defaults    []*Allocation // of the room, without entries
}

// GetShiftDetail returns a shift together with its room and allocations.
// Shifts in hidden rooms are reported as ErrNotFound.
func (c *CoreDB) GetShiftDetail(id int) (*ShiftDetail, error) {

	shift, err := c.GetShift(id)
	if err != nil {
		return nil, err
	}

	room, err := c.GetRoom(shift.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room of shift %d: %w", id, err)
	}
	if !room.Visible {
		return nil, fmt.Errorf("shift %d in hidden room: %w", id, ErrNotFound)
	}

	var detail = &ShiftDetail{
		Shift: shift,
		Room:  room,
	}

	allocs, err := c.GetAllocationsOfShift(shift)
	if err != nil {
		return nil, err
	}
	if detail.Allocations, err = c.expand(allocs, true); err != nil {
		return nil, err
	}

	defaults, err := c.GetAllocationsOfRoom(room)
	if err != nil {
		return nil, err
	}
	if detail.Defaults, err = c.expand(defaults, false); err != nil {
		return nil, err
	}

	return detail, nil
}

func (c *CoreDB) expand(allocs []*TaskAllocation, withEntries bool) ([]*Allocation, error) {
	var result = make([]*Allocation, 0, len(allocs))
	for _, alloc := range allocs {
		task, err := c.GetTask(alloc.TaskID)
		if err != nil {
			return nil, fmt.Errorf("task of allocation %d: %w", alloc.ID, err)
		}
		var a = &Allocation{
			TaskAllocation: alloc,
			Task:           task,
		}
		if withEntries {
			if a.Entries, err = c.GetEntriesOf(alloc); err != nil {
				return nil, err
			}
		}
		result = append(result, a)
	}
	return result, nil
}

// A UserEntry is a ShiftEntry of a user with its context. Shift is nil if the entry refers to a room default allocation.
type UserEntry struct {
	*ShiftEntry
	Shift *Shift
	Room  *Room
	Task  *Task
}

// GetUserEntries returns the shift entries of a user.
func (c *CoreDB) GetUserEntries(u *User) ([]*UserEntry, error) {

	entries, err := c.GetEntriesOfUser(u)
	if err != nil {
		return nil, err
	}

	var result = make([]*UserEntry, 0, len(entries))
	for _, entry := range entries {

		alloc, err := c.GetAllocation(entry.TaskAllocationID)
		if err != nil {
			return nil, fmt.Errorf("allocation of entry %d: %w", entry.ID, err)
		}

		var ue = &UserEntry{
			ShiftEntry: entry,
		}

		if ue.Task, err = c.GetTask(alloc.TaskID); err != nil {
			return nil, err
		}

		var roomID = alloc.RoomID
		if alloc.ShiftID != 0 {
			if ue.Shift, err = c.GetShift(alloc.ShiftID); err != nil {
				return nil, err
			}
			roomID = ue.Shift.RoomID
		}

		if ue.Room, err = c.GetRoom(roomID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		result = append(result, ue)
	}
	return result, nil
}

// Profile contains everything which is shown about a user.
type Profile struct {
	User      *User
	Roles     []*Role
	Entries   []*UserEntry
	UserTasks []*UserTask
}

// Freeloaded returns the number of shifts in which the user did not show up.
func (p *Profile) Freeloaded() int {
	var n int
	for _, e := range p.Entries {
		if e.Freeloaded {
			n++
		}
	}
	return n
}

func (c *CoreDB) GetProfile(username string) (*Profile, error) {

	u, err := c.GetUserByName(username)
	if err != nil {
		return nil, err
	}

	var p = &Profile{
		User: u,
	}

	if p.Roles, err = c.GetRolesOf(u); err != nil {
		return nil, err
	}
	if p.Entries, err = c.GetUserEntries(u); err != nil {
		return nil, err
	}
	if p.UserTasks, err = c.GetUserTasksOf(u); err != nil {
		return nil, err
	}
	return p, nil
}
