package core

import (
	"errors"
	"sort"
)

// A Task is something angels do during a shift, like "Bar" or "Heaven". Its name and description are stored per language in TaskText.
type Task struct {
	ID                 int
	Restricted         bool                 // only users with an approved UserTask may take it
	ApprovableByRoleID int                  // 0 if nobody
	Texts              map[string]*TaskText // language -> text
}

type TaskText struct {
	ID          int
	TaskID      int
	Language    string
	Name        string
	Description string // CommonMark
}

// Text returns the text in the given language, else the English text, else the text of the alphabetically first language.
// If the task has no texts at all, an empty TaskText is returned.
func (t *Task) Text(lang string) *TaskText {
	if text, ok := t.Texts[lang]; ok {
		return text
	}
	if text, ok := t.Texts["en"]; ok {
		return text
	}
	var langs = make([]string, 0, len(t.Texts))
	for l := range t.Texts {
		langs = append(langs, l)
	}
	if len(langs) == 0 {
		return &TaskText{TaskID: t.ID}
	}
	sort.Strings(langs)
	return t.Texts[langs[0]]
}

// A TaskAllocation says how many angels are needed for a task, either in a shift or (as a default) in a room.
type TaskAllocation struct {
	ID      int
	TaskID  int
	ShiftID int // 0 if room default
	RoomID  int // 0 if shift allocation
	Amount  int
}

// UserTask records that a user is qualified for a task.
type UserTask struct {
	ID       int
	UserID   int
	TaskID   int
	Approved bool
}

type TaskDB interface {
	GetTask(id int) (*Task, error) // with texts
	GetAllTasks() ([]*Task, error) // with texts
	InsertTask(t *Task) error      // sets t.ID, ignores t.Texts
	InsertTaskText(text *TaskText) error
	GetAllocation(id int) (*TaskAllocation, error)
	GetAllocationsOfShift(s *Shift) ([]*TaskAllocation, error)
	GetAllocationsOfRoom(r *Room) ([]*TaskAllocation, error)
	InsertAllocation(a *TaskAllocation) error
	GetUserTasksOf(u *User) ([]*UserTask, error)
	InsertUserTask(ut *UserTask) error
}

// InsertAllocation shadows TaskDB.InsertAllocation.
func (c *CoreDB) InsertAllocation(a *TaskAllocation) error {
	if (a.ShiftID == 0) == (a.RoomID == 0) {
		return errors.New("allocation needs either a shift or a room")
	}
	if a.Amount < 0 {
		return errors.New("negative amount")
	}
	return c.TaskDB.InsertAllocation(a)
}
