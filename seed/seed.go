// Package seed loads roles, permissions, users, rooms, shifts and tasks from a YAML fixture.
//
// Entities refer to each other by name. Shifts and allocations refer to rooms by name and
// to tasks by their English name (or their only name).
package seed

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/engelsystem/engelsystem/auth"
	"github.com/engelsystem/engelsystem/core"
)

type Fixture struct {
	Roles       []string     `yaml:"roles"`
	Permissions []Permission `yaml:"permissions"`
	Users       []User       `yaml:"users"`
	Rooms       []Room       `yaml:"rooms"`
	Tasks       []Task       `yaml:"tasks"`
	Shifts      []Shift      `yaml:"shifts"`
}

type Permission struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Roles       []string `yaml:"roles"`
}

type User struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	RealName string   `yaml:"realname"`
	Hometown string   `yaml:"hometown"`
	Arrived  bool     `yaml:"arrived"`
	Active   bool     `yaml:"active"`
	TShirt   bool     `yaml:"tshirt"`
	Locale   string   `yaml:"locale"`
	Roles    []string `yaml:"roles"`
	Tasks    []struct {
		Task     string `yaml:"task"`
		Approved bool   `yaml:"approved"`
	} `yaml:"tasks"`
}

type Room struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Comment     string       `yaml:"comment"`
	Hidden      bool         `yaml:"hidden"`
	Order       *int         `yaml:"order"`
	Source      string       `yaml:"source"`
	Defaults    []Allocation `yaml:"defaults"`
}

type Task struct {
	Restricted   bool              `yaml:"restricted"`
	ApprovableBy string            `yaml:"approvable_by"` // role name
	Names        map[string]string `yaml:"names"`         // language -> name
	Descriptions map[string]string `yaml:"descriptions"`  // language -> CommonMark
}

type Shift struct {
	Room        string       `yaml:"room"`
	Title       string       `yaml:"title"`
	Comment     string       `yaml:"comment"`
	URL         string       `yaml:"url"`
	Begin       time.Time    `yaml:"begin"`
	End         time.Time    `yaml:"end"`
	Allocations []Allocation `yaml:"allocations"`
}

type Allocation struct {
	Task    string  `yaml:"task"`
	Amount  int     `yaml:"amount"`
	Entries []Entry `yaml:"entries"` // only in shifts
}

type Entry struct {
	User       string `yaml:"user"`
	Freeloaded bool   `yaml:"freeloaded"`
}

// Load decodes a fixture. Unknown fields are an error.
func Load(r io.Reader) (*Fixture, error) {
	var f = &Fixture{}
	var dec = yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	return f, nil
}

type applier struct {
	db    *core.CoreDB
	roles map[string]*core.Role
	users map[string]*core.User
	rooms map[string]*core.Room
	tasks map[string]*core.Task
}

// Apply inserts the fixture. It is not atomic: if an error occurs, the entities inserted so far remain.
func Apply(db *core.CoreDB, f *Fixture) error {

	var a = &applier{
		db:    db,
		roles: make(map[string]*core.Role),
		users: make(map[string]*core.User),
		rooms: make(map[string]*core.Room),
		tasks: make(map[string]*core.Task),
	}

	for _, step := range []func(*Fixture) error{
		a.applyRoles,
		a.applyPermissions,
		a.applyTasks,
		a.applyUsers,
		a.applyRooms,
		a.applyShifts,
	} {
		if err := step(f); err != nil {
			return err
		}
	}

	db.Log.Info("fixture applied")
	return nil
}

func (a *applier) applyRoles(f *Fixture) error {
	for _, name := range f.Roles {
		role, err := a.db.InsertRole(name)
		if err != nil {
			return fmt.Errorf("role %s: %w", name, err)
		}
		a.roles[name] = role
	}
	return nil
}

func (a *applier) role(name string) (*core.Role, error) {
	if role, ok := a.roles[name]; ok {
		return role, nil
	}
	role, err := a.db.GetRoleByName(name)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", name, err)
	}
	a.roles[name] = role
	return role, nil
}

func (a *applier) applyPermissions(f *Fixture) error {
	for _, p := range f.Permissions {
		perm, err := a.db.InsertPermission(p.Name, p.Description)
		if err != nil {
			return fmt.Errorf("permission %s: %w", p.Name, err)
		}
		for _, roleName := range p.Roles {
			role, err := a.role(roleName)
			if err != nil {
				return err
			}
			if err := a.db.Grant(role, perm); err != nil {
				return fmt.Errorf("granting %s to %s: %w", p.Name, roleName, err)
			}
		}
	}
	return nil
}

func (a *applier) applyTasks(f *Fixture) error {
	for _, t := range f.Tasks {

		var key = t.Names["en"]
		if key == "" && len(t.Names) == 1 {
			for _, name := range t.Names {
				key = name
			}
		}
		if key == "" {
			return fmt.Errorf("task needs an English name: %v", t.Names)
		}

		var task = &core.Task{
			Restricted: t.Restricted,
		}
		if t.ApprovableBy != "" {
			role, err := a.role(t.ApprovableBy)
			if err != nil {
				return err
			}
			task.ApprovableByRoleID = role.ID
		}
		if err := a.db.InsertTask(task); err != nil {
			return fmt.Errorf("task %s: %w", key, err)
		}

		for lang, name := range t.Names {
			var text = &core.TaskText{
				TaskID:      task.ID,
				Language:    lang,
				Name:        name,
				Description: t.Descriptions[lang],
			}
			if err := a.db.InsertTaskText(text); err != nil {
				return fmt.Errorf("text %s of task %s: %w", lang, key, err)
			}
		}

		a.tasks[key] = task
	}
	return nil
}

func (a *applier) task(name string) (*core.Task, error) {
	if task, ok := a.tasks[name]; ok {
		return task, nil
	}
	return nil, fmt.Errorf("task %s: %w", name, core.ErrNotFound)
}

func (a *applier) applyUsers(f *Fixture) error {
	for _, fu := range f.Users {

		if err := core.CheckUsername(fu.Username); err != nil {
			return fmt.Errorf("user %q: %w", fu.Username, err)
		}

		var u = &core.User{
			Username: fu.Username,
			RealName: fu.RealName,
			Hometown: fu.Hometown,
			Arrived:  fu.Arrived,
			Active:   fu.Active,
			TShirt:   fu.TShirt,
			Locale:   fu.Locale,
		}
		if u.Locale == "" {
			u.Locale = "en"
		}
		if fu.Password != "" {
			hash, err := auth.HashPassword(fu.Password)
			if err != nil {
				return err
			}
			u.Password = hash
		}
		if err := a.db.UserDB.InsertUser(u); err != nil {
			return fmt.Errorf("user %s: %w", fu.Username, err)
		}

		for _, roleName := range fu.Roles {
			role, err := a.role(roleName)
			if err != nil {
				return err
			}
			if err := a.db.Join(role, u); err != nil {
				return fmt.Errorf("joining %s to %s: %w", fu.Username, roleName, err)
			}
		}

		for _, ft := range fu.Tasks {
			task, err := a.task(ft.Task)
			if err != nil {
				return err
			}
			if err := a.db.InsertUserTask(&core.UserTask{UserID: u.ID, TaskID: task.ID, Approved: ft.Approved}); err != nil {
				return fmt.Errorf("task %s of user %s: %w", ft.Task, fu.Username, err)
			}
		}

		a.users[fu.Username] = u
	}
	return nil
}

func (a *applier) applyRooms(f *Fixture) error {
	for _, fr := range f.Rooms {
		var room = &core.Room{
			Name:        fr.Name,
			Description: fr.Description,
			Comment:     fr.Comment,
			Visible:     !fr.Hidden,
			Order:       fr.Order,
			Source:      fr.Source,
		}
		if err := a.db.InsertRoom(room); err != nil {
			return fmt.Errorf("room %s: %w", fr.Name, err)
		}
		for _, fa := range fr.Defaults {
			if err := a.allocate(fa, &core.TaskAllocation{RoomID: room.ID}); err != nil {
				return fmt.Errorf("room %s: %w", fr.Name, err)
			}
		}
		a.rooms[fr.Name] = room
	}
	return nil
}

func (a *applier) applyShifts(f *Fixture) error {
	for _, fs := range f.Shifts {
		room, ok := a.rooms[fs.Room]
		if !ok {
			return fmt.Errorf("room %s of shift %s: %w", fs.Room, fs.Title, core.ErrNotFound)
		}
		var shift = &core.Shift{
			RoomID:  room.ID,
			Title:   fs.Title,
			Comment: fs.Comment,
			URL:     fs.URL,
			Begin:   fs.Begin,
			End:     fs.End,
		}
		if err := a.db.InsertShift(shift); err != nil {
			return fmt.Errorf("shift %s: %w", fs.Title, err)
		}
		for _, fa := range fs.Allocations {
			if err := a.allocate(fa, &core.TaskAllocation{ShiftID: shift.ID}); err != nil {
				return fmt.Errorf("shift %s: %w", fs.Title, err)
			}
		}
	}
	return nil
}

// allocate completes and inserts alloc, then inserts the entries.
func (a *applier) allocate(fa Allocation, alloc *core.TaskAllocation) error {

	task, err := a.task(fa.Task)
	if err != nil {
		return err
	}
	alloc.TaskID = task.ID
	alloc.Amount = fa.Amount
	if err := a.db.InsertAllocation(alloc); err != nil {
		return fmt.Errorf("allocation of %s: %w", fa.Task, err)
	}

	for _, fe := range fa.Entries {
		u, ok := a.users[fe.User]
		if !ok {
			return fmt.Errorf("user %s: %w", fe.User, core.ErrNotFound)
		}
		if err := a.db.InsertEntry(&core.ShiftEntry{TaskAllocationID: alloc.ID, UserID: u.ID, Freeloaded: fe.Freeloaded}); err != nil {
			return fmt.Errorf("entry of %s: %w", fe.User, err)
		}
	}
	return nil
}
