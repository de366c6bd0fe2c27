package sqldb

import (
	"database/sql"
	"strings"

	"github.com/engelsystem/engelsystem/core"
)

const allocationColumns = "id, task_id, shift_id, room_id, amount"

type TaskDB struct {
	*sql.DB
	get            *sql.Stmt
	getAll         *sql.Stmt
	getTexts       *sql.Stmt
	getAllTexts    *sql.Stmt
	insert         *sql.Stmt
	insertText     *sql.Stmt
	getAlloc       *sql.Stmt
	allocsOfShift  *sql.Stmt
	allocsOfRoom   *sql.Stmt
	insertAlloc    *sql.Stmt
	userTasksOf    *sql.Stmt
	insertUserTask *sql.Stmt
}

func NewTaskDB(db *sql.DB, d Dialect) *TaskDB {

	mustExec(db, `
		CREATE TABLE IF NOT EXISTS task (
			id `+d.ID+`,
			restricted BOOLEAN NOT NULL,
			approvable_by_role_id INTEGER REFERENCES role(id)
		)`)
	mustExec(db, `
		CREATE TABLE IF NOT EXISTS task_text (
			id `+d.ID+`,
			task_id INTEGER NOT NULL REFERENCES task(id),
			language varchar(2) NOT NULL,
			name varchar(32) NOT NULL,
			description varchar(256),
			UNIQUE(task_id, language)
		)`)
	mustExec(db, `
		CREATE TABLE IF NOT EXISTS task_allocation (
			id `+d.ID+`,
			task_id INTEGER NOT NULL REFERENCES task(id),
			shift_id INTEGER REFERENCES shift(id),
			room_id INTEGER REFERENCES room(id),
			amount INTEGER NOT NULL
		)`)
	mustExec(db, `
		CREATE TABLE IF NOT EXISTS user_task (
			id `+d.ID+`,
			user_id INTEGER NOT NULL REFERENCES usr(id),
			task_id INTEGER NOT NULL REFERENCES task(id),
			approved BOOLEAN NOT NULL
		)`)

	var taskDB = &TaskDB{}
	taskDB.DB = db
	taskDB.get = mustPrepare(db, "SELECT id, restricted, approvable_by_role_id FROM task WHERE id = ?")
	taskDB.getAll = mustPrepare(db, "SELECT id, restricted, approvable_by_role_id FROM task ORDER BY id")
	taskDB.getTexts = mustPrepare(db, "SELECT id, task_id, language, name, description FROM task_text WHERE task_id = ?")
	taskDB.getAllTexts = mustPrepare(db, "SELECT id, task_id, language, name, description FROM task_text")
	taskDB.insert = mustPrepare(db, "INSERT INTO task (restricted, approvable_by_role_id) VALUES (?, ?)")
	taskDB.insertText = mustPrepare(db, "INSERT INTO task_text (task_id, language, name, description) VALUES (?, ?, ?, ?)")
	taskDB.getAlloc = mustPrepare(db, "SELECT "+allocationColumns+" FROM task_allocation WHERE id = ?")
	taskDB.allocsOfShift = mustPrepare(db, "SELECT "+allocationColumns+" FROM task_allocation WHERE shift_id = ? ORDER BY id")
	taskDB.allocsOfRoom = mustPrepare(db, "SELECT "+allocationColumns+" FROM task_allocation WHERE room_id = ? AND shift_id IS NULL ORDER BY id")
	taskDB.insertAlloc = mustPrepare(db, "INSERT INTO task_allocation (task_id, shift_id, room_id, amount) VALUES (?, ?, ?, ?)")
	taskDB.userTasksOf = mustPrepare(db, "SELECT id, user_id, task_id, approved FROM user_task WHERE user_id = ? ORDER BY task_id")
	taskDB.insertUserTask = mustPrepare(db, "INSERT INTO user_task (user_id, task_id, approved) VALUES (?, ?, ?)")
	return taskDB
}

func scanTask(row scanner) (*core.Task, error) {
	var t = &core.Task{
		Texts: make(map[string]*core.TaskText),
	}
	var approvableBy sql.NullInt64
	if err := row.Scan(&t.ID, &t.Restricted, &approvableBy); err != nil {
		return nil, notFound(err)
	}
	t.ApprovableByRoleID = int(approvableBy.Int64)
	return t, nil
}

func getTexts(stmt *sql.Stmt, args ...interface{}) ([]*core.TaskText, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts = []*core.TaskText{}
	for rows.Next() {
		var text = &core.TaskText{}
		var description sql.NullString
		if err := rows.Scan(&text.ID, &text.TaskID, &text.Language, &text.Name, &description); err != nil {
			return nil, err
		}
		text.Description = description.String
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

func (db *TaskDB) GetTask(id int) (*core.Task, error) {

	t, err := scanTask(db.get.QueryRow(id))
	if err != nil {
		return nil, err
	}

	texts, err := getTexts(db.getTexts, id)
	if err != nil {
		return nil, err
	}
	for _, text := range texts {
		t.Texts[text.Language] = text
	}
	return t, nil
}

func (db *TaskDB) GetAllTasks() ([]*core.Task, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks = []*core.Task{}
	var byID = make(map[int]*core.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	texts, err := getTexts(db.getAllTexts)
	if err != nil {
		return nil, err
	}
	for _, text := range texts {
		if t, ok := byID[text.TaskID]; ok {
			t.Texts[text.Language] = text
		}
	}
	return tasks, nil
}

func (db *TaskDB) InsertTask(t *core.Task) error {
	var err error
	t.ID, err = insertID(db.insert.Exec(t.Restricted, nullID(t.ApprovableByRoleID)))
	return err
}

func (db *TaskDB) InsertTaskText(text *core.TaskText) error {
	text.Language = strings.ToLower(strings.TrimSpace(text.Language))
	var err error
	text.ID, err = insertID(db.insertText.Exec(text.TaskID, text.Language, text.Name, nullString(text.Description)))
	return err
}

func scanAllocation(row scanner) (*core.TaskAllocation, error) {
	var a = &core.TaskAllocation{}
	var shiftID, roomID sql.NullInt64
	if err := row.Scan(&a.ID, &a.TaskID, &shiftID, &roomID, &a.Amount); err != nil {
		return nil, notFound(err)
	}
	a.ShiftID = int(shiftID.Int64)
	a.RoomID = int(roomID.Int64)
	return a, nil
}

func getAllocations(stmt *sql.Stmt, args ...interface{}) ([]*core.TaskAllocation, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocs = []*core.TaskAllocation{}
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

func (db *TaskDB) GetAllocation(id int) (*core.TaskAllocation, error) {
	return scanAllocation(db.getAlloc.QueryRow(id))
}

func (db *TaskDB) GetAllocationsOfShift(s *core.Shift) ([]*core.TaskAllocation, error) {
	return getAllocations(db.allocsOfShift, s.ID)
}

func (db *TaskDB) GetAllocationsOfRoom(r *core.Room) ([]*core.TaskAllocation, error) {
	return getAllocations(db.allocsOfRoom, r.ID)
}

func (db *TaskDB) InsertAllocation(a *core.TaskAllocation) error {
	var err error
	a.ID, err = insertID(db.insertAlloc.Exec(a.TaskID, nullID(a.ShiftID), nullID(a.RoomID), a.Amount))
	return err
}

func (db *TaskDB) GetUserTasksOf(u *core.User) ([]*core.UserTask, error) {

	rows, err := db.userTasksOf.Query(u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userTasks = []*core.UserTask{}
	for rows.Next() {
		var ut = &core.UserTask{}
		if err := rows.Scan(&ut.ID, &ut.UserID, &ut.TaskID, &ut.Approved); err != nil {
			return nil, err
		}
		userTasks = append(userTasks, ut)
	}
	return userTasks, rows.Err()
}

func (db *TaskDB) InsertUserTask(ut *core.UserTask) error {
	var err error
	ut.ID, err = insertID(db.insertUserTask.Exec(ut.UserID, ut.TaskID, ut.Approved))
	return err
}
