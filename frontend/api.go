package frontend

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/engelsystem/engelsystem/core"
)

type apiStatus struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func apiError(msg string) apiStatus {
	return apiStatus{Status: "error", Error: msg}
}

type apiHandler func(ctx *route, params httprouter.Params) (interface{}, error)

// api wraps a JSON endpoint. If name is not empty, the current user must have the named permission.
// Unauthorized requests get status 200 with an error body, like the original API clients expect.
func api(db *core.CoreDB, name string, f apiHandler) httprouter.Handle {
	return middleware(db, "", func(w http.ResponseWriter, req *http.Request, ctx *route, params httprouter.Params) error {

		if name != "" {
			ok, err := ctx.HasPermission(name)
			if err != nil {
				ctx.logger().Error("checking permission", zap.String("permission", name), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, apiError("internal"))
				return nil
			}
			if !ok {
				writeJSON(w, http.StatusOK, apiError("unauth"))
				return nil
			}
		}

		result, err := f(ctx, params)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, result)
		case errors.Is(err, core.ErrNotFound):
			writeJSON(w, http.StatusNotFound, apiError("not found"))
		default:
			ctx.logger().Error("api", zap.String("path", req.URL.Path), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, apiError("internal"))
		}
		return nil
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type userJSON struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	RealName string `json:"realname,omitempty"`
	Hometown string `json:"hometown,omitempty"`
	Arrived  bool   `json:"arrived"`
	Active   bool   `json:"active"`
	TShirt   bool   `json:"tshirt"`
	Locale   string `json:"locale"`
}

func newUserJSON(u *core.User) userJSON {
	return userJSON{
		ID:       u.ID,
		Username: u.Username,
		RealName: u.RealName,
		Hometown: u.Hometown,
		Arrived:  u.Arrived,
		Active:   u.Active,
		TShirt:   u.TShirt,
		Locale:   u.Locale,
	}
}

type roomJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Order       *int   `json:"order,omitempty"`
	Source      string `json:"source,omitempty"`
}

func newRoomJSON(r *core.Room) *roomJSON {
	if r == nil {
		return nil
	}
	return &roomJSON{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Comment:     r.Comment,
		Order:       r.Order,
		Source:      r.Source,
	}
}

type shiftJSON struct {
	ID      int       `json:"id"`
	RoomID  int       `json:"room_id"`
	Title   string    `json:"title,omitempty"`
	Comment string    `json:"comment,omitempty"`
	URL     string    `json:"url,omitempty"`
	Begin   time.Time `json:"begin"`
	End     time.Time `json:"end"`
}

func newShiftJSON(s *core.Shift) *shiftJSON {
	if s == nil {
		return nil
	}
	return &shiftJSON{
		ID:      s.ID,
		RoomID:  s.RoomID,
		Title:   s.Title,
		Comment: s.Comment,
		URL:     s.URL,
		Begin:   s.Begin.UTC(),
		End:     s.End.UTC(),
	}
}

type allocationJSON struct {
	ID     int      `json:"id"`
	TaskID int      `json:"task_id"`
	Task   string   `json:"task"`
	Amount int      `json:"amount"`
	Taken  int      `json:"taken"`
	Free   int      `json:"free"`
	Users  []string `json:"users,omitempty"`
}

func newAllocationsJSON(views []allocationView) []allocationJSON {
	var result = make([]allocationJSON, 0, len(views))
	for _, v := range views {
		var a = allocationJSON{
			ID:     v.Allocation.ID,
			TaskID: v.TaskID,
			Task:   v.Text.Name,
			Amount: v.Amount,
			Taken:  v.Taken(),
			Free:   v.Free(),
		}
		for _, u := range v.Users {
			a.Users = append(a.Users, u.Username)
		}
		result = append(result, a)
	}
	return result
}

type taskTextJSON struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type taskJSON struct {
	ID                 int                     `json:"id"`
	Restricted         bool                    `json:"restricted"`
	ApprovableByRoleID int                     `json:"approvable_by_role_id,omitempty"`
	Texts              map[string]taskTextJSON `json:"texts"`
}

func apiUserRead(ctx *route, params httprouter.Params) (interface{}, error) {
	u, err := ctx.db.GetUserByName(params.ByName("username"))
	if err != nil {
		return nil, err
	}
	return newUserJSON(u), nil
}

type userEntryJSON struct {
	ID         int        `json:"id"`
	Freeloaded bool       `json:"freeloaded"`
	Task       string     `json:"task"`
	Shift      *shiftJSON `json:"shift,omitempty"` // nil if the entry belongs to a room default
	Room       *roomJSON  `json:"room,omitempty"`
}

func apiUserShifts(ctx *route, params httprouter.Params) (interface{}, error) {

	u, err := ctx.db.GetUserByName(params.ByName("username"))
	if err != nil {
		return nil, err
	}

	entries, err := ctx.db.GetUserEntries(u)
	if err != nil {
		return nil, err
	}

	var result = make([]userEntryJSON, 0, len(entries))
	for _, e := range entries {
		result = append(result, userEntryJSON{
			ID:         e.ID,
			Freeloaded: e.Freeloaded,
			Task:       e.Task.Text(ctx.Language()).Name,
			Shift:      newShiftJSON(e.Shift),
			Room:       newRoomJSON(e.Room),
		})
	}
	return result, nil
}

func apiRooms(ctx *route, params httprouter.Params) (interface{}, error) {
	rooms, err := ctx.db.GetVisibleRooms()
	if err != nil {
		return nil, err
	}
	var result = make([]*roomJSON, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, newRoomJSON(r))
	}
	return result, nil
}

func apiRoomShifts(ctx *route, params httprouter.Params) (interface{}, error) {

	id, err := parseID(params)
	if err != nil {
		return nil, err
	}

	room, err := ctx.db.GetRoom(id)
	if err != nil {
		return nil, err
	}
	if !room.Visible {
		return nil, core.ErrNotFound
	}

	shifts, err := ctx.db.GetShiftsOf(room)
	if err != nil {
		return nil, err
	}

	var result = make([]*shiftJSON, 0, len(shifts))
	for _, s := range shifts {
		result = append(result, newShiftJSON(s))
	}
	return result, nil
}

type shiftDetailJSON struct {
	Shift       *shiftJSON       `json:"shift"`
	Room        *roomJSON        `json:"room"`
	Allocations []allocationJSON `json:"allocations"`
	Defaults    []allocationJSON `json:"defaults"`
}

func apiShiftRead(ctx *route, params httprouter.Params) (interface{}, error) {

	id, err := parseID(params)
	if err != nil {
		return nil, err
	}

	detail, err := ctx.db.GetShiftDetail(id)
	if err != nil {
		return nil, err
	}

	allocs, err := ctx.allocationViews(detail.Allocations, ctx.Can("show_user"))
	if err != nil {
		return nil, err
	}
	defaults, err := ctx.allocationViews(detail.Defaults, false)
	if err != nil {
		return nil, err
	}

	return shiftDetailJSON{
		Shift:       newShiftJSON(detail.Shift),
		Room:        newRoomJSON(detail.Room),
		Allocations: newAllocationsJSON(allocs),
		Defaults:    newAllocationsJSON(defaults),
	}, nil
}

func apiTasks(ctx *route, params httprouter.Params) (interface{}, error) {
	tasks, err := ctx.db.GetAllTasks()
	if err != nil {
		return nil, err
	}
	var result = make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		var tj = taskJSON{
			ID:                 t.ID,
			Restricted:         t.Restricted,
			ApprovableByRoleID: t.ApprovableByRoleID,
			Texts:              make(map[string]taskTextJSON, len(t.Texts)),
		}
		for lang, text := range t.Texts {
			tj.Texts[lang] = taskTextJSON{
				Name:        text.Name,
				Description: text.Description,
			}
		}
		result = append(result, tj)
	}
	return result, nil
}
