package models

// Role 账号角色，每个账号恰好一个
type Role string

const (
	RoleStudent Role = "student"
	RoleFire    Role = "fire"
	RoleHealth  Role = "health"
	RoleSocial  Role = "social"
	RoleAdmin   Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStudent, RoleFire, RoleHealth, RoleSocial, RoleAdmin}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFire, RoleHealth, RoleSocial, RoleAdmin:
		return true
	}
	return false
}

func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleFire:
		return "Fire Department"
	case RoleHealth:
		return "Health Department"
	case RoleSocial:
		return "Social/Bullying Center"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// DepartmentCategory returns the incident category a department role handles.
func (r Role) DepartmentCategory() (Category, bool) {
	switch r {
	case RoleFire:
		return CategoryFire, true
	case RoleHealth:
		return CategoryHealth, true
	case RoleSocial:
		return CategorySocial, true
	}
	return "", false
}

func (r Role) IsDepartment() bool {
	_, ok := r.DepartmentCategory()
	return ok
}

func (r Role) DashboardPath() string {
	switch r {
	case RoleFire, RoleHealth, RoleSocial, RoleAdmin:
		return "/" + string(r) + "/"
	}
	return "/student/"
}

// Category 事件类别
type Category string

const (
	CategoryFire   Category = "fire"
	CategoryHealth Category = "health"
	CategorySocial Category = "social"
	CategoryOther  Category = "other"
)

var Categories = []Category{CategoryFire, CategoryHealth, CategorySocial, CategoryOther}

func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFire, CategoryHealth, CategorySocial, CategoryOther:
		return true
	}
	return false
}

func (c Category) Label() string {
	switch c {
	case CategoryFire:
		return "Fire"
	case CategoryHealth:
		return "Health"
	case CategorySocial:
		return "Social/Bullying"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// DepartmentRole maps a category to the department that triages it.
// Other has no department; only admins see it.
func (c Category) DepartmentRole() (Role, bool) {
	switch c {
	case CategoryFire:
		return RoleFire, true
	case CategoryHealth:
		return RoleHealth, true
	case CategorySocial:
		return RoleSocial, true
	}
	return "", false
}

// Status 事件处理状态，任意状态之间均可切换
type Status string

const (
	StatusReported   Status = "reported"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

var Statuses = []Status{StatusReported, StatusInProgress, StatusResolved}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusReported:
		return "Reported"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	}
	return string(s)
}
