package models

// Context levels mirrored from the upstream LMS schema.
const (
	ContextLevelCourse = 50
	ContextLevelModule = 70
)

// Course is the course record an assignment belongs to. Date columns are
// epoch seconds; 0 means the date was never set.
type Course struct {
	ID        int64  `db:"id" json:"id"`
	ShortName string `db:"shortname" json:"shortname"`
	FullName  string `db:"fullname" json:"fullname"`
	StartDate int64  `db:"startdate" json:"startdate"`
	EndDate   int64  `db:"enddate" json:"enddate"`
}

// CourseModule links an activity instance into a course.
type CourseModule struct {
	ID       int64 `db:"id" json:"id"`
	CourseID int64 `db:"course" json:"course"`
	ModuleID int64 `db:"module" json:"module"`
	Instance int64 `db:"instance" json:"instance"`
	Visible  bool  `db:"visible" json:"visible"`
}

// ModuleContext is the permission/scoping boundary of a course module.
type ModuleContext struct {
	ID           int64 `db:"id" json:"id"`
	ContextLevel int   `db:"contextlevel" json:"contextlevel"`
	InstanceID   int64 `db:"instanceid" json:"instanceid"`
}

// Participant is a user currently able to submit to an assignment.
type Participant struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FirstName string `db:"firstname" json:"firstname"`
	LastName  string `db:"lastname" json:"lastname"`
	Email     string `db:"email" json:"email"`
}
