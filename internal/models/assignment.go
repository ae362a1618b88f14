package models

// Assignment is one gradable assignment instance. duedate and
// allowsubmissionsfromdate are epoch seconds, 0 when unset.
type Assignment struct {
	ID                   int64  `db:"id" json:"id"`
	CourseID             int64  `db:"course" json:"course"`
	Name                 string `db:"name" json:"name"`
	AllowSubmissionsFrom int64  `db:"allowsubmissionsfromdate" json:"allowsubmissionsfromdate"`
	DueDate              int64  `db:"duedate" json:"duedate"`
	CutoffDate           int64  `db:"cutoffdate" json:"cutoffdate"`
	TeamSubmission       bool   `db:"teamsubmission" json:"teamsubmission"`
}

// Submission is one student's submission record for an assignment.
type Submission struct {
	ID           int64  `db:"id" json:"id"`
	AssignmentID int64  `db:"assignment" json:"assignment"`
	UserID       int64  `db:"userid" json:"userid"`
	Status       string `db:"status" json:"status"`
	TimeCreated  int64  `db:"timecreated" json:"timecreated"`
	TimeModified int64  `db:"timemodified" json:"timemodified"`
}

// Activity is the analysable unit: an assignment with its owning course,
// course-module record and context resolved. Read-only once built.
type Activity struct {
	Assignment Assignment    `json:"assignment"`
	Course     Course        `json:"course"`
	Module     CourseModule  `json:"module"`
	Context    ModuleContext `json:"context"`
}

// Start returns the time the activity opens for submissions, 0 if open-ended.
func (a Activity) Start() int64 {
	return a.Assignment.AllowSubmissionsFrom
}

// End returns the effective close time: the due date, or the cut-off date
// when no due date is set. 0 means the activity never closes.
func (a Activity) End() int64 {
	if a.Assignment.DueDate != 0 {
		return a.Assignment.DueDate
	}
	return a.Assignment.CutoffDate
}
