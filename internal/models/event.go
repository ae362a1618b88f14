package models

// EventAssessableSubmitted is the log event written when a student submits
// an assignment for assessment.
const EventAssessableSubmitted = `\mod_assign\event\assessable_submitted`

// CRUD classifications used by the event log.
const (
	CRUDCreate = "c"
	CRUDRead   = "r"
	CRUDUpdate = "u"
	CRUDDelete = "d"
)

// LogEvent is one row of the standard event log.
type LogEvent struct {
	ID                int64  `db:"id" json:"id"`
	EventName         string `db:"eventname" json:"eventname"`
	Component         string `db:"component" json:"component"`
	Action            string `db:"action" json:"action"`
	CRUD              string `db:"crud" json:"crud"`
	ContextLevel      int    `db:"contextlevel" json:"contextlevel"`
	ContextInstanceID int64  `db:"contextinstanceid" json:"contextinstanceid"`
	UserID            int64  `db:"userid" json:"userid"`
	CourseID          int64  `db:"courseid" json:"courseid"`
	TimeCreated       int64  `db:"timecreated" json:"timecreated"`
}

// EventFilter selects log events. Events are always returned in ascending
// timecreated order; Limit of 0 means no limit.
type EventFilter struct {
	UserID            int64
	ContextLevel      int
	ContextInstanceID int64
	CRUD              string
	EventName         string
	Limit             int
}
