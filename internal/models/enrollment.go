package models

// UserEnrolment captures one user's enrollment window in a course.
// timeend = 0 means open-ended; timestart = 0 means the enrolment method
// never recorded a start, in which case timecreated is the fallback anchor.
type UserEnrolment struct {
	ID          int64 `db:"id" json:"id"`
	UserID      int64 `db:"userid" json:"userid"`
	CourseID    int64 `db:"courseid" json:"courseid"`
	TimeStart   int64 `db:"timestart" json:"timestart"`
	TimeEnd     int64 `db:"timeend" json:"timeend"`
	TimeCreated int64 `db:"timecreated" json:"timecreated"`
}

// LastAccess is the most recent access a user made to a course. Absence of
// a record means the user never reached the course at all.
type LastAccess struct {
	UserID     int64 `db:"userid" json:"userid"`
	CourseID   int64 `db:"courseid" json:"courseid"`
	TimeAccess int64 `db:"timeaccess" json:"timeaccess"`
}
