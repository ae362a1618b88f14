package models

// Sample data keys, kept stable because exported datasets and indicator
// declarations reference them by name.
const (
	SampleDataCourse        = "course"
	SampleDataUser          = "user"
	SampleDataContext       = "context"
	SampleDataCourseModules = "course_modules"
	SampleDataAssign        = "assign"
	SampleDataSubmission    = "assign_submission"
)

// SampleBundle is the contextual data attached to one sample. The sample id
// is the submission id; the bundle must carry all six records or the sample
// is malformed.
type SampleBundle struct {
	Course     Course        `json:"course"`
	User       Participant   `json:"user"`
	Context    ModuleContext `json:"context"`
	Module     CourseModule  `json:"course_modules"`
	Assignment Assignment    `json:"assign"`
	Submission Submission    `json:"assign_submission"`
}

// Complete reports whether all six bundle records are populated.
func (b SampleBundle) Complete() bool {
	return b.Course.ID != 0 &&
		b.User.ID != 0 &&
		b.Context.ID != 0 &&
		b.Module.ID != 0 &&
		b.Assignment.ID != 0 &&
		b.Submission.ID != 0
}

// Icon is a renderable icon reference for sample descriptions.
type Icon struct {
	Component string `json:"component"`
	Name      string `json:"name"`
	Alt       string `json:"alt"`
}

// DatasetRow is one labeled (or to-be-predicted) sample in a built dataset.
type DatasetRow struct {
	SampleID    int64 `json:"sample_id"`
	ActivityID  int64 `json:"activity_id"`
	CourseID    int64 `json:"course_id"`
	UserID      int64 `json:"user_id"`
	Label       *int  `json:"label,omitempty"`
	WeightClass *int  `json:"weight_class,omitempty"`
}

// ActivitySkip records why an activity contributed no samples.
type ActivitySkip struct {
	ActivityID int64  `json:"activity_id"`
	Reason     string `json:"reason"`
}
