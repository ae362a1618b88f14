package models

// GradeType enumerates how a grade item is graded.
type GradeType int

// Grade types mirrored from the gradebook schema.
const (
	GradeTypeNone  GradeType = 0
	GradeTypeValue GradeType = 1
	GradeTypeScale GradeType = 2
	GradeTypeText  GradeType = 3
)

// Grade item types.
const (
	GradeItemTypeMod      = "mod"
	GradeItemTypeCategory = "category"
	GradeItemTypeCourse   = "course"
)

// GradeItem is one gradebook item. AggregationCoef2 is the weight this item
// contributes to its parent category's aggregate.
type GradeItem struct {
	ID               int64     `db:"id" json:"id"`
	CourseID         int64     `db:"courseid" json:"courseid"`
	CategoryID       int64     `db:"categoryid" json:"categoryid"`
	ItemType         string    `db:"itemtype" json:"itemtype"`
	ItemModule       string    `db:"itemmodule" json:"itemmodule"`
	ItemInstance     int64     `db:"iteminstance" json:"iteminstance"`
	GradeType        GradeType `db:"gradetype" json:"gradetype"`
	AggregationCoef2 float64   `db:"aggregationcoef2" json:"aggregationcoef2"`
}

// GradeCategory is a node of the per-course grade category tree. The
// course-level root has no parent.
type GradeCategory struct {
	ID       int64 `db:"id" json:"id"`
	CourseID int64 `db:"courseid" json:"courseid"`
	ParentID int64 `db:"parent" json:"parent"`
	Depth    int   `db:"depth" json:"depth"`
}

// IsCourseRoot reports whether the category is the course-level root.
func (c GradeCategory) IsCourseRoot() bool {
	return c.ParentID == 0
}
