package models

// Aircraft is a registered airframe. Class (e.g. "SEP") is copied onto flights at entry time.
type Aircraft struct {
	Registration string `db:"registration"`
	Type         string `db:"type"`
	Class        string `db:"class"`
}
