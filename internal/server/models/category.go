package models

// Category is a lookup value reports refer to by id.
type Category struct {
	ID   int64
	Name string
}
