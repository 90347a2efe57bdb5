package model

type Court struct {
	ID       int64
	Name     string
	Surface  string
	IsActive bool
}
