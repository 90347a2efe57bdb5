package model

import "time"

type User struct {
	ID             int64
	Email          string
	FullName       string
	Phone          string
	HashedPassword string
	IsActive       bool
	IsAdmin        bool
	CreatedAt      time.Time
}

func (u User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}
