package model

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	DefaultNickname = "Operator"
	DefaultFavMode  = "General"
	avatarURLFormat = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
)

type UserStats struct {
	TotalRequests int
	FavMode       string
}

type User struct {
	Nickname       string
	Avatar         string
	OnboardingSeen bool
	Stats          UserStats
}

// NewUser returns the profile created on first launch.
func NewUser() User {
	return User{
		Nickname: DefaultNickname,
		Avatar:   fmt.Sprintf(avatarURLFormat, uuid.NewString()),
		Stats: UserStats{
			FavMode: DefaultFavMode,
		},
	}
}
