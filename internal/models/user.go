package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	FullName   string    `db:"fullname" json:"fullname"`
	Email      string    `db:"email" json:"email"`
	Password   string    `db:"password" json:"password,omitempty"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	Bio        string    `db:"bio" json:"bio"`
	Role       string    `db:"role" json:"role"`
	AvatarURL  string    `db:"avatar_url" json:"avatar_url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
