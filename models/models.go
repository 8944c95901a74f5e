// models/models.go - Social graph and group models
package models

import (
	"time"
)

// Friend represents an accepted friendship between users
type Friend struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FriendID  uint      `json:"friend_id" gorm:"not null;index"`
	Friend    *User     `json:"friend,omitempty" gorm:"foreignKey:FriendID"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendRequest represents a pending friend request
type FriendRequest struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FromUserID uint      `json:"from_user_id" gorm:"not null;index"`
	FromUser   *User     `json:"from_user,omitempty" gorm:"foreignKey:FromUserID"`
	ToUserID   uint      `json:"to_user_id" gorm:"not null;index"`
	ToUser     *User     `json:"to_user,omitempty" gorm:"foreignKey:ToUserID"`
	Status     string    `json:"status" gorm:"default:'pending';size:20"` // pending, accepted, rejected
	CreatedAt  time.Time `json:"created_at"`
}

// Group represents a walking group users can join
type Group struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null;size:100"`
	Description string        `json:"description" gorm:"type:text"`
	IsPublic    bool          `json:"is_public" gorm:"default:true"`
	CreatedBy   uint          `json:"created_by" gorm:"index"`
	Creator     *User         `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Members     []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

// GroupMember links a user to a group
type GroupMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	GroupID  uint      `json:"group_id" gorm:"not null;index"`
	Group    *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	UserID   uint      `json:"user_id" gorm:"not null;index"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role     string    `json:"role" gorm:"default:'member';size:20"` // owner, member
	JoinedAt time.Time `json:"joined_at"`
}

func (Friend) TableName() string {
	return "friends"
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

func (Group) TableName() string {
	return "groups"
}

func (GroupMember) TableName() string {
	return "group_members"
}
