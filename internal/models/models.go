package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Avatar is the user's profile image reference. Exists is false until an
// image has been uploaded; ImageID is the storage object key, used for
// deletion.
type Avatar struct {
	Exists    bool   `gorm:"default:false" json:"exists"`
	ImageLink string `gorm:"size:512" json:"imageLink"`
	ImageID   string `gorm:"size:255" json:"imageId"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Username     string    `gorm:"size:20;not null;uniqueIndex" json:"username"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PhoneNumber  string    `gorm:"size:20" json:"phoneNumber"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`

	Role             string `gorm:"size:100" json:"role"`
	Branch           string `gorm:"size:100" json:"branch"`
	Batch            string `gorm:"size:20" json:"batch"`
	LinkedinUsername string `gorm:"size:100" json:"linkedinUsername"`

	Avatar Avatar `gorm:"embedded;embeddedPrefix:avatar_" json:"avatar"`

	PostKarma     int64 `gorm:"default:0" json:"postKarma"`
	CommentKarma  int64 `gorm:"default:0" json:"commentKarma"`
	TotalComments int64 `gorm:"default:0" json:"totalComments"`

	// Password reset state. At most one outstanding token per user; the
	// token value is unique across all users while it is set. Cleared state
	// is the empty string with expiry 0 (epoch millis).
	ResetToken          string `gorm:"size:64;index" json:"-"`
	ResetTokenExpiresAt int64  `gorm:"default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	return
}

// Karma is the user's combined reputation, as shown next to their name.
func (user *User) Karma() int64 {
	return user.PostKarma + user.CommentKarma
}

type Post struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Title string `gorm:"size:255;not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`

	PointsCount  int64 `gorm:"default:0" json:"pointsCount"`
	CommentCount int64 `gorm:"default:0" json:"commentCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (post *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return
}

type Comment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	PostID   uuid.UUID `gorm:"type:uuid;not null;index" json:"postId"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Body        string `gorm:"type:text;not null" json:"body"`
	PointsCount int64  `gorm:"default:0" json:"pointsCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (comment *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return
}

// PostVote records a user's vote on a post. Value is +1 or -1; re-voting
// with the same value removes the vote (toggle), the opposite value flips it.
type PostVote struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;"`
	PostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_votes_post_user"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_votes_post_user"`
	Value  int       `gorm:"not null"`

	CreatedAt time.Time
}

func (v *PostVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

type CommentVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_votes_comment_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_votes_comment_user"`
	Value     int       `gorm:"not null"`

	CreatedAt time.Time
}

func (v *CommentVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
