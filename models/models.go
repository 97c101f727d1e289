package models

import (
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model
	Username  string `gorm:"unique;size:150;not null"`
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Email     string `gorm:"size:254"`
	Password  string
	Posts     []Post    `gorm:"foreignkey:AuthorID"`
	Comments  []Comment `gorm:"foreignkey:AuthorID"`
}

// FullName возвращает "Имя Фамилия" или username, если имя не заполнено
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

type Category struct {
	gorm.Model
	Title       string `gorm:"size:256;not null"`
	Description string `gorm:"type:text"`
	Slug        string `gorm:"unique;size:64;not null"`
	IsPublished bool
}

type Location struct {
	gorm.Model
	Name        string `gorm:"size:256;not null"`
	IsPublished bool
}

type Post struct {
	gorm.Model
	Title       string    `gorm:"size:256;not null"`
	Text        string    `gorm:"type:text;not null"`
	PubDate     time.Time `gorm:"index;not null"`
	Image       string
	IsPublished bool
	AuthorID    uint      `gorm:"index"`
	Author      User      `gorm:"foreignkey:AuthorID"`
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"foreignkey:CategoryID"`
	LocationID  *uint
	Location    *Location `gorm:"foreignkey:LocationID"`
	Comments    []Comment `gorm:"foreignkey:PostID"`

	// CommentCount заполняется при выборке ленты, в БД не хранится
	CommentCount int `gorm:"-"`
}

// IsPublic сообщает, виден ли пост всем: опубликован, дата публикации
// наступила и категория опубликована.
func (p *Post) IsPublic(now time.Time) bool {
	return p.IsPublished &&
		!p.PubDate.After(now) &&
		p.Category != nil &&
		p.Category.IsPublished
}

// VisibleTo сообщает, виден ли пост пользователю userID (0 - аноним).
// Автор видит свои посты всегда.
func (p *Post) VisibleTo(userID uint, now time.Time) bool {
	if userID != 0 && p.AuthorID == userID {
		return true
	}
	return p.IsPublic(now)
}

type Comment struct {
	gorm.Model
	Text     string `gorm:"type:text;not null"`
	PostID   uint   `gorm:"index"`
	AuthorID uint
	Author   User `gorm:"foreignkey:AuthorID"`
}
