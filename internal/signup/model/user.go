// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Soft-deleted rows keep their DeletedAt and
// are invisible to every repository query.
type User struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	FirstName    string         `gorm:"size:100;not null" json:"firstName" example:"John"`
	LastName     string         `gorm:"size:100;not null" json:"lastName" example:"Doe"`
	Email        string         `gorm:"size:255;not null;index" json:"email" example:"john.doe@example.com"`
	PasswordHash string         `gorm:"not null" json:"-"`
	PhoneNumber  *string        `gorm:"size:32;index" json:"phoneNumber,omitempty" example:"+66812345678"`
	AvatarURL    *string        `gorm:"size:512" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an ID to new users.
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	FirstName   string  `json:"firstName" binding:"required,min=1" example:"John"`
	LastName    string  `json:"lastName" binding:"required,min=1" example:"Doe"`
	Email       string  `json:"email" binding:"required,email" example:"john.doe@example.com"`
	Password    string  `json:"password" binding:"required,min=6" example:"password123"`
	PhoneNumber *string `json:"phoneNumber,omitempty" binding:"omitempty,min=1"`
	AvatarURL   *string `json:"avatarUrl,omitempty" binding:"omitempty,min=1"`
}

// ToUser builds the record to persist for this request.
func (r *RegisterRequest) ToUser(passwordHash string) *User {
	return &User{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PasswordHash: passwordHash,
		PhoneNumber:  r.PhoneNumber,
		AvatarURL:    r.AvatarURL,
	}
}
