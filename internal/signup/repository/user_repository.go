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

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/innovationmech/signup/internal/signup/model"
	"gorm.io/gorm"
)

// ErrDuplicateUser is returned by SaveUser when the store rejects the row as
// a duplicate.
var ErrDuplicateUser = errors.New("user already exists")

// UserRepository persists users. Soft-deleted users are never returned.
type UserRepository interface {
	CheckUserExists(ctx context.Context, email string) (bool, error)
	SaveUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (u userRepository) CheckUserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	result := u.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("check user existence: %w", result.Error)
	}
	return count > 0, nil
}

func (u userRepository) SaveUser(ctx context.Context, user *model.User) error {
	result := u.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("save user: %w", result.Error)
	}
	return nil
}

// FindUserByEmail returns nil and no error when no user has this email.
func (u userRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.findOne(ctx, "email = ?", email)
}

// FindUserByPhoneNumber returns nil and no error when no user has this number.
func (u userRepository) FindUserByPhoneNumber(ctx context.Context, phoneNumber string) (*model.User, error) {
	return u.findOne(ctx, "phone_number = ?", phoneNumber)
}

func (u userRepository) findOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	result := u.db.WithContext(ctx).Where(query, arg).Take(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", result.Error)
	}
	return &user, nil
}
