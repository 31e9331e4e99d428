package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrLetterNotFound = errors.New("letter not found")
)
