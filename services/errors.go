package services

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrNotOwner          = errors.New("image does not belong to user")
	ErrSearchUnavailable = errors.New("media search is not configured")
)
