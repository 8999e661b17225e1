package services

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrTransport    = errors.New("deck transfer failed")
	ErrInvalidInput = errors.New("invalid input")

	ErrProjectNotFound error = notFoundError("project")
	ErrSlideNotFound   error = notFoundError("slide")
)

type notFoundError string

func (e notFoundError) Error() string {
	return string(e) + " not found"
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}
