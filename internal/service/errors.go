package service

import "fmt"

var (
	ErrEmptyAppName     = fmt.Errorf("app name must not be empty")
	ErrAppAlreadyExists = fmt.Errorf("app already exists")
	ErrAppNotFound      = fmt.Errorf("app not found")
	ErrInvalidAPIKey    = fmt.Errorf("invalid api key")
)
