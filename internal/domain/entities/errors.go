package entities

import "errors"

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidCallType    = errors.New("invalid call type")
	ErrInvalidTransition  = errors.New("invalid call status transition")
)
