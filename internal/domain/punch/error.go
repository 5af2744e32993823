package punch

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrDuplicateOfflineID = errors.New("record with this offline id already exists")
)
