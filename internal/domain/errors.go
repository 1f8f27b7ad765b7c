package domain

import "errors"

// Repository sentinels. Usecases translate them into apperror kinds.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)
