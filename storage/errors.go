package storage

import "github.com/pkg/errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrItemWithIDAlreadyExists = errors.New("item with the same id already exists")
var ErrUnknownBackend = errors.New("unknown storage backend")
