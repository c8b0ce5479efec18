package cache

import "errors"

var ErrNotFound = errors.New("error cache miss")
