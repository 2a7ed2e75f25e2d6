package sim

import "github.com/pkg/errors"

// ErrColumnBlocked колонка не годится для появления: не загружена, не ровная или занята
var ErrColumnBlocked = errors.New("колонка недоступна для появления")
