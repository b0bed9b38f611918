package mysql

import (
	"errors"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"voicenotes/domain/voicenote"
)

const (
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
)

// isTransientError reports whether a write failed for a reason that a plain
// replay can fix. Version conflicts are excluded: the aggregate is stale and
// must be reloaded before another attempt.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, voicenote.ErrConcurrentModification) {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrLockDeadlock, mysqlErrLockWaitTimeout:
			return true
		}
	}

	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return true
	}

	errStr := err.Error()
	if strings.Contains(errStr, "deadlock") || strings.Contains(errStr, "lock wait timeout") {
		return true
	}
	if strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost") {
		return true
	}

	return false
}
