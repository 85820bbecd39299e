package storage

import (
	"errors"

	"github.com/lib/pq"
)

// коды ошибок PostgreSQL, которые репозитории переводят в свои ошибки
const (
	pqUniqueViolation           = "23505"
	pqInvalidTextRepresentation = "22P02" // например, строка не является UUID
)

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
