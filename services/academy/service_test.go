package academy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, isDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: certificates.certificate_number")))

	assert.False(t, isDuplicateKey(nil))
	assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}

func TestPagination(t *testing.T) {
	p := newPagination(2, 10, 21)
	assert.Equal(t, 3, p.LastPage)
	assert.Equal(t, 1, newPagination(1, 10, 0).LastPage)
	assert.Equal(t, 10, offset(2, 10))
	assert.Equal(t, 0, offset(0, 10))
}
