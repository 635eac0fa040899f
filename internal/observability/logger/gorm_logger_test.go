package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL(`SELECT * FROM "plans" WHERE id = 1`))
	assert.Equal(t, "INSERT", operationFromSQL(`WITH x AS (SELECT 1) INSERT INTO leads VALUES (1)`))
	assert.Equal(t, "UNKNOWN", operationFromSQL("   "))
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "plans", tableFromSQL(`SELECT * FROM "plans" WHERE id = 1`))
	assert.Equal(t, "leads", tableFromSQL(`INSERT INTO leads (id) VALUES (1)`))
	assert.Equal(t, "selection_books", tableFromSQL(`UPDATE selection_books SET notes = ''`))
	assert.Equal(t, "", tableFromSQL(`BEGIN`))
}

func TestGormLogger_QueryLevel(t *testing.T) {
	l := NewGormLogger(DefaultGormLoggerConfig())

	level, ok := l.queryLevel(time.Millisecond, errors.New("boom"))
	assert.True(t, ok)
	assert.Equal(t, zapcore.ErrorLevel, level)

	level, ok = l.queryLevel(time.Second, nil)
	assert.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, ok = l.queryLevel(time.Millisecond, nil)
	assert.False(t, ok)

	quiet := NewGormLogger(GormLoggerConfig{Level: gormlogger.Error, IgnoreRecordNotFound: true})
	_, ok = quiet.queryLevel(time.Millisecond, gormlogger.ErrRecordNotFound)
	assert.False(t, ok)

	verbose := l.LogMode(gormlogger.Info).(*GormLogger)
	level, ok = verbose.queryLevel(time.Millisecond, nil)
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, level)
	assert.Equal(t, gormlogger.Warn, l.cfg.Level)
}
