package logger

import (
	"context"
	"fmt"
	"time"

	"assixx/internal/config"
	"assixx/internal/database"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Caller  string // Function name
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *database.SQLDB
	logChan chan LogEntry
	appId   string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(db *database.SQLDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      db,
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:   cfg.AppId,
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
		// Log pushed to channel
	default:
		// Channel full: drop log to prevent blocking the API
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	query := w.db.Rebind(`
		INSERT INTO system_logs (message, level, caller, app_id, created_on_utc)
		VALUES (?, ?, ?, ?, ?)
	`)

	for entry := range w.logChan {
		levelId := mapLevelToInt(entry.Level)

		// Insert into DB (safely ignore errors to keep the app running)
		_, _ = w.db.DB.ExecContext(context.Background(), query,
			entry.Message,
			levelId,
			entry.Caller,
			w.appId,
			time.Now().UTC(),
		)
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
