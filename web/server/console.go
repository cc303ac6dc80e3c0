package server

import (
	"fmt"
	"time"

	"github.com/phoekz/raydiance-sub000/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// WebLogger forwards every message to a base logger and, except debug
// output, to a render's console channel
type WebLogger struct {
	base        log.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for a single render
func NewWebLogger(base log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{base: base, consoleChan: consoleChan}
}

func (wl *WebLogger) Debug(v ...interface{}) { wl.base.Debug(v...) }

func (wl *WebLogger) Debugf(format string, v ...interface{}) { wl.base.Debugf(format, v...) }

func (wl *WebLogger) Info(v ...interface{}) {
	wl.base.Info(v...)
	wl.forward("info", fmt.Sprint(v...))
}

func (wl *WebLogger) Infof(format string, v ...interface{}) {
	wl.base.Infof(format, v...)
	wl.forward("info", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Notice(v ...interface{}) {
	wl.base.Notice(v...)
	wl.forward("notice", fmt.Sprint(v...))
}

func (wl *WebLogger) Noticef(format string, v ...interface{}) {
	wl.base.Noticef(format, v...)
	wl.forward("notice", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Warning(v ...interface{}) {
	wl.base.Warning(v...)
	wl.forward("warning", fmt.Sprint(v...))
}

func (wl *WebLogger) Warningf(format string, v ...interface{}) {
	wl.base.Warningf(format, v...)
	wl.forward("warning", fmt.Sprintf(format, v...))
}

func (wl *WebLogger) Error(v ...interface{}) {
	wl.base.Error(v...)
	wl.forward("error", fmt.Sprint(v...))
}

func (wl *WebLogger) Errorf(format string, v ...interface{}) {
	wl.base.Errorf(format, v...)
	wl.forward("error", fmt.Sprintf(format, v...))
}

// forward sends to the console channel without blocking; messages are
// dropped while the channel is full
func (wl *WebLogger) forward(level, message string) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: level}:
	default:
	}
}
