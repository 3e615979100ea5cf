// Copyright 2026 The autometa Authors
// This file is part of the autometa library.
//
// The autometa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The autometa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the autometa library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides a module-scoped, key-value structured logger
// backed by zap. Call sites look like logger.Error("msg", "key", val, ...),
// matching the convention used throughout this codebase's predecessor.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.Logger

func init() {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)
	base = zap.New(core)
}

// Logger is a module-scoped leveled logger with log15-style key-value pairs.
type Logger struct {
	sugar  *zap.SugaredLogger
	module string
}

// NewModuleLogger returns a Logger tagged with the given module name.
func NewModuleLogger(module string) *Logger {
	return &Logger{sugar: base.Sugar().With("module", module), module: module}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

// Fatal logs at error level and terminates the process. Reserved for
// config-fatal startup errors per the error handling design (§7):
// every other failure path is caught and logged, never fatal.
func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.sugar.Errorw(msg, kv...)
	os.Exit(1)
}

// Module name constants, one per long-running component.
const (
	Scheduler = "SCHED"
	Worker    = "WORKER"
	Chain     = "CHAIN"
	Price     = "PRICE"
	Trigger   = "TRIGGER"
	Queue     = "QUEUE"
	History   = "HISTORY"
	CMD       = "CMD"
)
