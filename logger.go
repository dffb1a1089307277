/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Logger is an output log that can be viewed and scrolled.
type Logger struct {
	mu sync.Mutex

	// buf contains each line of logged text.
	buf []string

	// pos is the current user read position within the log.
	pos int
}

// NewLog creates a new Logger.
func NewLog() *Logger {
	return &Logger{
		buf: make([]string, 0, 100),
		pos: 0,
	}
}

// Log outputs a new line to the log.
func (log *Logger) Log(s ...string) {
	log.mu.Lock()
	defer log.mu.Unlock()

	scroll := log.pos == len(log.buf)

	// add the new line
	log.buf = append(log.buf, strings.Join(s, " "))

	if scroll {
		log.pos = len(log.buf)
	}
}

// Logln outputs a new line to the log, with an empty line prefixed.
func (log *Logger) Logln(s ...string) {
	log.mu.Lock()
	defer log.mu.Unlock()

	scroll := log.pos == len(log.buf)

	// append the lines
	log.buf = append(log.buf, "", strings.Join(s, " "))

	if scroll {
		log.pos = len(log.buf)
	}
}

// Window returns the n lines of logged text ending at the read position.
func (log *Logger) Window(n int) []string {
	log.mu.Lock()
	defer log.mu.Unlock()

	start := log.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	end := start + n
	if end > len(log.buf) {
		end = len(log.buf)
	}

	return append([]string(nil), log.buf[start:end]...)
}

// Lines returns every line logged.
func (log *Logger) Lines() []string {
	log.mu.Lock()
	defer log.mu.Unlock()

	return append([]string(nil), log.buf...)
}

// Home scrolls the log to the beginning.
func (log *Logger) Home() {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.pos = 0
}

// End scrolls the log to the end.
func (log *Logger) End() {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.pos = len(log.buf)
}

// ScrollUp scrolls the log back one position.
func (log *Logger) ScrollUp() {
	log.mu.Lock()
	defer log.mu.Unlock()

	// clamp to home
	if log.pos > 0 {
		log.pos--
	}
}

// ScrollDown scrolls the log forward one position, never showing less
// than a full window.
func (log *Logger) ScrollDown(windowSize int) {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.pos++

	if log.pos < windowSize {
		log.pos = windowSize
	}

	// clamp to end
	if log.pos > len(log.buf) {
		log.pos = len(log.buf)
	}
}

// LogHandler is a slog.Handler writing records into a Logger. Records
// are also passed on to next, when set.
type LogHandler struct {
	log   *Logger
	level slog.Leveler
	next  slog.Handler

	// attrs are preformatted key=value pairs from WithAttrs.
	attrs string
	group string
}

// NewLogHandler creates a handler for records at or above level.
func NewLogHandler(log *Logger, level slog.Leveler, next slog.Handler) *LogHandler {
	return &LogHandler{log: log, level: level, next: next}
}

// Enabled implements slog.Handler.
func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= h.level.Level() {
		return true
	}

	return h.next != nil && h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level.Level() {
		var sb strings.Builder

		sb.WriteString(r.Message)
		sb.WriteString(h.attrs)

		r.Attrs(func(a slog.Attr) bool {
			h.writeAttr(&sb, a)
			return true
		})

		// warnings and errors stand out from the rest of the log
		if r.Level >= slog.LevelWarn {
			h.log.Logln(r.Level.String(), sb.String())
		} else {
			h.log.Log(sb.String())
		}
	}

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder

	for _, a := range attrs {
		h.writeAttr(&sb, a)
	}

	c := *h
	c.attrs += sb.String()

	if h.next != nil {
		c.next = h.next.WithAttrs(attrs)
	}

	return &c
}

// WithGroup implements slog.Handler.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	c := *h

	if c.group == "" {
		c.group = name
	} else {
		c.group += "." + name
	}

	if h.next != nil {
		c.next = h.next.WithGroup(name)
	}

	return &c
}

func (h *LogHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}

	fmt.Fprintf(sb, " %s=%v", key, a.Value.Resolve())
}
