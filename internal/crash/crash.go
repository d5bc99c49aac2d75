/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file plus a best-effort autosave
// of the editing session, so a crash mid-edit loses as little region work as
// possible.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "clipframe/internal/log"
	"clipframe/internal/session"
	"clipframe/internal/telemetry"
	"clipframe/internal/version"
)

// exitFn allows testing Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs the stack, writes a crash report file, and
// autosaves the session snapshot next to it when a session is present.
//
// Usage: defer func() { crash.Recover(sess) }()
func Recover(s *session.Session) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(s, r, stack)
		if s != nil {
			snapPath := autosavePath(reportPath)
			if err := s.SaveSnapshot(snapPath); err != nil {
				l.Error("session autosave failed", slog.Any("err", err))
			} else {
				l.Info("session autosaved", slog.String("path", snapPath))
			}
		}

		fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
		fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
		exitFn(2)
	}
}

func autosavePath(reportPath string) string {
	base := reportPath[:len(reportPath)-len(filepath.Ext(reportPath))]
	return base + "-session.json"
}

func writeReport(s *session.Session, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("clipframe-crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ClipFrame Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if s != nil {
		fmt.Fprintf(&buf, "Source: %s\n", s.SourceName)
		fmt.Fprintf(&buf, "Clips: %d (active %d)\n", len(s.Clips), s.ActiveClip())
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}

	// opt-in anonymized upload
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
