/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipframe/internal/session"
)

func TestRecoverWritesReportAndAutosave(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	exited := -1
	exitFn = func(code int) { exited = code }
	defer func() { exitFn = os.Exit }()

	sess := session.New("talk.mp4", []session.Clip{{Index: 0}})
	func() {
		defer Recover(sess)
		panic("boom")
	}()

	if exited != 2 {
		t.Fatalf("exit code = %d", exited)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var report, autosave string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "clipframe-crash-") && strings.HasSuffix(name, ".log") {
			report = filepath.Join(dir, name)
		}
		if strings.HasSuffix(name, "-session.json") {
			autosave = filepath.Join(dir, name)
		}
	}
	if report == "" {
		t.Fatalf("no crash report written: %v", entries)
	}
	data, _ := os.ReadFile(report)
	if !strings.Contains(string(data), "Panic: boom") {
		t.Fatalf("report missing panic value")
	}
	if !strings.Contains(string(data), "Source: talk.mp4") {
		t.Fatalf("report missing session context")
	}
	if autosave == "" {
		t.Fatalf("no session autosave written")
	}
	if _, err := session.LoadSnapshot(autosave); err != nil {
		t.Fatalf("autosave not loadable: %v", err)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	exited := -1
	exitFn = func(code int) { exited = code }
	defer func() { exitFn = os.Exit }()
	func() {
		defer Recover(nil)
	}()
	if exited != -1 {
		t.Fatalf("recover without panic must not exit")
	}
}
