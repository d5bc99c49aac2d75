/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"clipframe/internal/backend"
	"clipframe/internal/config"
	"clipframe/internal/crash"
	"clipframe/internal/export"
	applog "clipframe/internal/log"
	"clipframe/internal/render"
	"clipframe/internal/session"
	"clipframe/internal/ui"
	"clipframe/internal/version"
)

func usage() {
	fmt.Println("ClipFrame — region layout editor for vertical clips")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  clipframe version|-v|--version        Show version")
	fmt.Println("  clipframe edit [<session.json>]        Launch the editor (build with -tags fyne for full UI)")
	fmt.Println("  clipframe export <session.json> <out.pdf>")
	fmt.Println("                                         Write a storyboard PDF for a saved session")
	fmt.Println("  clipframe submit <session.json> [--captions]")
	fmt.Println("                                         Submit every clip of a saved session for rendering")
	fmt.Println("  clipframe serve                        Run the render-job history server")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var sess *session.Session
	defer func() { crash.Recover(sess) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("ClipFrame — region layout editor")
		fmt.Println(version.String())
	case "edit":
		var path string
		if len(args) >= 3 {
			path = args[2]
		}
		if err := ui.Run(path); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <session.json> and <out.pdf>")
			usage()
			os.Exit(2)
		}
		s, err := session.LoadSnapshot(args[2])
		if err != nil {
			l.Error("load session failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		sess = s
		out, _ := filepath.Abs(args[3])
		if err := export.WriteStoryboard(s, out, export.StoryboardOptions{}); err != nil {
			l.Error("storyboard export failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Storyboard written to", out)
	case "submit":
		if len(args) < 3 {
			fmt.Println("submit requires <session.json>")
			usage()
			os.Exit(2)
		}
		s, err := session.LoadSnapshot(args[2])
		if err != nil {
			l.Error("load session failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		sess = s
		cfg, token, err := config.Load()
		if err != nil {
			l.Error("load config failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		client := render.NewClient(cfg.Compositor.BaseURL, token, cfg.EffectiveTimeout(), cfg.Compositor.TLSInsecure)
		var captions *render.CaptionOptions
		for _, a := range args[3:] {
			if a == "--captions" {
				captions = render.DefaultCaptionOptions()
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		results, err := render.SubmitAll(ctx, client, s, captions, render.DefaultBatchWorkers)
		for _, r := range results {
			fmt.Printf("clip %d -> job %s (%s)\n", r.Clip+1, r.Job.ID, r.Job.State)
		}
		if err != nil {
			l.Error("submission failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Submitted %d clip(s) to %s\n", len(results), cfg.Compositor.BaseURL)
	case "serve":
		cfg, _, err := config.Load()
		if err != nil {
			l.Error("load config failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if !cfg.General.EnableServer {
			fmt.Println("The job-history server is disabled. Set general.enable_server: true in the config file or CF_ENABLE_SERVER=1.")
			os.Exit(1)
		}
		if err := backend.Start(); err != nil {
			l.Error("server failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}
