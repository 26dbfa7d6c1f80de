package main

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/benchplot/backend"
)

// WindowState holds the per-window resources the UI uses to consume backend streams.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds the application-wide backend resources.
type Bundle struct {
	Source *backend.Source
}

func NewBundle(dataPath string) Bundle {
	return Bundle{
		Source: backend.NewSource(dataPath),
	}
}
