// Command htmlkit-watch watches an HTML file on disk and pushes a fresh
// parse+query summary to connected websocket clients every time it
// changes, the same live-reload posture as the teacher's pages.go
// component-rendering loop, applied here to htmlkit's parse result
// instead of a rendered component.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dpotapov/htmlkit/htmlparse"
	"github.com/dpotapov/htmlkit/selector"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// update is what gets pushed to each connected client as JSON whenever the
// watched file's parse result changes.
type update struct {
	Diagnostics int      `json:"diagnostics"`
	RootTags    []string `json:"rootTags"`
	Matches     int      `json:"matches,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func main() {
	addr := flag.String("addr", ":8900", "address to listen on")
	file := flag.String("file", "", "HTML file to watch (required)")
	mode := flag.String("mode", "synchronous", "parse mode: synchronous or speculative")
	sel := flag.String("selector", "", "optional selector to report a match count for")
	interval := flag.Duration("interval", 500*time.Millisecond, "poll interval for file changes")
	flag.Parse()

	logger := slog.Default()

	if *file == "" {
		logger.Error("htmlkit-watch: -file is required")
		os.Exit(2)
	}

	parseMode := htmlparse.Synchronous
	if *mode == "speculative" {
		parseMode = htmlparse.Speculative
	}

	w := &watcher{
		path:     *file,
		selector: *sel,
		opts:     htmlparse.Options{Mode: parseMode, Logger: logger},
		logger:   logger,
		clients:  make(map[*websocket.Conn]struct{}),
	}

	go w.poll(context.Background(), *interval)

	http.HandleFunc("/ws", w.serveWS)
	logger.Info("htmlkit-watch: listening", "addr", *addr, "file", *file)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logger.Error("htmlkit-watch: server exited", "error", err)
		os.Exit(1)
	}
}

type watcher struct {
	path     string
	selector string
	opts     htmlparse.Options
	logger   *slog.Logger

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

func (w *watcher) serveWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.logger.Warn("htmlkit-watch: upgrade failed", "error", err)
		return
	}
	w.clientsMu.Lock()
	w.clients[conn] = struct{}{}
	w.clientsMu.Unlock()

	u, err := w.snapshot()
	if err == nil {
		_ = conn.WriteJSON(u)
	}

	go func() {
		defer func() {
			w.clientsMu.Lock()
			delete(w.clients, conn)
			w.clientsMu.Unlock()
		}()
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					w.logger.Debug("htmlkit-watch: client read error", "error", err)
				}
				return
			}
		}
	}()
}

// poll re-parses the watched file whenever its modification time changes
// and broadcasts the new summary to every connected client.
func (w *watcher) poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastModTime time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				w.broadcast(update{Error: err.Error()})
				continue
			}
			if info.ModTime().Equal(lastModTime) {
				continue
			}
			lastModTime = info.ModTime()

			u, err := w.snapshot()
			if err != nil {
				w.broadcast(update{Error: err.Error()})
				continue
			}
			w.broadcast(u)
		}
	}
}

func (w *watcher) snapshot() (update, error) {
	res, err := htmlparse.ParseFile(w.path, w.opts)
	if err != nil {
		var extErr *htmlparse.FileExtensionError
		if errors.As(err, &extErr) {
			return update{}, fmt.Errorf("htmlkit-watch: %w", err)
		}
		return update{}, err
	}

	u := update{Diagnostics: len(res.Diagnostics)}
	for _, e := range res.Document.Children() {
		u.RootTags = append(u.RootTags, e.TagName())
	}

	if w.selector != "" {
		matches, err := selector.QuerySelectorAll(res.Document, w.selector)
		if err != nil {
			return update{}, fmt.Errorf("htmlkit-watch: selector %q: %w", w.selector, err)
		}
		u.Matches = len(matches)
	}

	return u, nil
}

func (w *watcher) broadcast(u update) {
	payload, err := json.Marshal(u)
	if err != nil {
		w.logger.Error("htmlkit-watch: marshal update", "error", err)
		return
	}
	w.clientsMu.Lock()
	defer w.clientsMu.Unlock()
	for conn := range w.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			w.logger.Debug("htmlkit-watch: broadcast error", "error", err)
		}
	}
}
