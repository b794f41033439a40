// tradepost-server serves the inventory engine over SSH. Every connection
// gets its own session with saves kept per user name. Build:
//
//	go build -o tradepost-server ./cmd/server
//
// Usage:
//
//	./tradepost-server [--port 2222] [--key server_host_key] [--config tradepost.yaml]
//
// Connect with:
//
//	ssh -t -p 2222 alice@localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"tradepost/assets"
	"tradepost/internal/config"
	"tradepost/internal/game"
	"tradepost/internal/logging"
	internalssh "tradepost/internal/ssh"
	"tradepost/internal/store"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

const maxNameBytes = 16

func main() {
	port := flag.Int("port", 2222, "SSH server port")
	keyFile := flag.String("key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	cfgPath := flag.String("config", "", "Path to the YAML config file")
	catalogPath := flag.String("catalog", "", "Path to a world catalog replacing the built-in one")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, closer, err := logging.NewLogger(cfg.LogLevel, cfg.LogDir, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	saveDir := cfg.SaveDir
	if saveDir == "" {
		if saveDir, err = store.DefaultDir(); err != nil {
			logger.Error("server: no save directory", "error", err)
			os.Exit(1)
		}
	}

	srv := &server{cfg: cfg, saveDir: saveDir, catalogPath: *catalogPath, logger: logger}
	sshSrv := &gossh.Server{
		Addr:        fmt.Sprintf(":%d", *port),
		Handler:     srv.handleSession,
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Any client may connect; the user name only picks the save directory.
		HostSigners: []gossh.Signer{loadOrCreateHostKey(*keyFile, logger)},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv.ctx = ctx
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = sshSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("server: listening", "port", *port, "save_dir", saveDir)
	if err := sshSrv.ListenAndServe(); err != nil && err != gossh.ErrServerClosed {
		logger.Error("server: stopped", "error", err)
		os.Exit(1)
	}
	srv.wg.Wait()
}

// server runs one independent game per SSH connection. A player name has
// at most one live session, since sessions sharing a save directory would
// each load and loot the same containers.
type server struct {
	ctx         context.Context
	cfg         config.Config
	saveDir     string
	catalogPath string
	logger      *slog.Logger
	wg          sync.WaitGroup

	mu     sync.Mutex
	active map[string]bool
}

// claim reserves name for one session. It fails while another session
// holds the name.
func (s *server) claim(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[name] {
		return false
	}
	if s.active == nil {
		s.active = make(map[string]bool)
	}
	s.active[name] = true
	return true
}

func (s *server) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, name)
}

func (s *server) catalog() (*assets.Catalog, error) {
	if s.catalogPath != "" {
		return assets.Load(s.catalogPath)
	}
	return assets.Default()
}

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// until the player quits so the session stays open.
func (s *server) handleSession(sess gossh.Session) {
	s.wg.Add(1)
	defer s.wg.Done()

	pty, winCh, hasPTY := sess.Pty()
	if !hasPTY {
		fmt.Fprintln(sess, "tradepost needs a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}
	term := pty.Term
	if !allowedTerms[term] {
		term = "xterm-256color"
	}

	name := sanitizeName(sess.User())
	if name == "" {
		name = "guest"
	}
	logger := s.logger.With("player", name, "remote", sess.RemoteAddr().String())
	if !s.claim(name) {
		logger.Warn("server: duplicate login refused")
		fmt.Fprintf(sess, "%s is already playing from another connection.\n", name)
		return
	}
	defer s.release(name)

	tty := internalssh.NewSessionTty(sess, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(sess, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(sess, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	cat, err := s.catalog()
	if err != nil {
		logger.Error("server: catalog", "error", err)
		return
	}
	st := store.New(filepath.Join(s.saveDir, "players", name))
	g, err := game.New(s.cfg, cat, st, logger)
	if err != nil {
		logger.Error("server: new session", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	go func() {
		select {
		case <-sess.Context().Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("server: player connected", "term", term)
	if err := g.Run(ctx, screen); err != nil {
		logger.Error("server: session ended with error", "error", err)
		return
	}
	logger.Info("server: player left")
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// allowedTerms lists the TERM values passed through to terminfo. Anything
// else falls back to xterm-256color.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"tmux":                  true,
	"tmux-256color":         true,
	"screen":                true,
	"screen-256color":       true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

// sanitizeName turns an SSH user name into a directory name: control
// runes and path separators are dropped, and the result is cut to
// maxNameBytes without splitting a rune.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) || r == '/' || r == '\\' || r == utf8.RuneError {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("server: loaded host key", "path", path)
			return signer
		}
	}

	logger.Info("server: generating ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		logger.Error("server: generate host key", "error", err)
		os.Exit(1)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		logger.Error("server: create signer", "error", err)
		os.Exit(1)
	}
	if block, err := xssh.MarshalPrivateKey(key, "tradepost server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
			logger.Warn("server: host key not saved", "path", path, "error", err)
		}
	}
	return signer
}
