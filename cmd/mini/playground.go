package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini/interpreter-go/pkg/ast"
	"mini/interpreter-go/pkg/driver"
	"mini/interpreter-go/pkg/lexer"
	"mini/interpreter-go/pkg/parser"
)

const maxRequestBytes = 1 << 20

type runRequest struct {
	Source        string `json:"source"`
	Associativity string `json:"associativity,omitempty"`
}

type runResponse struct {
	Output []string           `json:"output"`
	Tokens []lexer.Token      `json:"tokens,omitempty"`
	AST    *ast.Program       `json:"ast,omitempty"`
	Error  *driver.Diagnostic `json:"error,omitempty"`
}

type playground struct {
	opts    driver.Options
	timeout time.Duration
}

func newPlaygroundHandler(opts driver.Options, timeout time.Duration) http.Handler {
	pg := &playground{opts: opts, timeout: timeout}
	mux := http.NewServeMux()
	mux.HandleFunc("/run", pg.handleRun)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// handleRun executes one program on a fresh interpreter. Pipeline failures
// are reported in the body with status 200; only malformed requests fail.
func (pg *playground) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req runRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	opts := pg.opts
	if req.Associativity != "" {
		assoc, err := parser.ParseAssociativity(req.Associativity)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.Parser.Associativity = assoc
	}
	opts.Interpreter.Sink = nil

	ctx := r.Context()
	if pg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pg.timeout)
		defer cancel()
	}

	res, err := driver.Run(ctx, driver.Source{Name: "playground", Text: req.Source}, opts)
	resp := runResponse{Output: []string{}}
	if res != nil {
		if res.Output != nil {
			resp.Output = res.Output
		}
		resp.Tokens = res.Tokens
		resp.AST = res.Program
	}
	resp.Error = driver.DiagnosticFromError(err)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "playground: write response: %v\n", err)
	}
}

func runServe(args []string) int {
	fs, flags := newCommandFlags("serve")
	addr := fs.String("addr", "", "listen address (default from config)")
	timeout := fs.Duration("timeout", 0, "per-request execution timeout (default from config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "mini serve takes no arguments")
		return 2
	}
	settings, err := resolveSettings(fs, flags, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	listen := settings.Config.Playground.Addr
	if *addr != "" {
		listen = *addr
	}
	limit := settings.Config.Playground.Timeout
	if *timeout > 0 {
		limit = *timeout
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           newPlaygroundHandler(settings.Options, limit),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "mini playground listening on http://%s\n", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "serve: shutdown: %v\n", err)
			return 1
		}
	}
	return 0
}
