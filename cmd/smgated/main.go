// Command smgated is a minimal demonstration daemon that hosts a
// workerpool behind an HTTP admission gate, wiring together every
// operation the gate exposes: startup calls open_begin/open_end, each
// request calls begin/end, a reload request calls barrier_begin/
// barrier_end, and shutdown calls close_begin/close_end.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/corestore/smgate/httpgate"
	"github.com/corestore/smgate/recovery"
	"github.com/corestore/smgate/sm"
	"github.com/corestore/smgate/sm/smzap"
	"github.com/corestore/smgate/workerpool"
)

// statusWriter captures the status code a handler wrote, defaulting to 200
// for handlers that call Write without ever calling WriteHeader.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// accessLog logs the method, path, response status and the gate's current
// phase once the handler chain has written its response, so the log line
// ties an HTTP outcome directly to the lifecycle state that produced it.
func accessLog(logger *zap.Logger, gate *sm.Handle, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.code),
			zap.Stringer("gate_phase", gate.Phase()),
		)
	})
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, errOut *os.File) int {
	flags := flag.NewFlagSet("smgated", flag.ContinueOnError)
	addr := flags.StringP("addr", "a", ":8080", "HTTP listen address")
	workers := flags.IntP("workers", "w", 4, "maximum concurrent workers")
	queueLimit := flags.Int64("queue-limit", 64, "maximum admitted-but-unfinished tasks; 0 means unlimited")
	debug := flags.Bool("debug", false, "enable development logging")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	var zlogger *zap.Logger
	var err error
	if *debug {
		zlogger, err = zap.NewDevelopment()
	} else {
		zlogger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(errOut, "error: cannot initialize logger:", err)
		return 1
	}
	defer zlogger.Sync()

	pool := workerpool.New(*workers,
		workerpool.WithName("smgated"),
		workerpool.WithQueueLimit(*queueLimit),
		workerpool.WithLogger(smzap.New(zlogger)),
	)

	if err := pool.Start(); err != nil {
		zlogger.Error("failed to start worker pool", zap.Error(err))
		return 1
	}

	mux := http.NewServeMux()
	mux.Handle("/work", httpgate.Server{
		Gate:    pool.Gate(),
		Refused: httpgate.Status(http.StatusServiceUnavailable),
	}.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if submitErr := pool.Submit(func() error { return nil }); submitErr != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})))

	mux.Handle("/admin/reload", httpgate.BarrierHandler{
		Gate: pool.Gate(),
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			zlogger.Info("reload barrier entered, no task in flight")
			w.WriteHeader(http.StatusOK)
		}),
	})

	handler := recovery.Middleware(
		recovery.WithOnRecover(func(r interface{}, stack []byte) {
			zlogger.Error("recovered from panic", zap.Any("value", r), zap.ByteString("stack", stack))
		}),
	)(accessLog(zlogger, pool.Gate(), mux))

	server := &http.Server{Addr: *addr, Handler: handler}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			zlogger.Error("server exited", zap.Error(err))
			return 1
		}

	case <-sigCh:
		zlogger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			zlogger.Error("http shutdown error", zap.Error(err))
		}
	}

	if err := pool.Stop(); err != nil {
		zlogger.Error("worker pool stop error", zap.Error(err))
		return 1
	}

	return 0
}
