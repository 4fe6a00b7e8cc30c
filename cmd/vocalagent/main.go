// Command vocalagent runs the orchestrator process: it loads configuration,
// builds the pipeline engine for whichever deployment shape is configured
// (in-process built-in stages, or remote RPC-backed stages), and serves
// both the one-shot HTTP transcription endpoint and the websocket
// streaming endpoint over the same engine.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Djoe-Denne/vocal-agent/internal/app"
	"github.com/Djoe-Denne/vocal-agent/internal/config"
	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline"
	"github.com/Djoe-Denne/vocal-agent/internal/remote"
	"github.com/Djoe-Denne/vocal-agent/internal/streaming"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration document")
	remoteMode := flag.Bool("remote", false, "resolve pipeline steps against sibling services over gRPC instead of in-process built-ins")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := buildEngine(ctx, cfg, *remoteMode)
	if err != nil {
		logging.Error("failed to build pipeline engine", "error", err)
		os.Exit(1)
	}

	useCase := app.NewTranscribeUseCase(engine, domain.DefaultSampleRateHz)
	streamingHandler := streaming.NewHandler(engine, domain.DefaultSampleRateHz, cfg.Streaming)

	mux := http.NewServeMux()
	mux.Handle("/v1/transcribe", transcribeHandler(useCase))
	mux.Handle("/v1/stream", streamingHandler)
	mux.Handle("/metrics", promhttp.Handler())

	addr := cfg.Server.Host + ":" + strconv.Itoa(int(cfg.Server.Port))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logging.Info("vocalagent listening", "addr", addr, "remote_mode", *remoteMode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server stopped unexpectedly", "error", err)
		}
	}()

	<-ctx.Done()
	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", "error", err)
	}
}

// buildEngine resolves the selected pipeline definition against either the
// built-in plugin loader or the remote RPC loader, matching the two
// deployment shapes described for this orchestrator.
func buildEngine(ctx context.Context, cfg config.AppConfig, remoteMode bool) (*pipeline.Engine, error) {
	if !remoteMode {
		return pipeline.NewPluginLoader(cfg).BuildEngine()
	}

	def, err := pipeline.ResolvePipelineDefinition(cfg)
	if err != nil {
		return nil, err
	}
	loader, err := remote.NewLoader(ctx, cfg, domain.DefaultSampleRateHz)
	if err != nil {
		return nil, err
	}
	return pipeline.FromDefinition(def, loader)
}
