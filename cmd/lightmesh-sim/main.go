package main

import (
    "context"
    "errors"
    "flag"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "go.uber.org/zap"

    "lightmesh/pkg/config"
    "lightmesh/pkg/observability"
    "lightmesh/pkg/sim"
    "lightmesh/pkg/telemetry"
)

func main() {
    cfgPath := flag.String("config", "", "Path to YAML config file with a sim section")
    duration := flag.Duration("duration", 0, "Override sim.duration_ms")
    flag.Parse()
    os.Exit(run(*cfgPath, *duration))
}

func run(cfgPath string, duration time.Duration) int {
    cfg, err := config.Load(cfgPath)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
        return 1
    }
    logger, err := observability.SetupLogger(cfg.Log)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
        return 1
    }
    defer func() { _ = logger.Sync() }()

    events, closeUplink, err := telemetry.FromConfig(cfg.Uplink, os.Stdout)
    if err != nil {
        zap.L().Error("failed to set up uplink", zap.Error(err))
        return 1
    }
    defer func() { _ = closeUplink() }()

    reg := prometheus.NewRegistry()
    w, err := sim.Build(cfg.Node, cfg.Sim, sim.Options{
        Events:  events,
        Metrics: observability.NewMetrics(reg),
        Logger:  logger,
        Queue:   cfg.Radio.Queue,
    })
    if err != nil {
        zap.L().Error("failed to build topology", zap.Error(err))
        return 1
    }
    defer w.Close()

    if duration <= 0 { duration = time.Duration(cfg.Sim.DurationMS) * time.Millisecond }
    step := time.Duration(cfg.Sim.StepMS) * time.Millisecond

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    zap.L().Info("simulation started", zap.Duration("duration", duration), zap.Duration("step", step))
    if err := w.Run(ctx, duration, step); err != nil && !errors.Is(err, context.Canceled) {
        zap.L().Error("simulation failed", zap.Error(err))
        return 1
    }
    w.LogRoutes()
    logSummary(reg, w.Medium().Dropped())
    return 0
}

// logSummary reports the totals of the run from the metrics registry.
func logSummary(reg prometheus.Gatherer, dropped uint64) {
    mfs, err := reg.Gather()
    if err != nil {
        zap.L().Warn("gather metrics", zap.Error(err))
        return
    }
    fields := []zap.Field{zap.Uint64("medium_dropped", dropped)}
    for _, mf := range mfs {
        var total float64
        counter := false
        for _, m := range mf.GetMetric() {
            if c := m.GetCounter(); c != nil {
                total += c.GetValue()
                counter = true
            }
        }
        if counter { fields = append(fields, zap.Float64(mf.GetName(), total)) }
    }
    zap.L().Info("simulation finished", fields...)
}
