package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "go.uber.org/zap"

    "lightmesh/pkg/config"
    "lightmesh/pkg/identity"
    "lightmesh/pkg/node"
    "lightmesh/pkg/observability"
    "lightmesh/pkg/protocol"
    "lightmesh/pkg/radio"
    "lightmesh/pkg/radio/mem"
    "lightmesh/pkg/radio/udp"
    "lightmesh/pkg/sensor"
    "lightmesh/pkg/telemetry"
)

// run is the main entry point after CLI parsing.
func run(opts Options) int {
    cfg, err := config.Load(opts.ConfigPath)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
        return 1
    }
    if opts.Role != "" { cfg.Node.Role = opts.Role }
    if opts.ID != 0 { cfg.Node.ID = uint16(opts.ID) }
    if cfg.Node.Role == config.RoleSink && cfg.Node.ID == 0 { cfg.Node.ID = cfg.Node.SinkID }

    logger, err := observability.SetupLogger(cfg.Log)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
        return 1
    }
    defer func() { _ = logger.Sync() }()

    zap.L().Info("lightmesh-node started", zap.String("app", cfg.AppName))
    zap.L().Info("effective configuration", zap.Any("config", cfg))

    id, err := identity.Resolve(cfg.Node)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to resolve node id: " + err.Error() + "\n")
        return 1
    }
    role := node.ParseRole(cfg.Node.Role)

    rad, err := openRadio(cfg.Radio, id)
    if err != nil {
        zap.L().Error("failed to open radio", zap.Error(err))
        return 1
    }
    defer func() { _ = rad.Close() }()
    zap.L().Info("radio ready",
        zap.String("kind", cfg.Radio.Kind),
        zap.Int("channel", cfg.Radio.Channel),
        zap.Int("tx_power", cfg.Radio.TxPower),
    )

    s, err := sensor.New(cfg.Node.Sensor, cfg.Node.SensorValue, time.Now().UnixNano())
    if err != nil {
        zap.L().Error("failed to create sensor", zap.Error(err))
        return 1
    }

    var events telemetry.EventSink = telemetry.NewZapSink(nil)
    if role == node.RoleSink {
        ev, closeUplink, err := telemetry.FromConfig(cfg.Uplink, os.Stdout)
        if err != nil {
            zap.L().Error("failed to set up uplink", zap.Error(err))
            return 1
        }
        defer func() { _ = closeUplink() }()
        events = ev
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    var metrics *observability.Metrics
    if cfg.Metrics.Listen != "" {
        reg := prometheus.NewRegistry()
        metrics = observability.NewMetrics(reg)
        srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metricsMux(reg), ReadHeaderTimeout: 5 * time.Second}
        go func() {
            if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
                zap.L().Error("metrics server stopped", zap.Error(err))
            }
        }()
        defer func() {
            sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
            defer cancel()
            _ = srv.Shutdown(sctx)
        }()
        zap.L().Info("metrics listening", zap.String("addr", cfg.Metrics.Listen))
    }

    n := node.New(node.Config{
        ID:              id,
        Role:            role,
        BeaconInterval:  cfg.Node.BeaconInterval(),
        SampleInterval:  cfg.Node.SampleInterval(),
        RouteTimeout:    cfg.Node.RouteTimeout(),
        HistoryCapacity: cfg.Node.HistoryCapacity,
    }, node.Deps{
        Radio:   rad,
        Clock:   node.NewSystemClock(),
        Sensor:  s,
        Events:  events,
        Metrics: metrics.For(uint16(id)),
    })

    zap.L().Info("node is running; press Ctrl+C to exit", zap.Uint16("id", uint16(id)), zap.Stringer("role", role))
    err = node.NewRunner(n, rad.Frames(), cfg.Node.PollInterval()).Run(ctx)
    if err != nil && !errors.Is(err, context.Canceled) {
        zap.L().Error("node stopped", zap.Error(err))
        return 1
    }
    zap.L().Info("node stopped")
    return 0
}

func openRadio(c config.RadioConfig, id protocol.NodeID) (radio.Radio, error) {
    switch radio.ParseKind(c.Kind) {
    case radio.KindMem:
        zap.L().Warn("mem radio has no neighbours outside this process")
        return mem.New(c.Queue).Attach(id)
    case radio.KindUDP:
        return udp.Listen(c.Listen, c.Neighbors, c.Queue)
    default:
        return nil, errors.New("unknown radio kind " + c.Kind)
    }
}

func metricsMux(reg *prometheus.Registry) http.Handler {
    mux := http.NewServeMux()
    mux.Handle("/metrics", observability.Handler(reg))
    return mux
}
