package config

import (
    "fmt"
    "strings"

    "github.com/spf13/viper"
)

// UplinkConfig controls where the sink sends delivery records.
// Example YAML:
// uplink:
//   kind: mqtt
//   url: tcp://localhost:1883
//   topic: lightmesh/sink
//   format: cbor
//   serial_frames: true
type UplinkConfig struct {
    Kind             string `mapstructure:"kind"`   // none, mqtt or nats
    URL              string `mapstructure:"url"`
    Topic            string `mapstructure:"topic"`
    Format           string `mapstructure:"format"` // json, cbor or proto
    ClientID         string `mapstructure:"client_id"`
    QoS              int    `mapstructure:"qos"`
    ConnectTimeoutMS int    `mapstructure:"connect_timeout_ms"`
    // SerialFrames writes <START>...<END> delivery lines to stdout for the map display.
    SerialFrames bool `mapstructure:"serial_frames"`
}

// MetricsConfig controls the prometheus HTTP endpoint. Empty Listen disables it.
type MetricsConfig struct {
    Listen string `mapstructure:"listen"`
}

func defaultUplink() UplinkConfig {
    return UplinkConfig{Kind: "none", Topic: "lightmesh/sink", Format: "json", ClientID: "lightmesh-sink", ConnectTimeoutMS: 5000}
}

func seedUplink(v *viper.Viper, u UplinkConfig) {
    v.SetDefault("uplink.kind", u.Kind)
    v.SetDefault("uplink.url", u.URL)
    v.SetDefault("uplink.topic", u.Topic)
    v.SetDefault("uplink.format", u.Format)
    v.SetDefault("uplink.client_id", u.ClientID)
    v.SetDefault("uplink.qos", u.QoS)
    v.SetDefault("uplink.connect_timeout_ms", u.ConnectTimeoutMS)
    v.SetDefault("uplink.serial_frames", u.SerialFrames)
}

func (u *UplinkConfig) validate() error {
    u.Kind = strings.ToLower(strings.TrimSpace(u.Kind))
    switch u.Kind {
    case "", "none":
        u.Kind = "none"
    case "mqtt", "nats":
        if strings.TrimSpace(u.URL) == "" { return fmt.Errorf("uplink.url is required for %s", u.Kind) }
    default:
        return fmt.Errorf("invalid uplink.kind: %q", u.Kind)
    }
    u.Format = strings.ToLower(strings.TrimSpace(u.Format))
    switch u.Format {
    case "json", "cbor", "proto":
    case "":
        u.Format = "json"
    default:
        return fmt.Errorf("invalid uplink.format: %q", u.Format)
    }
    if u.QoS < 0 || u.QoS > 2 { return fmt.Errorf("invalid uplink.qos: %d", u.QoS) }
    if u.ConnectTimeoutMS <= 0 { u.ConnectTimeoutMS = 5000 }
    return nil
}
