package config

import (
    "fmt"
    "strings"
    "time"

    "github.com/spf13/viper"
)

const (
    RoleSink  = "sink"
    RoleRelay = "relay"
)

// NodeConfig describes the protocol role and timers of one node.
// Example YAML:
// node:
//   role: relay
//   id: 17
//   beacon_interval_ms: 10000
//   sample_interval_ms: 5000
//   route_timeout_ms: 0       # 0 = 3 x beacon interval
//   history_capacity: 32
//   sensor: random
type NodeConfig struct {
    Role   string `mapstructure:"role"`    // sink or relay ("sensor" is accepted as relay)
    ID     uint16 `mapstructure:"id"`      // 0 = derive from serial, or sink_id for the sink
    Serial string `mapstructure:"serial"`  // hex device serial, last 16-bit word is the id
    SinkID uint16 `mapstructure:"sink_id"`

    BeaconIntervalMS int `mapstructure:"beacon_interval_ms"`
    SampleIntervalMS int `mapstructure:"sample_interval_ms"`
    RouteTimeoutMS   int `mapstructure:"route_timeout_ms"`
    HistoryCapacity  int `mapstructure:"history_capacity"`
    PollIntervalMS   int `mapstructure:"poll_interval_ms"`

    Sensor      string `mapstructure:"sensor"`       // constant, random, uniform
    SensorValue int    `mapstructure:"sensor_value"` // constant value or random-walk start
}

func defaultNode() NodeConfig {
    return NodeConfig{
        Role:             RoleRelay,
        SinkID:           9999,
        BeaconIntervalMS: 10000,
        SampleIntervalMS: 5000,
        HistoryCapacity:  32,
        PollIntervalMS:   50,
        Sensor:           "random",
        SensorValue:      500,
    }
}

func seedNode(v *viper.Viper, n NodeConfig) {
    v.SetDefault("node.role", n.Role)
    v.SetDefault("node.id", n.ID)
    v.SetDefault("node.serial", n.Serial)
    v.SetDefault("node.sink_id", n.SinkID)
    v.SetDefault("node.beacon_interval_ms", n.BeaconIntervalMS)
    v.SetDefault("node.sample_interval_ms", n.SampleIntervalMS)
    v.SetDefault("node.route_timeout_ms", n.RouteTimeoutMS)
    v.SetDefault("node.history_capacity", n.HistoryCapacity)
    v.SetDefault("node.poll_interval_ms", n.PollIntervalMS)
    v.SetDefault("node.sensor", n.Sensor)
    v.SetDefault("node.sensor_value", n.SensorValue)
}

func (n *NodeConfig) validate() error {
    n.Role = strings.ToLower(strings.TrimSpace(n.Role))
    switch n.Role {
    case RoleSink, RoleRelay:
    case "sensor", "":
        n.Role = RoleRelay
    default:
        return fmt.Errorf("invalid node.role: %q", n.Role)
    }
    if n.Role == RoleSink && n.ID == 0 { n.ID = n.SinkID }
    if n.ID == 0xFFFF { return fmt.Errorf("node.id 65535 is reserved") }
    if n.BeaconIntervalMS <= 0 { return fmt.Errorf("node.beacon_interval_ms must be positive") }
    if n.SampleIntervalMS <= 0 { return fmt.Errorf("node.sample_interval_ms must be positive") }
    if n.RouteTimeoutMS < 0 { return fmt.Errorf("node.route_timeout_ms must not be negative") }
    if n.RouteTimeoutMS == 0 { n.RouteTimeoutMS = 3 * n.BeaconIntervalMS }
    if n.HistoryCapacity <= 0 { n.HistoryCapacity = 32 }
    if n.PollIntervalMS <= 0 { n.PollIntervalMS = 50 }
    n.Sensor = strings.ToLower(strings.TrimSpace(n.Sensor))
    switch n.Sensor {
    case "constant", "random", "uniform":
    case "":
        n.Sensor = "random"
    default:
        return fmt.Errorf("invalid node.sensor: %q", n.Sensor)
    }
    return nil
}

func (n NodeConfig) BeaconInterval() time.Duration { return ms(n.BeaconIntervalMS) }
func (n NodeConfig) SampleInterval() time.Duration { return ms(n.SampleIntervalMS) }
func (n NodeConfig) RouteTimeout() time.Duration   { return ms(n.RouteTimeoutMS) }
func (n NodeConfig) PollInterval() time.Duration   { return ms(n.PollIntervalMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
