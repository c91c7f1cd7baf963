package config

import (
    "fmt"
    "strings"

    "github.com/spf13/viper"
)

// RadioConfig selects how frames reach neighbours.
// Example YAML:
// radio:
//   kind: udp
//   listen: ":7701"
//   neighbors: ["10.0.0.2:7701", "10.0.0.3:7701"]
//
// Channel and tx power are carried for firmware builds and only logged by
// host radios.
type RadioConfig struct {
    Kind      string   `mapstructure:"kind"`      // udp or mem
    Listen    string   `mapstructure:"listen"`    // local address for udp
    Neighbors []string `mapstructure:"neighbors"` // addresses a udp "broadcast" reaches
    Queue     int      `mapstructure:"queue"`     // inbound frame queue depth
    Channel   int      `mapstructure:"channel"`
    TxPower   int      `mapstructure:"tx_power"`
}

func defaultRadio() RadioConfig {
    return RadioConfig{Kind: "udp", Listen: ":7701", Queue: 64, Channel: 26, TxPower: 70}
}

func seedRadio(v *viper.Viper, r RadioConfig) {
    v.SetDefault("radio.kind", r.Kind)
    v.SetDefault("radio.listen", r.Listen)
    v.SetDefault("radio.neighbors", r.Neighbors)
    v.SetDefault("radio.queue", r.Queue)
    v.SetDefault("radio.channel", r.Channel)
    v.SetDefault("radio.tx_power", r.TxPower)
}

func (r *RadioConfig) validate() error {
    r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
    switch r.Kind {
    case "udp", "mem":
    case "":
        r.Kind = "udp"
    default:
        return fmt.Errorf("invalid radio.kind: %q", r.Kind)
    }
    if r.Queue <= 0 { r.Queue = 64 }
    return nil
}
