package config

import (
    "fmt"
    "strings"
)

// SimConfig describes a topology run in-process over the mem radio.
// Example YAML:
// sim:
//   duration_ms: 60000
//   nodes:
//     - {id: 9999, role: sink}
//     - {id: 1, role: relay, sensor_value: 300}
//     - {id: 2, role: relay}
//   links: [[9999, 1], [1, 2]]
type SimConfig struct {
    Nodes      []SimNodeConfig `mapstructure:"nodes"`
    Links      [][]uint16      `mapstructure:"links"`
    DurationMS int             `mapstructure:"duration_ms"`
    StepMS     int             `mapstructure:"step_ms"`
}

// SimNodeConfig is one simulated node. Timers come from the node section.
type SimNodeConfig struct {
    ID          uint16 `mapstructure:"id"`
    Role        string `mapstructure:"role"`
    SensorValue int    `mapstructure:"sensor_value"`
}

func (s *SimConfig) validate() error {
    if s.StepMS <= 0 { s.StepMS = 100 }
    seen := make(map[uint16]bool, len(s.Nodes))
    sinks := 0
    for i := range s.Nodes {
        n := &s.Nodes[i]
        n.Role = strings.ToLower(strings.TrimSpace(n.Role))
        if n.Role == "" || n.Role == "sensor" { n.Role = RoleRelay }
        if n.Role != RoleSink && n.Role != RoleRelay { return fmt.Errorf("sim.nodes[%d]: invalid role %q", i, n.Role) }
        if n.Role == RoleSink { sinks++ }
        if n.ID == 0xFFFF { return fmt.Errorf("sim.nodes[%d]: id 65535 is reserved", i) }
        if seen[n.ID] { return fmt.Errorf("sim.nodes[%d]: duplicate id %d", i, n.ID) }
        seen[n.ID] = true
    }
    if len(s.Nodes) > 0 && sinks != 1 { return fmt.Errorf("sim: exactly one sink required, got %d", sinks) }
    for i, l := range s.Links {
        if len(l) != 2 { return fmt.Errorf("sim.links[%d]: want [a, b]", i) }
        if !seen[l[0]] || !seen[l[1]] { return fmt.Errorf("sim.links[%d]: unknown node in %v", i, l) }
    }
    return nil
}
