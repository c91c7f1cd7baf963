package main

import "flag"

// Options holds CLI options for the node.
type Options struct {
    ConfigPath string
    Role       string
    ID         uint
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
    fs := flag.NewFlagSet("lightmesh-node", flag.ExitOnError)
    var opts Options
    fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
    fs.StringVar(&opts.Role, "role", "", "Override node.role (sink or relay)")
    fs.UintVar(&opts.ID, "id", 0, "Override node.id")
    _ = fs.Parse(args)
    return opts
}
