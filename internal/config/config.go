// Package config holds the bridge's runtime configuration: defaults, an
// optional YAML file overlay, and validation. CLI flags are applied on top
// by the command layer.
package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults match the conventional TUIO setup: listen everywhere, send to
// the local TUIO port.
const (
	DefaultWSAddr  = "0.0.0.0:8080"
	DefaultUDPAddr = "127.0.0.1:3333"
)

// Config is the full configuration surface of the bridge.
type Config struct {
	// WSAddr is the WebSocket bind address.
	WSAddr string `yaml:"ws_addr"`
	// UDPAddr is the OSC/UDP destination.
	UDPAddr string `yaml:"udp_addr"`
	// Debug enables debug-level logging, including decoded TUIO traffic.
	Debug bool `yaml:"debug"`
	// MDNS advertises the WebSocket endpoint over mDNS.
	MDNS bool `yaml:"mdns"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WSAddr:  DefaultWSAddr,
		UDPAddr: DefaultUDPAddr,
	}
}

// Load reads an optional YAML file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that both endpoints are well-formed host:port pairs.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.WSAddr); err != nil {
		return fmt.Errorf("websocket address %q: %w", c.WSAddr, err)
	}
	if _, _, err := net.SplitHostPort(c.UDPAddr); err != nil {
		return fmt.Errorf("udp address %q: %w", c.UDPAddr, err)
	}
	return nil
}
