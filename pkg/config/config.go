// Package config holds the tunable settings of a GUI session and loads them
// from YAML (or JSON, which YAML accepts) files.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at a config file
const EnvConfigPath = "TERMUX_GUI_CONFIG"

// Config is the file-loadable configuration of a session
type Config struct {
	// Receiver is the broadcast receiver component of the GUI host
	Receiver string `yaml:"receiver"`
	// BroadcastCommands are tried in order to deliver the activation broadcast
	BroadcastCommands []string `yaml:"broadcast_commands"`
	// MainSocketExtra and EventSocketExtra name the broadcast string extras
	MainSocketExtra  string `yaml:"main_socket_extra"`
	EventSocketExtra string `yaml:"event_socket_extra"`

	// ProtocolVersion is the byte sent in the handshake
	ProtocolVersion uint8 `yaml:"protocol_version"`

	// AcceptTimeout bounds the wait for the host to connect to each socket. 0 waits forever.
	AcceptTimeout time.Duration `yaml:"accept_timeout"`
	// HandshakeTimeout bounds the version exchange. 0 waits forever.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	// ResponseTimeout bounds each request/response exchange. 0 waits forever.
	ResponseTimeout time.Duration `yaml:"response_timeout"`

	// MaxMessageSize caps a single frame body in bytes. 0 disables the cap.
	MaxMessageSize int `yaml:"max_message_size"`
}

// Default returns the settings matching the stock Termux:GUI host
func Default() Config {
	return Config{
		Receiver:          "com.termux.gui/.GUIReceiver",
		BroadcastCommands: []string{"termux-am", "am"},
		MainSocketExtra:   "mainSocket",
		EventSocketExtra:  "eventSocket",
		ProtocolVersion:   1,
		AcceptTimeout:     30 * time.Second,
		HandshakeTimeout:  5 * time.Second,
		ResponseTimeout:   0,
		MaxMessageSize:    64 * 1024 * 1024,
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if strings.TrimSpace(c.Receiver) == "" {
		return fmt.Errorf("receiver cannot be empty")
	}
	if !strings.Contains(c.Receiver, "/") {
		return fmt.Errorf("receiver %q must be a component name (package/class)", c.Receiver)
	}
	if len(c.BroadcastCommands) == 0 {
		return fmt.Errorf("at least one broadcast command is required")
	}
	for i, command := range c.BroadcastCommands {
		if strings.TrimSpace(command) == "" {
			return fmt.Errorf("broadcast command %d is empty", i)
		}
	}
	if c.MainSocketExtra == "" || c.EventSocketExtra == "" {
		return fmt.Errorf("socket extra names cannot be empty")
	}
	if c.MainSocketExtra == c.EventSocketExtra {
		return fmt.Errorf("main and event socket extras must differ, both are %q", c.MainSocketExtra)
	}
	if c.ProtocolVersion == 0 {
		return fmt.Errorf("protocol version cannot be 0")
	}
	if c.AcceptTimeout < 0 || c.HandshakeTimeout < 0 || c.ResponseTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if c.MaxMessageSize < 0 {
		return fmt.Errorf("max message size cannot be negative")
	}
	return nil
}

// ParseYAML parses a configuration on top of Default().
// Unknown keys are rejected.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ParseFromFile parses a configuration file
func ParseFromFile(filePath string) (Config, error) {
	if filePath == "" {
		return Config{}, fmt.Errorf("file path cannot be empty")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config '%s': %w", filePath, err)
	}

	cfg, err := ParseYAML(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by TERMUX_GUI_CONFIG, or returns Default() when unset
func LoadFromEnv() (Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Default(), nil
	}
	return ParseFromFile(path)
}

// Marshal renders the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
