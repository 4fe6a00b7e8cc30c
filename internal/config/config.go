// Package config loads the application's YAML configuration document,
// following the teacher's yaml.v3-based, default-filling loader idiom.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration document.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Service   ServiceConfig   `yaml:"service"`
	Streaming StreamingConfig `yaml:"streaming"`
}

// StreamingConfig configures the websocket-based streaming session driver.
type StreamingConfig struct {
	MaxInboundMessagesPerSecond float64 `yaml:"max_inbound_messages_per_second"`
	MaxInboundBurst             int     `yaml:"max_inbound_burst"`
}

// ServerConfig configures the process's own listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServiceConfig groups every pipeline-relevant option.
type ServiceConfig struct {
	Pipeline  *PipelineConfig         `yaml:"pipeline"`
	Alignment AlignmentConfig         `yaml:"alignment"`
	Asr       AsrConfig               `yaml:"asr"`
	Endpoints map[string]EndpointConfig `yaml:"endpoints"`
}

// AlignmentConfig carries the legacy alignment.enabled knob consulted by
// the built-in loader's legacy default pipeline when service.pipeline is
// absent.
type AlignmentConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AsrConfig configures the whisper_transcription plugin's decoder.
type AsrConfig struct {
	ModelPath       string  `yaml:"model_path"`
	DefaultLanguage string  `yaml:"default_language"`
	Temperature     float64 `yaml:"temperature"`
	Threads         int     `yaml:"threads"`
	DTWPreset       string  `yaml:"dtw_preset"`
	DTWMemSize      int     `yaml:"dtw_mem_size"`
}

// EndpointConfig configures one remote sibling-service gRPC endpoint.
type EndpointConfig struct {
	Host                    string `yaml:"host"`
	Port                    uint16 `yaml:"port"`
	TLSEnabled              bool   `yaml:"tls_enabled"`
	ConnectTimeoutMs        uint64 `yaml:"connect_timeout_ms"`
	RequestTimeoutMs        uint64 `yaml:"request_timeout_ms"`
	MaxDecodingMessageBytes int    `yaml:"max_decoding_message_bytes"`
	MaxEncodingMessageBytes int    `yaml:"max_encoding_message_bytes"`
}

// PipelineConfig selects and names the available PipelineDefinitionConfigs.
type PipelineConfig struct {
	Selected    string                              `yaml:"selected"`
	Definitions map[string]PipelineDefinitionConfig `yaml:"definitions"`
	Plugins     PipelinePluginsConfig               `yaml:"plugins"`
}

// PipelineDefinitionConfig is the YAML shape of a PipelineDefinition.
type PipelineDefinitionConfig struct {
	Pre           []PipelineStepRef `yaml:"pre"`
	Transcription PipelineStepRef   `yaml:"transcription"`
	Post          []PipelineStepRef `yaml:"post"`
}

// PipelinePluginsConfig groups per-plugin configuration blocks.
type PipelinePluginsConfig struct {
	Resample ResamplePluginConfig `yaml:"resample"`
	Wav2Vec2 Wav2Vec2PluginConfig `yaml:"wav2vec2"`
}

// ResamplePluginConfig configures the resample built-in stage.
type ResamplePluginConfig struct {
	Enabled            bool   `yaml:"enabled"`
	TargetSampleRateHz uint32 `yaml:"target_sample_rate_hz"`
}

// Wav2Vec2PluginConfig configures the wav2vec2_alignment built-in stage.
type Wav2Vec2PluginConfig struct {
	ModelPath  string `yaml:"model_path"`
	ConfigPath string `yaml:"config_path"`
	VocabPath  string `yaml:"vocab_path"`
	Device     string `yaml:"device"`
}

// PipelineStepRef decodes either a bare string name or a {name: ...}
// mapping, matching the original's untagged PipelineStepRef union.
type PipelineStepRef struct {
	Name string
}

func (r *PipelineStepRef) UnmarshalYAML(value *yaml.Node) error {
	var asString string
	if err := value.Decode(&asString); err == nil {
		r.Name = asString
		return nil
	}

	var asMapping struct {
		Name string `yaml:"name"`
	}
	if err := value.Decode(&asMapping); err != nil {
		return fmt.Errorf("pipeline step ref: expected a string or {name: ...}: %w", err)
	}
	r.Name = asMapping.Name
	return nil
}

func (r PipelineStepRef) MarshalYAML() (any, error) {
	return r.Name, nil
}

// Default returns an AppConfig with every ambient field at its documented
// default, mirroring the original's derive(Default) struct chain.
func Default() AppConfig {
	return AppConfig{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Streaming: StreamingConfig{
			MaxInboundMessagesPerSecond: 50,
			MaxInboundBurst:             100,
		},
		Service: ServiceConfig{
			Alignment: AlignmentConfig{Enabled: true},
			Asr: AsrConfig{
				DefaultLanguage: "auto",
				Temperature:     0,
				Threads:         4,
				DTWMemSize:      128,
			},
			Endpoints: map[string]EndpointConfig{},
		},
	}
}

// Load reads and parses a YAML document at path on top of Default().
func Load(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
