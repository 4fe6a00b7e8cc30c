package pipeline

import (
	"strings"

	"github.com/Djoe-Denne/vocal-agent/internal/align"
	"github.com/Djoe-Denne/vocal-agent/internal/config"
	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/builtin"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/stage"
	"github.com/Djoe-Denne/vocal-agent/internal/stt"
)

// stepPlugin builds a Stage from the process-wide AppConfig. It mirrors the
// original's PipelineStepPlugin trait: a name plus a fallible constructor.
type stepPlugin interface {
	Name() string
	Build(cfg config.AppConfig) (stage.Stage, error)
}

// PluginLoader is the built-in stage catalog: a name-to-factory map that
// resolves every step in the in-process deployment shape. It always
// registers all four built-in stages, since this module folds the
// original's per-service feature gating (whisper-runtime,
// wav2vec2-runtime) into a single in-process deployment rather than
// separate compiled services; see DESIGN.md.
type PluginLoader struct {
	config  config.AppConfig
	plugins map[string]stepPlugin
}

// NewPluginLoader builds a PluginLoader over cfg with every built-in plugin
// registered.
func NewPluginLoader(cfg config.AppConfig) *PluginLoader {
	l := &PluginLoader{config: cfg, plugins: make(map[string]stepPlugin)}
	l.registerBuiltinPlugins()
	return l
}

// RegisterPlugin adds or replaces a plugin by name, allowing callers to
// extend the catalog beyond the four built-ins.
func (l *PluginLoader) RegisterPlugin(p stepPlugin) {
	l.plugins[p.Name()] = p
}

func (l *PluginLoader) registerBuiltinPlugins() {
	l.RegisterPlugin(audioClampPlugin{})
	l.RegisterPlugin(resamplePlugin{})
	// audio_transform is the remote-mode name for the same conditioning
	// step (see remote.Loader's fixed name table); registered here too so
	// that step name resolves under either loader. The transcription and
	// alignment step names differ between the two loaders.
	l.RegisterPlugin(audioTransformAlias{})
	l.RegisterPlugin(whisperTranscriptionPlugin{})
	l.RegisterPlugin(wav2Vec2AlignmentPlugin{})
}

// LoadStep resolves spec via the registered plugin map.
func (l *PluginLoader) LoadStep(spec domain.PipelineStepSpec) (stage.Stage, error) {
	plugin, ok := l.plugins[spec.Name]
	if !ok {
		return nil, domainerr.InternalErrorf("unknown pipeline step plugin `%s`", spec.Name)
	}

	built, err := plugin.Build(l.config)
	if err != nil {
		return nil, domainerr.InternalErrorf("failed to build pipeline step `%s`: %v", spec.Name, err)
	}
	return built, nil
}

// BuildEngine resolves the selected (or legacy-default) pipeline
// definition from l.config and constructs an Engine from it.
func (l *PluginLoader) BuildEngine() (*Engine, error) {
	def, err := ResolvePipelineDefinition(l.config)
	if err != nil {
		return nil, err
	}
	return FromDefinition(def, l)
}

// ResolvePipelineDefinition reads service.pipeline.selected/definitions
// when present, falling back to the legacy default pipeline (pre=
// [audio_clamp], transcription=whisper_transcription,
// post=[wav2vec2_alignment], minus wav2vec2_alignment when
// service.alignment.enabled is false) when service.pipeline is absent.
func ResolvePipelineDefinition(cfg config.AppConfig) (domain.PipelineDefinition, error) {
	if cfg.Service.Pipeline != nil {
		selected := strings.TrimSpace(cfg.Service.Pipeline.Selected)
		if selected == "" {
			return domain.PipelineDefinition{}, domainerr.InternalError("`service.pipeline.selected` cannot be empty")
		}
		defConfig, ok := cfg.Service.Pipeline.Definitions[selected]
		if !ok {
			return domain.PipelineDefinition{}, domainerr.InternalErrorf("pipeline `%s` not found in `service.pipeline.definitions`", selected)
		}
		return toDomainDefinition(defConfig)
	}

	return legacyDefaultPipeline(cfg), nil
}

func legacyDefaultPipeline(cfg config.AppConfig) domain.PipelineDefinition {
	transcription, _ := domain.NewPipelineStepSpec(builtin.WhisperTranscriptionStageName)
	post := []domain.PipelineStepSpec{}
	if cfg.Service.Alignment.Enabled {
		alignmentStep, _ := domain.NewPipelineStepSpec(builtin.Wav2Vec2AlignmentStageName)
		post = append(post, alignmentStep)
	}
	audioClamp, _ := domain.NewPipelineStepSpec(builtin.ClampStageName)
	return domain.PipelineDefinition{
		Pre:           []domain.PipelineStepSpec{audioClamp},
		Transcription: transcription,
		Post:          post,
	}
}

func toDomainDefinition(cfg config.PipelineDefinitionConfig) (domain.PipelineDefinition, error) {
	pre, err := toStepSpecs(cfg.Pre)
	if err != nil {
		return domain.PipelineDefinition{}, err
	}
	transcription, err := domain.NewPipelineStepSpec(cfg.Transcription.Name)
	if err != nil {
		return domain.PipelineDefinition{}, err
	}
	post, err := toStepSpecs(cfg.Post)
	if err != nil {
		return domain.PipelineDefinition{}, err
	}
	return domain.PipelineDefinition{Pre: pre, Transcription: transcription, Post: post}, nil
}

func toStepSpecs(refs []config.PipelineStepRef) ([]domain.PipelineStepSpec, error) {
	specs := make([]domain.PipelineStepSpec, 0, len(refs))
	for _, ref := range refs {
		spec, err := domain.NewPipelineStepSpec(ref.Name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

type audioClampPlugin struct{}

func (audioClampPlugin) Name() string { return builtin.ClampStageName }

func (audioClampPlugin) Build(config.AppConfig) (stage.Stage, error) {
	return builtin.NewAudioClampStage(), nil
}

type resamplePlugin struct{}

func (resamplePlugin) Name() string { return builtin.ResampleStageName }

func (resamplePlugin) Build(cfg config.AppConfig) (stage.Stage, error) {
	if cfg.Service.Pipeline == nil {
		return nil, domainerr.InternalError("`resample` step requires `service.pipeline` configuration")
	}
	resampleCfg := cfg.Service.Pipeline.Plugins.Resample
	if !resampleCfg.Enabled {
		return nil, domainerr.InternalError("`resample` step is disabled; set `service.pipeline.plugins.resample.enabled = true`")
	}
	return builtin.NewResampleStage(resampleCfg.TargetSampleRateHz), nil
}

type whisperTranscriptionPlugin struct{}

func (whisperTranscriptionPlugin) Name() string { return builtin.WhisperTranscriptionStageName }

func (whisperTranscriptionPlugin) Build(cfg config.AppConfig) (stage.Stage, error) {
	adapterCfg := stt.AdapterConfig{
		ModelPath:       cfg.Service.Asr.ModelPath,
		DefaultLanguage: cfg.Service.Asr.DefaultLanguage,
		Temperature:     cfg.Service.Asr.Temperature,
		Threads:         cfg.Service.Asr.Threads,
		DTWPreset:       cfg.Service.Asr.DTWPreset,
		DTWMemSize:      normalizeDTWMemSize(cfg.Service.Asr.DTWMemSize),
	}
	adapter := stt.NewWhisperAdapter(adapterCfg, stt.NewFallbackDecoder(0))
	return builtin.NewWhisperTranscriptionStage(adapter), nil
}

const oneMiB = 1024 * 1024

func normalizeDTWMemSize(raw int) int {
	if raw > 0 && raw < oneMiB {
		return raw * oneMiB
	}
	return raw
}

type wav2Vec2AlignmentPlugin struct{}

func (wav2Vec2AlignmentPlugin) Name() string { return builtin.Wav2Vec2AlignmentStageName }

func (wav2Vec2AlignmentPlugin) Build(config.AppConfig) (stage.Stage, error) {
	aligner := align.NewSimpleForcedAligner(20)
	return builtin.NewWav2Vec2AlignmentStage(aligner), nil
}

// audioTransformAlias resolves the remote-mode step name "audio_transform"
// to the same resample plugin the built-in loader already exposes as
// "resample", so the remote deployment shape's audio step name also
// resolves under the in-process loader.
type audioTransformAlias struct{ resamplePlugin }

func (audioTransformAlias) Name() string { return "audio_transform" }
