package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			Mode:          ModeMonteCarlo,
			Attempts:      100_000,
			SkillMin:      11,
			SkillMax:      69,
			DifficultyMin: 5,
			DifficultyMax: 15,
		},
		Output: OutputConfig{
			Dir:       "output",
			Delimiter: ",",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			OutputPaths: []string{"stderr"},
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeMonteCarlo, cfg.Simulation.Mode)
	assert.Equal(t, 100_000, cfg.Simulation.Attempts)
	assert.Equal(t, 11, cfg.Simulation.SkillMin)
	assert.Equal(t, 69, cfg.Simulation.SkillMax)
	assert.Equal(t, 5.0, cfg.Simulation.DifficultyMin)
	assert.Equal(t, 15.0, cfg.Simulation.DifficultyMax)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, ',', cfg.Output.Comma())
	assert.Equal(t, []string{"stderr"}, cfg.Logging.OutputPaths)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
simulation:
  mode: exact
  attempts: 5000
  seed: 42
  skill_min: 12
  skill_max: 30
  difficulty_min: 6.5
  difficulty_max: 9
output:
  dir: tables
  delimiter: ";"
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeExact, cfg.Simulation.Mode)
	assert.Equal(t, 5000, cfg.Simulation.Attempts)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 12, cfg.Simulation.SkillMin)
	assert.Equal(t, 6.5, cfg.Simulation.DifficultyMin)
	assert.Equal(t, "tables", cfg.Output.Dir)
	assert.Equal(t, ';', cfg.Output.Comma())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("POOLPROB_SIMULATION_ATTEMPTS", "250")
	t.Setenv("POOLPROB_OUTPUT_DIR", "elsewhere")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Simulation.Attempts)
	assert.Equal(t, "elsewhere", cfg.Output.Dir)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  attempts: 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.attempts")
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("simulation.skill_max", 20)

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Simulation.SkillMax)
}

func TestValidateSimulationMode(t *testing.T) {
	for _, mode := range []string{ModeMonteCarlo, ModeExact} {
		cfg := validConfig()
		cfg.Simulation.Mode = mode
		assert.NoError(t, cfg.Validate(), "mode %q should be valid", mode)
	}
	cfg := validConfig()
	cfg.Simulation.Mode = "bootstrap"
	assert.Error(t, cfg.Validate())
}

func TestValidateSkillRange(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.SkillMin = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Simulation.SkillMin = 30
	cfg.Simulation.SkillMax = 29
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Simulation.SkillMin = 30
	cfg.Simulation.SkillMax = 30
	assert.NoError(t, cfg.Validate())
}

func TestValidateDifficultyRange(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.DifficultyMin = 5.25
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Simulation.DifficultyMin = 9
	cfg.Simulation.DifficultyMax = 8.5
	assert.Error(t, cfg.Validate())
}

func TestValidateOutput(t *testing.T) {
	cfg := validConfig()
	cfg.Output.Dir = ""
	assert.Error(t, cfg.Validate())

	for _, delim := range []string{"", ",,", "\n", `"`} {
		cfg := validConfig()
		cfg.Output.Delimiter = delim
		assert.Error(t, cfg.Validate(), "delimiter %q should be rejected", delim)
	}
	for _, delim := range []string{",", ";", "\t", "|"} {
		cfg := validConfig()
		cfg.Output.Delimiter = delim
		assert.NoError(t, cfg.Validate(), "delimiter %q should be accepted", delim)
	}
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Logging.OutputPaths = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Attempts = 0
	cfg.Output.Dir = ""
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.attempts")
	assert.Contains(t, err.Error(), "output.dir")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Seed = 7
	cfg.Output.Delimiter = ";"

	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "skill_min: 11")

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate_Property_HalfStepDifficulties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(0, 60).Draw(rt, "lo_halves")
		hi := rapid.IntRange(lo, 80).Draw(rt, "hi_halves")
		cfg := validConfig()
		cfg.Simulation.DifficultyMin = float64(lo) / 2
		cfg.Simulation.DifficultyMax = float64(hi) / 2
		assert.NoError(rt, cfg.Validate())
	})
}
