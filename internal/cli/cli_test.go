package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/avatartag/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, writeConfig(t, "session:\n  max_polls: 600\n"), args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		classifyJSON, classifyStrict = false, false
		configErr = nil
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "body", "I'm", "pretty", "athletic")
	require.NoError(t, err)
	assert.Contains(t, out, "muscular")
	assert.Contains(t, out, "index 2")
}

func TestClassifyCommand_Unresolved(t *testing.T) {
	out, err := execute(t, "classify", "hair", "purple")
	require.NoError(t, err)
	assert.Contains(t, out, "could not understand hair from 'purple'")
}

func TestClassifyCommand_Strict(t *testing.T) {
	_, err := execute(t, "classify", "hair", "purple", "--strict")
	assert.Error(t, err)
}

func TestClassifyCommand_JSON(t *testing.T) {
	out, err := execute(t, "classify", "hair", "2", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"index": 1`)
	assert.Contains(t, out, `"method": "numeric"`)
}

func TestClassifyCommand_UnknownVocabulary(t *testing.T) {
	_, err := execute(t, "classify", "shoes", "red")
	assert.Error(t, err)
}

func TestClassifyCommand_MalformedConfig(t *testing.T) {
	path := writeConfig(t, "session: [max_polls: 600\n")

	out, err := executeWithConfig(t, path, "classify", "body", "thin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
	assert.NotContains(t, out, "slim")
}

func TestClassifyCommand_MissingExplicitConfig(t *testing.T) {
	_, err := executeWithConfig(t, filepath.Join(t.TempDir(), "absent.yaml"), "classify", "body", "thin")
	assert.Error(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, model.DefaultMaxPolls, cfg.Session.MaxPolls)
	require.Len(t, cfg.Vocabularies[model.VocabularyHair], 4)
	assert.Equal(t, "bald", cfg.Vocabularies[model.VocabularyHair][3].Name)

	// Never overwritten
	assert.Error(t, writeDefaultConfig(path))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"body", "hair"}, cfg.VocabularyNames())
	assert.Equal(t, model.DefaultPollInterval, cfg.Session.PollInterval)
}
