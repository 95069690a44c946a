package cli

import (
	"fmt"
	"os"

	"github.com/codesight/codesight/internal/config"
	"github.com/codesight/codesight/internal/engine"
	"github.com/codesight/codesight/internal/llm"
	"github.com/codesight/codesight/internal/logging"
	"github.com/spf13/viper"
)

// loadConfig resolves a Config from viper (flags already bound in init())
// plus CODESIGHT_* environment variables.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), cfgFile)
}

// resolvePath validates that path exists and is a directory, per
// open()'s contract: validate the path, never touch storage.
func resolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid path %q: not a directory", path)
	}
	return path, nil
}

// openEngine is the common index/search/ask/status entry: resolve config,
// validate the path, and open the Engine against it.
func openEngine(path string) (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	root, err := resolvePath(path)
	if err != nil {
		return nil, nil, err
	}
	log := logging.Default(cfg.Verbose || verbose)
	eng, err := engine.Open(cfg, root, log)
	if err != nil {
		return nil, nil, err
	}
	return eng, cfg, nil
}

// llmConfigFromEnv builds an llm.Config from the process environment, the
// way CODESIGHT_LLM_BACKEND and friends are documented in spec §6.
func llmConfigFromEnv(cfg *config.Config) llm.Config {
	return llm.Config{
		Backend:         cfg.LLMBackend,
		Model:           cfg.LLMModel,
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OllamaHost:      os.Getenv("OLLAMA_HOST"),
	}
}

func argOrDot(args []string, idx int) string {
	if len(args) > idx {
		return args[idx]
	}
	return "."
}
