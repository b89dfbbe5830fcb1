package factory

import (
	"fmt"

	"healthmate-be/internal/constant"
	"healthmate-be/pkg/llm"
	"healthmate-be/pkg/llm/azure"
	"healthmate-be/pkg/llm/ollama"
)

// AzureSettings carries the Azure OpenAI deployment coordinates.
type AzureSettings struct {
	Endpoint   string
	Deployment string
	APIKey     string
	APIVersion string
}

func NewLLMProvider(providerType string, azureCfg AzureSettings, ollamaBaseURL, ollamaModel string) (llm.LLMProvider, error) {
	switch providerType {
	case "azure":
		if azureCfg.Endpoint == "" || azureCfg.APIKey == "" {
			return nil, fmt.Errorf("azure provider requires endpoint and api key")
		}
		if azureCfg.APIVersion == "" {
			azureCfg.APIVersion = constant.AzureDefaultAPIVersion
		}
		return azure.NewAzureProvider(azureCfg.Endpoint, azureCfg.Deployment, azureCfg.APIKey, azureCfg.APIVersion), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = constant.OllamaDefaultBaseURL
		}
		if ollamaModel == "" {
			ollamaModel = constant.OllamaDefaultModel
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, ollamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
