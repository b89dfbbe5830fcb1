package bootstrap

import (
	"fmt"
	"path/filepath"
	"time"

	"healthmate-be/internal/config"
	"healthmate-be/internal/constant"
	"healthmate-be/internal/controller"
	"healthmate-be/internal/pkg/logger"
	"healthmate-be/internal/repository/csvstore"
	"healthmate-be/internal/service"
	"healthmate-be/pkg/kg"
	"healthmate-be/pkg/llm/factory"
)

type Container struct {
	// Controllers
	AdvisorController controller.IAdvisorController
	HistoryController controller.IHistoryController

	// Exposed for shutdown handling in main
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core facades
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Knowledge-graph corpus
	store, err := kg.NewStore(cfg.Corpus.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	effectRelation := cfg.Corpus.EffectRelation
	if effectRelation == "" {
		effectRelation = constant.DefaultEffectRelation
	}
	ingredientRelation := cfg.Corpus.IngredientRelation
	if ingredientRelation == "" {
		ingredientRelation = constant.DefaultIngredientRelation
	}
	filterEngine := kg.NewFilterEngine(store, effectRelation, ingredientRelation)

	// 3. Repositories
	sessionLog, err := csvstore.NewSessionLogRepository(filepath.Join(cfg.Corpus.DataDir, "rounds"))
	if err != nil {
		return nil, fmt.Errorf("init session log: %w", err)
	}
	historyLedger, err := csvstore.NewHistoryLedgerRepository(filepath.Join(cfg.Corpus.DataDir, "history"))
	if err != nil {
		return nil, fmt.Errorf("init history ledger: %w", err)
	}
	snapshots, err := csvstore.NewSnapshotRepository(cfg.Corpus.SnapshotDir)
	if err != nil {
		return nil, fmt.Errorf("init snapshot dir: %w", err)
	}

	// 4. LLM provider
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, factory.AzureSettings{
		Endpoint:   cfg.Ai.AzureEndpoint,
		Deployment: cfg.Ai.AzureDeployment,
		APIKey:     cfg.Ai.AzureAPIKey,
		APIVersion: cfg.Ai.AzureAPIVersion,
	}, cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}

	// 5. Services
	advisorService := service.NewAdvisorService(
		store,
		filterEngine,
		sessionLog,
		snapshots,
		llmProvider,
		appLogger,
		time.Duration(cfg.Ai.RequestTimeoutSec)*time.Second,
	)
	historyService := service.NewHistoryService(historyLedger, appLogger)

	// 6. Controllers
	return &Container{
		AdvisorController: controller.NewAdvisorController(advisorService),
		HistoryController: controller.NewHistoryController(historyService),
		Logger:            appLogger,
	}, nil
}
