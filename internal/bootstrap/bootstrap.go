package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/model"
	"github.com/fadilmartias/resume-analyzer/internal/repository"
	"github.com/fadilmartias/resume-analyzer/internal/service"
	"github.com/fadilmartias/resume-analyzer/internal/usecase"
	"github.com/fadilmartias/resume-analyzer/internal/util"
	"github.com/phuslu/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App holds the wired usecases. History is nil when no database is configured.
type App struct {
	Analysis *usecase.AnalysisUsecase
	History  *usecase.HistoryUsecase

	db *gorm.DB
}

// New builds every dependency named by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	extract, err := util.NewPDFTextExtractor(cfg.App.PDFBackend)
	if err != nil {
		return nil, err
	}

	var gemini *service.GeminiService
	if cfg.Gemini.APIKey != "" {
		gemini, err = service.NewGeminiService(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
	}

	client, err := newAnalysisClient(cfg, gemini)
	if err != nil {
		return nil, err
	}

	var opts []usecase.Option
	if cfg.Sheets.Enabled {
		opts = append(opts, usecase.WithResultLogger(newResultLogger(ctx, cfg.Sheets)))
	} else {
		log.Info().Msg("spreadsheet logging disabled")
	}

	app := &App{}
	if cfg.DB.Enabled() {
		db, err := ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := repository.NewAnalysisRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		var embedder usecase.Embedder
		if cfg.DB.Embeddings && gemini != nil {
			embedder = gemini
		}
		opts = append(opts, usecase.WithHistory(repo, embedder))
		app.History = usecase.NewHistoryUsecase(repo)
		app.db = db
	}

	app.Analysis = usecase.NewAnalysisUsecase(extract, client, opts...)
	log.Info().
		Str("provider", cfg.App.LLMProvider).
		Str("pdf_backend", cfg.App.PDFBackend).
		Bool("sheets", cfg.Sheets.Enabled).
		Bool("history", cfg.DB.Enabled()).
		Msg("pipeline ready")
	return app, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newAnalysisClient(cfg *config.Config, gemini *service.GeminiService) (usecase.AnalysisClient, error) {
	switch cfg.App.LLMProvider {
	case config.ProviderOpenRouter:
		openRouter, err := service.NewOpenRouterService(cfg.OpenRouter)
		if err != nil {
			return nil, err
		}
		return openRouter, nil
	case config.ProviderGemini:
		if gemini == nil {
			return nil, errors.New("GEMINI_API_KEY not set")
		}
		return gemini, nil
	}
	return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.App.LLMProvider)
}

// newResultLogger falls back to a logger that fails every append, so a broken
// spreadsheet setup shows up as a log warning on each analysis instead of
// stopping the process.
func newResultLogger(ctx context.Context, cfg config.SheetsConfig) usecase.ResultLogger {
	sheets, err := service.NewSheetsService(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("spreadsheet logging unavailable")
		return unavailableLogger{err: err}
	}
	return sheets
}

type unavailableLogger struct {
	err error
}

func (u unavailableLogger) AppendRow(context.Context, model.LogRecord) error {
	return u.err
}

func ConnectDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.App.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	if !cfg.App.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pgDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("could not reach database: %w", err)
	}

	log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.Name).Msg("database connected")
	return db, nil
}
