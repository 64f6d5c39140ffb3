// cmd/signals/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"crypto-trend-screener/internal/app"
	"crypto-trend-screener/internal/core/domain/strategy/triple"
	"crypto-trend-screener/internal/infrastructure/config"
	"crypto-trend-screener/internal/infrastructure/persistence/postgres"
	"crypto-trend-screener/internal/infrastructure/persistence/postgres/models"
	signals_repo "crypto-trend-screener/internal/infrastructure/persistence/postgres/repository/signals"
	"crypto-trend-screener/pkg/interval"
	"crypto-trend-screener/pkg/logger"
)

func main() {
	var (
		symbolFlag   = flag.String("symbol", "", "торговая пара (по умолчанию из SYMBOL)")
		intervalFlag = flag.String("interval", "", "таймфрейм свечей (по умолчанию из INTERVAL)")
		daysFlag     = flag.Int("days", 7, "количество дней истории")
		endFlag      = flag.String("end", "", "последний день диапазона YYYY-MM-DD (по умолчанию вчера)")
		envFlag      = flag.String("env", ".env", "путь к файлу конфигурации")
		forceFlag    = flag.Bool("force", false, "перекачать архивы, игнорируя кэш и локальное зеркало")
		topFlag      = flag.Int("top", 10, "сколько лучших сигналов показать после сохранения")
	)
	flag.Parse()

	fmt.Println("══════════════════════════════════════════════════")
	fmt.Println("      СОХРАНЕНИЕ ТРОЙНЫХ СОВПАДЕНИЙ В БД")
	fmt.Println("══════════════════════════════════════════════════")

	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(*envFlag)
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}

	// Флаги перекрывают конфигурацию
	if *symbolFlag != "" {
		cfg.Symbol = strings.ToUpper(strings.TrimSpace(*symbolFlag))
	}
	if *intervalFlag != "" {
		cfg.Interval = interval.Normalize(*intervalFlag)
		if !interval.IsValid(cfg.Interval) {
			log.Fatalf("Неподдерживаемый таймфрейм: %s", *intervalFlag)
		}
	}
	if *forceFlag {
		cfg.Binance.ForceDownload = true
	}

	if !cfg.Database.Enabled {
		log.Fatalf("Сохранение в БД выключено: установите DB_ENABLED=true и параметры подключения")
	}

	if err := logger.InitGlobal(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.DebugMode); err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.CloseGlobal()

	cfg.PrintSummary()

	end := time.Now().UTC().AddDate(0, 0, -1)
	if *endFlag != "" {
		end, err = time.Parse("2006-01-02", *endFlag)
		if err != nil {
			log.Fatalf("Неверный формат даты -end (ожидается YYYY-MM-DD): %v", err)
		}
	}

	// Подключаемся к базе до загрузки данных: без нее запуск бессмыслен
	fmt.Println("🚀 Подключение к PostgreSQL...")
	db, err := postgres.Connect(cfg.GetDatabaseConfig())
	if err != nil {
		log.Fatalf("Не удалось подключиться к PostgreSQL: %v", err)
	}
	defer db.Close()

	repo := signals_repo.NewSignalRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatalf("Не удалось подготовить схему БД: %v", err)
	}

	// Загружаем свечи
	fmt.Println("🚀 Инициализация провайдера данных...")
	provider, err := app.NewSeriesProvider(cfg)
	if err != nil {
		log.Fatalf("Не удалось создать провайдер данных: %v", err)
	}
	defer provider.Close()

	fmt.Printf("📈 Загрузка %s %s за %d дней до %s...\n",
		cfg.Symbol, cfg.Interval, *daysFlag, end.Format("2006-01-02"))

	ctx := context.Background()
	bars, err := provider.FetchLastDays(ctx, cfg.Symbol, cfg.Interval, *daysFlag, end)
	if err != nil {
		log.Fatalf("Не удалось загрузить свечи: %v", err)
	}

	// Запускаем анализ
	fmt.Println("🚀 Запуск анализа...")
	pipeline, err := triple.NewPipeline(cfg.ToStrategyConfig())
	if err != nil {
		log.Fatalf("Не удалось создать пайплайн: %v", err)
	}

	rows, summary, err := pipeline.Run(bars)
	if err != nil {
		log.Fatalf("Ошибка анализа: %v", err)
	}

	fmt.Printf("📊 Найдено совпадений: %d (свечей: %d, ключевых: %d)\n",
		summary.Coincidences, summary.TotalBars, summary.KeyCandles)

	// Собираем и сохраняем сигналы
	var toSave []*models.TripleSignal
	for i, row := range rows {
		if row.Coincidence.IsTriple {
			toSave = append(toSave, models.NewTripleSignal(cfg.Symbol, cfg.Interval, i, row))
		}
	}

	if len(toSave) == 0 {
		fmt.Println("✅ Совпадений не найдено, сохранять нечего")
		return
	}

	if err := repo.SaveBatch(toSave); err != nil {
		log.Fatalf("Не удалось сохранить сигналы: %v", err)
	}

	printTopSignals(repo, *topFlag)

	total, err := repo.Count()
	if err != nil {
		logger.Warn("⚠️ Не удалось посчитать сигналы в БД: %v", err)
		return
	}
	fmt.Printf("📊 Всего сигналов в БД: %d\n", total)
}

// printTopSignals показывает лучшие сигналы по итоговой оценке
func printTopSignals(repo signals_repo.SignalRepository, limit int) {
	top, err := repo.FindTop(limit)
	if err != nil {
		logger.Warn("⚠️ Не удалось получить топ сигналов: %v", err)
		return
	}
	if len(top) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("🏆 Топ-%d сигналов по оценке:\n", len(top))
	fmt.Println(strings.Repeat("─", 50))
	for i, s := range top {
		icon := "🔴"
		if s.TrendDirection == "bullish" {
			icon = "🟢"
		}
		fmt.Printf("%2d. %s %s %s | %s | оценка %.4f (R²=%.2f, зона %.2f)\n",
			i+1, icon, s.Symbol, s.Timeframe,
			s.OpenTime.Format("2006-01-02 15:04"),
			s.FinalScore, s.TrendRSquared, s.ZoneQualityScore)
	}
	fmt.Println()
}
