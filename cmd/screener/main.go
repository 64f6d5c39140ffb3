// cmd/screener/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"crypto-trend-screener/internal/app"
	"crypto-trend-screener/internal/core/domain/strategy/triple"
	"crypto-trend-screener/internal/infrastructure/config"
	"crypto-trend-screener/internal/infrastructure/export"
	"crypto-trend-screener/pkg/interval"
	"crypto-trend-screener/pkg/logger"
)

func main() {
	var (
		symbolFlag   = flag.String("symbol", "", "торговая пара (по умолчанию из SYMBOL)")
		intervalFlag = flag.String("interval", "", "таймфрейм свечей (по умолчанию из INTERVAL)")
		daysFlag     = flag.Int("days", 7, "количество дней истории")
		endFlag      = flag.String("end", "", "последний день диапазона YYYY-MM-DD (по умолчанию вчера)")
		formatFlag   = flag.String("format", "", "формат выгрузки: csv, json, parquet")
		outFlag      = flag.String("out", "", "каталог результатов (по умолчанию из EXPORT_DIR)")
		envFlag      = flag.String("env", ".env", "путь к файлу конфигурации")
		forceFlag    = flag.Bool("force", false, "перекачать архивы, игнорируя кэш и локальное зеркало")
	)
	flag.Parse()

	fmt.Println("══════════════════════════════════════════════════")
	fmt.Println("      СКРИНЕР ТРОЙНЫХ СОВПАДЕНИЙ - BINANCE SPOT")
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
	if *formatFlag != "" {
		cfg.Export.Format = strings.ToLower(strings.TrimSpace(*formatFlag))
	}
	if *outFlag != "" {
		cfg.Export.Dir = *outFlag
	}
	if *forceFlag {
		cfg.Binance.ForceDownload = true
	}

	if err := logger.InitGlobal(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.DebugMode); err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.CloseGlobal()

	cfg.PrintSummary()

	saver, err := export.ForFormat(cfg.Export.Format)
	if err != nil {
		log.Fatalf("Не удалось подготовить выгрузку: %v", err)
	}

	// Последний завершённый день по умолчанию - вчера
	end := time.Now().UTC().AddDate(0, 0, -1)
	if *endFlag != "" {
		end, err = time.Parse("2006-01-02", *endFlag)
		if err != nil {
			log.Fatalf("Неверный формат даты -end (ожидается YYYY-MM-DD): %v", err)
		}
	}

	// Создаем провайдер данных
	fmt.Println("🚀 Инициализация провайдера данных...")
	provider, err := app.NewSeriesProvider(cfg)
	if err != nil {
		log.Fatalf("Не удалось создать провайдер данных: %v", err)
	}
	defer provider.Close()

	// Загружаем свечи
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

	printReport(cfg, rows, summary)

	// Сохраняем результаты
	if err := exportResults(cfg, saver, rows); err != nil {
		log.Fatalf("Не удалось сохранить результаты: %v", err)
	}

	fmt.Printf("✅ Анализ завершен. Результаты в каталоге %q\n", cfg.Export.Dir)
}

// printReport выводит итоги анализа в терминал
func printReport(cfg *config.Config, rows []triple.EnrichedBar, summary triple.Summary) {
	line := strings.Repeat("═", 80)
	thin := strings.Repeat("─", 80)

	fmt.Println()
	fmt.Println(line)
	fmt.Println("            РЕЗУЛЬТАТЫ АНАЛИЗА ТРОЙНЫХ СОВПАДЕНИЙ")
	fmt.Println(line)

	fmt.Println()
	fmt.Println("РЕЗЮМЕ")
	fmt.Println(thin)
	fmt.Printf("Пара / таймфрейм:        %s %s\n", cfg.Symbol, cfg.Interval)
	fmt.Printf("Всего свечей:            %d\n", summary.TotalBars)
	if summary.TotalBars > 0 {
		fmt.Printf("Диапазон дат:            %s - %s\n",
			rows[0].OpenTime.Format("2006-01-02 15:04"),
			rows[len(rows)-1].OpenTime.Format("2006-01-02 15:04"))
	}
	fmt.Printf("Ключевых свечей:         %d\n", summary.KeyCandles)
	fmt.Printf("Баров в зонах:           %d\n", summary.ZoneBars)
	fmt.Printf("Мини-трендов:            %d\n", summary.TrendSegments)
	fmt.Printf("Тройных совпадений:      %d\n", summary.Coincidences)

	signals := triple.Signals(rows)
	if len(signals) == 0 {
		fmt.Println()
		fmt.Println(line)
		return
	}

	fmt.Println()
	fmt.Println(" СИГНАЛЫ ТРОЙНОГО СОВПАДЕНИЯ ")
	fmt.Println(thin)
	for i, signal := range signals {
		candleType := "Медвежья"
		if signal.IsBullish() {
			candleType = "Бычья"
		}

		fmt.Printf("\nСигнал %d:\n", i+1)
		fmt.Printf("  - Дата: %s\n", signal.OpenTime.Format("2006-01-02 15:04"))
		fmt.Printf("  - Тип свечи: %s\n", candleType)
		fmt.Printf("  - Открытие: %.2f | Закрытие: %.2f\n", signal.Open, signal.Close)
		fmt.Printf("  - Минимум: %.2f | Максимум: %.2f\n", signal.Low, signal.High)
		fmt.Printf("  - Объем: %.2f\n", signal.Volume)
		fmt.Printf("  - Зона: оценка %.2f | Тренд: %s, R²=%.2f\n",
			signal.Coincidence.ZoneScore,
			signal.Coincidence.TrendDirection,
			signal.Coincidence.TrendRSquared)
		fmt.Printf("  - Оценка: %.4f (свеча %.2f, зона %.2f, тренд %.2f)\n",
			signal.Score.FinalScore,
			signal.Score.CandleScore,
			signal.Score.ZoneScore,
			signal.Score.TrendScore)

		logger.Signal(cfg.Symbol, string(signal.Coincidence.TrendDirection), i+1, signal.Score.FinalScore)
	}

	fmt.Println()
	fmt.Println(line)
	fmt.Println()
}

// exportResults пишет полную разметку и отдельный файл сигналов
func exportResults(cfg *config.Config, saver export.Saver, rows []triple.EnrichedBar) error {
	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		return fmt.Errorf("создание каталога результатов: %w", err)
	}

	fullPath := export.ResultPath(cfg.Export.Dir, cfg.Symbol, cfg.Interval, "historical_data", saver.Extension())
	if err := saver.Save(export.FromEnrichedBars(rows), fullPath); err != nil {
		return fmt.Errorf("выгрузка полной разметки: %w", err)
	}
	logger.Info("💾 Полная разметка сохранена: %s", fullPath)

	signals := triple.Signals(rows)
	if len(signals) == 0 {
		return nil
	}

	signalsPath := export.ResultPath(cfg.Export.Dir, cfg.Symbol, cfg.Interval, "triple_signals", saver.Extension())
	if err := saver.Save(export.FromEnrichedBars(signals), signalsPath); err != nil {
		return fmt.Errorf("выгрузка сигналов: %w", err)
	}
	logger.Info("💾 Сигналы сохранены: %s", signalsPath)

	return nil
}
