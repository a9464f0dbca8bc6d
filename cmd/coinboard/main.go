package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/navid-fn/coinboard/configs"
	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/consumer"
	"github.com/navid-fn/coinboard/internal/i18n"
	"github.com/navid-fn/coinboard/internal/market"
	"github.com/navid-fn/coinboard/internal/prefs"
	"github.com/navid-fn/coinboard/internal/publisher"
	"github.com/navid-fn/coinboard/internal/shell"
	"github.com/navid-fn/coinboard/internal/theme"
	"github.com/navid-fn/coinboard/server"
	"github.com/navid-fn/coinboard/utils"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	cfg := configs.AppLoad()
	logger := utils.NewLogger(cfg.LogLevel)

	cmd := &cli.Command{
		Name:  "coinboard",
		Usage: "cryptocurrency price dashboard",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx, cfg, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the web dashboard",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return serve(ctx, cfg, logger)
				},
			},
			{
				Name:  "top",
				Usage: "print the top coins by market cap",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "filter by name or symbol"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "rows to print, 0 for all"},
					&cli.StringFlag{Name: "lang", Value: cfg.DefaultLanguage, Usage: "display language"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					translations, err := newTranslations(cmd.String("lang"))
					if err != nil {
						return err
					}
					coins, err := newClient(cfg, logger).Markets(ctx)
					if err != nil {
						return err
					}
					return printTop(os.Stdout, translations, coins, cmd.String("search"), int(cmd.Int("limit")))
				},
			},
			{
				Name:  "watch",
				Usage: "tail the market snapshots published to Kafka",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "group", Value: "coinboard-watch", Usage: "consumer group id"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !cfg.Kafka.Enabled() {
						return fmt.Errorf("KAFKA_BROKER is not set")
					}
					ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					c, err := consumer.NewConsumer(cfg.Kafka.Broker, cfg.Kafka.Topic, cmd.String("group"), logger)
					if err != nil {
						return err
					}
					return c.Start(ctx, func(snapshot publisher.MarketSnapshot) error {
						return printSnapshot(os.Stdout, snapshot, cfg.Location())
					})
				},
			},
			{
				Name:      "coin",
				Usage:     "print one coin with its price chart",
				ArgsUsage: "<coin-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Value: market.DefaultWindow, Usage: "chart window: 1, 7, 30, 90 or 365"},
					&cli.StringFlag{Name: "lang", Value: cfg.DefaultLanguage, Usage: "display language"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("coin id is required")
					}
					days := int(cmd.Int("days"))
					if !market.ValidWindow(days) {
						return fmt.Errorf("%w: %d", market.ErrInvalidWindow, days)
					}
					translations, err := newTranslations(cmd.String("lang"))
					if err != nil {
						return err
					}

					client := newClient(cfg, logger)
					detail, err := client.Coin(ctx, id)
					if err != nil {
						return err
					}
					series, err := client.MarketChart(ctx, id, days)
					if err != nil {
						logger.Errorf("Failed to fetch chart data: %v", err)
					}
					return printCoin(os.Stdout, translations, detail, series, days, cfg.Location())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}

func newClient(cfg *configs.AppConfig, logger *logrus.Logger) *coingecko.Client {
	return coingecko.NewClient(coingecko.ClientConfig{
		BaseURL:           cfg.Coingecko.BaseURL,
		APIKey:            cfg.Coingecko.APIKey,
		RequestTimeout:    cfg.Coingecko.RequestTimeout,
		RequestsPerSecond: cfg.Coingecko.RequestsPerSecond,
	}, logger)
}

func newTranslations(lang string) (*i18n.Store, error) {
	translations, err := i18n.New(lang)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	return translations, nil
}

func serve(ctx context.Context, cfg *configs.AppConfig, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	translations, err := newTranslations(cfg.DefaultLanguage)
	if err != nil {
		return err
	}

	store, err := prefs.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}
	logger.Infof("Preferences stored in %s", store.Path())

	var pub publisher.Publisher = publisher.Nop{}
	if cfg.Kafka.Enabled() {
		kafkaPub, err := publisher.NewKafka(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)
		if err != nil {
			return err
		}
		pub = kafkaPub
	}
	defer pub.Close()

	registry := shell.NewRegistry(shell.Config{
		Source:    newClient(cfg, logger),
		Interval:  cfg.PollInterval,
		Location:  cfg.Location(),
		Logger:    logger,
		OnMarkets: publisher.Observer(ctx, pub, logger),
	})

	srv, err := server.New(server.Config{
		Port:       cfg.ServerPort,
		Registry:   registry,
		I18n:       translations,
		Theme:      theme.New(store),
		Logger:     logger,
		ScreenIdle: cfg.ScreenIdle,
		Debug:      logger.IsLevelEnabled(logrus.DebugLevel),
	})
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
