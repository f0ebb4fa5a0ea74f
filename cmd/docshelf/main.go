package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/docshelf/chat"
	"github.com/hrygo/docshelf/chat/telegram"
	"github.com/hrygo/docshelf/internal/profile"
	"github.com/hrygo/docshelf/internal/version"
	"github.com/hrygo/docshelf/store"
	"github.com/hrygo/docshelf/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "docshelf",
	Short: `A Telegram bot that keeps your files organized by category.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Only load .env for direct binary execution; a process manager is
		// expected to provide the environment itself.
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:               viper.GetString("mode"),
			Transport:          viper.GetString("transport"),
			BotToken:           viper.GetString("bot-token"),
			WebhookURL:         viper.GetString("webhook-url"),
			Addr:               viper.GetString("addr"),
			Port:               viper.GetInt("port"),
			Data:               viper.GetString("data"),
			Driver:             viper.GetString("driver"),
			DSN:                viper.GetString("dsn"),
			SessionIdleTimeout: viper.GetDuration("session-idle-timeout"),
			Version:            version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid profile", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate", "error", err)
			os.Exit(1)
		}
		defer storeInstance.Close()

		sessions := chat.NewSessionManager(instanceProfile.SessionIdleTimeout)
		defer sessions.Close()

		dispatcher := chat.NewDispatcher(storeInstance, sessions)
		bot, err := telegram.NewBot(instanceProfile, dispatcher)
		if err != nil {
			slog.Error("failed to create telegram bot", "error", err)
			os.Exit(1)
		}

		// Trigger graceful shutdown on SIGINT or SIGTERM. SIGTERM is what
		// most process managers (systemd, Kubernetes) send first.
		c := make(chan os.Signal, 1)
		signal.Notify(c, terminationSignals...)
		go func() {
			<-c
			cancel()
		}()

		printGreetings(instanceProfile)

		if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("bot stopped", "error", err)
			os.Exit(1)
		}
		slog.Info("shutdown complete")
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("transport", "polling")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 28082)
	viper.SetDefault("session-idle-timeout", 30*time.Minute)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("transport", "polling", `update transport, "polling" or "webhook"`)
	rootCmd.PersistentFlags().String("bot-token", "", "Telegram Bot API token")
	rootCmd.PersistentFlags().String("webhook-url", "", "public HTTPS URL for webhook mode")
	rootCmd.PersistentFlags().String("addr", "", "address of the webhook/metrics server")
	rootCmd.PersistentFlags().Int("port", 28082, "port of the webhook/metrics server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().Duration("session-idle-timeout", 30*time.Minute, "evict abandoned upload/selection sessions after this long")

	for _, flag := range []string{"mode", "transport", "bot-token", "webhook-url", "addr", "port", "data", "driver", "dsn", "session-idle-timeout"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("docshelf")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("docshelf %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)
	fmt.Printf("Transport: %s\n", profile.Transport)
	if profile.Transport == "webhook" {
		fmt.Printf("Webhook URL: %s\n", profile.WebhookURL)
	}
	fmt.Printf("Metrics at: http://localhost:%d/metrics\n", profile.Port)
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
