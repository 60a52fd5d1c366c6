// Command ingatbot runs the chat reminder and assistant bot: it receives
// chat messages over a webhook, schedules reminders, and answers everything
// else through the reply fallback chain.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ingatbot/internal/bot"
	"ingatbot/internal/config"
	"ingatbot/internal/history"
	"ingatbot/internal/remind"
	"ingatbot/internal/reply"
	"ingatbot/internal/transport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "ingatbot",
		Short: "Chat reminder and assistant bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			return run(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store := remind.NewStore(afero.NewOsFs(), cfg.RemindersPath)
	scheduler := remind.NewScheduler()
	defer scheduler.StopAll()

	cache, err := history.NewCache(cfg.MaxHistory, cfg.MaxConversations)
	if err != nil {
		return err
	}

	backend := reply.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.RequestTimeout)
	chain := reply.NewChain(backend, reply.ChainConfig{
		PrimaryModel:  cfg.PrimaryModel,
		FallbackModel: cfg.FallbackModel,
		MaxTokens:     cfg.MaxTokens,
	})

	client := transport.NewWebhookClient(cfg.WebhookURL, cfg.SendTimeout)

	router := bot.NewRouter(store, scheduler, cache, chain, client, bot.Config{
		Location:       loc,
		ConversationID: cfg.ConversationID,
		SendTimeout:    cfg.SendTimeout,
	})
	router.RestoreReminders()

	server := transport.NewServer(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	slog.Info("ingatbot started",
		"addr", cfg.Addr,
		"timezone", cfg.Timezone,
		"primary_model", cfg.PrimaryModel,
		"fallback_model", cfg.FallbackModel,
	)
	return g.Wait()
}
