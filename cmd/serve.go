package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/99minutos/task-tracker/docs"
	"github.com/99minutos/task-tracker/internal/api"
	"github.com/99minutos/task-tracker/internal/core/service"
	"github.com/99minutos/task-tracker/internal/infrastructure/db/redis"
	"github.com/99minutos/task-tracker/internal/infrastructure/http/handlers"
	"github.com/99minutos/task-tracker/internal/infrastructure/queue"
	"github.com/99minutos/task-tracker/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task tracker HTTP API and the activity recorder workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		log := logger.Get()

		st, err := openStores(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("closing store")
			}
		}()
		checkers := []handlers.Checker{st.checker}

		// --- Activity recorder ---
		activityService := service.NewActivityService(st.activity, logger.Component("activity"))
		dispatcher := queue.NewDispatcher(cfg.Tasks.ActivityWorkers, activityService, logger.Component("dispatcher"))
		workerCtx, stopWorkers := context.WithCancel(context.Background())
		dispatcher.Start(workerCtx)

		taskOpts := []service.TaskOption{
			service.WithActivityRecorder(dispatcher),
			service.WithDailyHoursLimit(cfg.Tasks.DailyHoursLimit),
		}

		// --- Optional idempotency keys ---
		if cfg.Redis.Addr != "" {
			rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
			if err != nil {
				stopWorkers()
				return err
			}
			defer rdb.Close()
			taskOpts = append(taskOpts, service.WithIdempotencyStore(redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)))
			checkers = append(checkers, redis.NewPinger(rdb))
			log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
		}

		authService := service.NewAuthService(st.users, st.members, cfg.JWTSecret, 0, logger.Component("auth"))
		e := api.NewRouter(api.Deps{
			Tasks:      service.NewTaskService(st.tasks, st.users, st.activity, logger.Component("tasks"), taskOpts...),
			Roster:     service.NewRosterService(st.users, st.members, cfg.Roster.ProtectLastManager, logger.Component("roster")),
			Analytics:  service.NewAnalyticsService(st.tasks, st.users, logger.Component("analytics")),
			Principals: authService,
			JWTSecret:  cfg.JWTSecret,
			Checkers:   checkers,
			Logger:     logger.Component("http"),
		})

		go func() {
			log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}

		stopWorkers()
		select {
		case <-dispatcher.Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("activity workers did not drain before the shutdown timeout")
		}

		log.Info().Msg("HTTP server and activity workers shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
