package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caltide/caltide/internal/profile"
	"github.com/caltide/caltide/plugin/ai"
	"github.com/caltide/caltide/server"
	"github.com/caltide/caltide/server/assistant"
	apiv1 "github.com/caltide/caltide/server/router/api/v1"
	"github.com/caltide/caltide/server/service/calendar"
	"github.com/caltide/caltide/server/timezone"
	"github.com/caltide/caltide/store"
	"github.com/caltide/caltide/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "caltide",
	Short: "caltide is a natural-language calendar assistant",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}

		api := apiv1.NewAPIV1Service(app.profile, app.store, app.calendar, app.assistant)
		srv, err := server.NewServer(app.profile, app.store, api)
		if err != nil {
			return err
		}

		go func() {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			srv.Shutdown(context.Background())
		}()

		return srv.Start()
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant on the terminal",
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.store.Close() }()

		fmt.Println("Welcome to your calendar assistant! Type 'help' for examples, 'quit' to leave.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			switch strings.ToLower(line) {
			case "quit", "exit", "bye":
				fmt.Println("Goodbye!")
				return nil
			}
			fmt.Println(app.assistant.ProcessQuery(context.Background(), line))
		}
		return scanner.Err()
	},
}

// app bundles the wired collaborators behind the commands.
type app struct {
	profile   *profile.Profile
	store     *store.Store
	calendar  calendar.Service
	assistant *assistant.Assistant
}

func buildApp() (*app, error) {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := timezone.ParseTimezone(instanceProfile.Timezone)
	if err != nil {
		return nil, err
	}
	if instanceProfile.Timezone == "" {
		loc = time.Local
	}

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to create db driver: %w", err)
	}
	storeInstance := store.New(dbDriver, instanceProfile)

	var cal calendar.Service
	switch instanceProfile.CalendarBackend {
	case "google":
		cal, err = calendar.NewGoogleService(context.Background(),
			instanceProfile.GoogleCredentialsFile, instanceProfile.GoogleTokenFile)
		if err != nil {
			return nil, err
		}
	default:
		cal = calendar.NewLocalService(storeInstance, loc)
	}

	provider, err := ai.NewProvider(&ai.Config{
		APIKey:    instanceProfile.AIAPIKey,
		BaseURL:   instanceProfile.AIBaseURL,
		ChatModel: instanceProfile.AIModel,
	})
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(); err != nil {
		return nil, err
	}

	classifier := assistant.NewOpenAIClassifier(provider, provider.ChatModel())
	asst := assistant.New(cal, classifier,
		assistant.WithTimezone(loc),
		assistant.WithWorkingHours(assistant.WorkingHours{
			Start: instanceProfile.WorkingHoursStart,
			End:   instanceProfile.WorkingHoursEnd,
		}),
	)

	slog.Info("caltide initialized",
		"mode", instanceProfile.Mode,
		"backend", instanceProfile.CalendarBackend,
		"timezone", loc.String(),
		"model", provider.ChatModel())

	return &app{
		profile:   instanceProfile,
		store:     storeInstance,
		calendar:  cal,
		assistant: asst,
	}, nil
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "dev" or "prod"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 8230, "binding port for the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("caltide")
	viper.AutomaticEnv()

	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
