package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/CosmoTheDev/rekt-terminal/internal/ai"
	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/database"
	"github.com/CosmoTheDev/rekt-terminal/internal/notify"
	"github.com/CosmoTheDev/rekt-terminal/internal/theme"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify configuration, storage and content",
	Long: `Checks that the config parses, the database can be reached and migrated,
the catalog loads, and the gateway settings are usable.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	allOK := true

	fmt.Println(headerStyle.Render("=== rekt doctor ==="))

	// Check database
	fmt.Print("Database ................. ")
	db, err := database.New(cfg.Database)
	if err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		if err := db.Ping(ctx); err != nil {
			fmt.Printf("FAIL (%s)\n", err)
			allOK = false
		} else if err := db.Migrate(ctx); err != nil {
			fmt.Printf("FAIL (migrations: %s)\n", err)
			allOK = false
		} else {
			target := cfg.Database.Path
			if db.Driver() == "mysql" {
				target = "dsn configured"
			}
			fmt.Printf("OK (%s: %s)\n", db.Driver(), target)

			fmt.Print("Theme preference ......... ")
			t, err := theme.NewStore(db, cfg.UI.DefaultTheme).Load(ctx)
			if err != nil {
				fmt.Printf("FAIL (%s)\n", err)
				allOK = false
			} else {
				fmt.Printf("OK (%s)\n", t)
			}
		}
		db.Close()
	}

	// Check catalog
	fmt.Print("Catalog .................. ")
	cat, err := loadCatalog(cfg)
	if err != nil {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		fmt.Printf("OK (%d articles, %d exploit walkthroughs)\n", len(cat.Articles()), len(cat.VisualizationNames()))
	}

	// Check assistant
	fmt.Print("Assistant ................ ")
	p := ai.New(cfg.Assistant)
	if p.IsAvailable(ctx) {
		fmt.Printf("OK (%s)\n", p.Name())
	} else {
		fmt.Println("disabled (set assistant.provider to \"canned\" to enable)")
	}

	// Check notifications
	fmt.Print("Notifications ............ ")
	if n := notify.NewDispatcher(cfg.Notify); n.IsAnyConfigured() {
		fmt.Printf("OK (%v, min severity %s)\n", n.Channels(), cfg.Notify.MinSeverity)
	} else {
		fmt.Println("none configured (optional)")
	}

	// Check gateway settings
	fmt.Print("Gateway feed ticker ...... ")
	if _, err := cron.ParseStandard(cfg.Gateway.FeedTicker); err != nil && cfg.Gateway.FeedTicker != "" {
		fmt.Printf("FAIL (%s)\n", err)
		allOK = false
	} else {
		fmt.Printf("OK (%q)\n", cfg.Gateway.FeedTicker)
	}

	fmt.Print("Gateway port ............. ")
	port := cfg.Gateway.Port
	if port == 0 {
		port = config.DefaultGatewayPort
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	if ln, err := net.Listen("tcp", addr); err != nil {
		fmt.Printf("IN USE (%s — is the gateway already running?)\n", addr)
	} else {
		_ = ln.Close()
		fmt.Printf("OK (%s free)\n", addr)
	}

	fmt.Println()
	if allOK {
		fmt.Println(successStyle.Render("All checks passed — rekt is ready!"))
	} else {
		fmt.Println(warnStyle.Render("Some checks failed — review 'rekt config show'."))
	}
	fmt.Println(dimStyle.Render("Config: " + configPathOrDefault()))

	return nil
}

func configPathOrDefault() string {
	p, err := config.ConfigPath(cfgFile)
	if err != nil {
		return "~/.rekt/config.json"
	}
	return p
}
