package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abrezinsky/eurovote/internal/app"
	"github.com/abrezinsky/eurovote/internal/auth"
	"github.com/abrezinsky/eurovote/pkg/resultsfeed"
)

type serveFlags struct {
	noKeyboard bool
	noLogo     bool
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the voting and leaderboard server",
		Example: `  eurovote serve                          # Run on port 8081 with eurovote.db
  eurovote serve --port 8080 --db final.db
  eurovote serve --admin-password secret  # Use a fixed admin password
  eurovote serve --config eurovote.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rf, f)
		},
	}

	flags := cmd.Flags()
	flags.Int("port", 8081, "HTTP server port")
	flags.String("base-url", "", "Public base URL for share links (detected from the LAN address if empty)")
	flags.String("admin-password", "", "Admin password (generated if empty)")
	flags.String("feed-url", "", "Results feed base URL")
	flags.BoolVar(&f.noKeyboard, "no-keyboard", false, "Disable keyboard shortcuts")
	flags.BoolVar(&f.noLogo, "no-logo", false, "Skip the startup logo")

	return cmd
}

func runServe(cmd *cobra.Command, rf *rootFlags, f *serveFlags) error {
	cfg, err := loadConfig(cmd, rf)
	if err != nil {
		return err
	}

	stdinFd := int(os.Stdin.Fd())
	interactive := !f.noKeyboard && term.IsTerminal(stdinFd)

	var out io.Writer = os.Stdout
	if interactive {
		// Raw mode turns off output processing, so bare newlines need a carriage return
		out = crlfWriter{w: os.Stdout}
		middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger: log.New(out, "", log.LstdFlags),
		})
	}

	if !f.noLogo {
		showLogo(out)
	}

	appLog := newLogger(cfg, out)

	password := cfg.Admin.Password
	if password == "" {
		password = auth.GeneratePassword()
	}

	// Feed URL is resolved per sync from settings
	feed := resultsfeed.NewHTTPClient(cfg.Feed.URL, appLog)

	a, err := app.New(appLog, cfg, feed, auth.New(password))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive {
		state, err := term.MakeRaw(stdinFd)
		if err != nil {
			appLog.Warn("Keyboard shortcuts unavailable", "error", err)
		} else {
			defer term.Restore(stdinFd, state)

			kb := &keyboard{
				out:  out,
				log:  appLog,
				url:  fmt.Sprintf("http://localhost:%d/api/leaderboard", cfg.Server.Port),
				open: openBrowser,
				quit: stop,
			}
			printKeyboardHelp(out)
			go kb.listen(os.Stdin)
		}
	} else if !f.noKeyboard {
		fmt.Fprintf(out, "%sKeyboard shortcuts disabled (stdin is not a terminal)%s\n\n", yellow, reset)
	}

	return a.Run(ctx)
}
