package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/site-cloner/internal/client"
	"github.com/user/site-cloner/internal/preview"
	"github.com/user/site-cloner/internal/session"
	"github.com/user/site-cloner/internal/tui"
	"github.com/user/site-cloner/pkg/config"
	"github.com/user/site-cloner/pkg/logger"
)

var (
	settings = config.NewClientViper()

	outputPath  string
	asText      bool
	deviceParam string
)

var rootCmd = &cobra.Command{
	Use:   "cloner",
	Short: "Clone a website's design into a single HTML page",
	Long: `Cloner sends a URL to the website cloning service and shows the
generated page, either as a terminal preview or as its HTML source.

If no command is specified, the interactive UI launches.`,
	SilenceUsage: true,
	RunE:         runUI,
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal UI",
	RunE:  runUI,
}

var cloneCmd = &cobra.Command{
	Use:   "clone <url>",
	Short: "Clone a single URL and print the result",
	Example: `  # Print the generated HTML
  cloner clone https://info.cern.ch

  # Save it to a file
  cloner clone https://info.cern.ch -o cern.html

  # Render it for a narrow terminal
  cloner clone https://info.cern.ch --text --device mobile`,
	Args: cobra.ExactArgs(1),
	RunE: runClone,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String("backend", client.DefaultBaseURL, "Base URL of the cloning service")
	flags.Duration("timeout", client.DefaultTimeout, "Maximum time to wait for one clone")
	flags.String("log-level", "", "Log at this level (debug, info, warn, error). The clone command logs to stderr, the UI to --log-file")
	flags.String("log-file", "cloner.log", "File the UI writes its log to")
	for _, name := range []string{"backend", "timeout", "log-level", "log-file"} {
		if err := settings.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	cloneCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the HTML to this file instead of stdout")
	cloneCmd.Flags().BoolVar(&asText, "text", false, "Print a terminal rendering instead of HTML")
	cloneCmd.Flags().StringVar(&deviceParam, "device", string(preview.DeviceDesktop), "Rendering width for --text (desktop, mobile)")

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(cloneCmd)
}

func newClient(cfg *config.ClientConfig, log *zap.Logger) *client.Client {
	return client.New(cfg.Backend, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadClient(settings)
	if err != nil {
		return err
	}
	// The alternate screen owns the terminal, so log lines go to a file.
	log, closeLog, err := logger.NewConsoleFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
		_ = closeLog()
	}()
	c := newClient(cfg, log)

	sess := session.New(c)
	return tui.Run(cmd.Context(), sess, tui.Options{
		PreviewURL: c.PreviewURL,
		Logger:     log,
	})
}

func runClone(cmd *cobra.Command, args []string) error {
	device, err := preview.ParseDevice(deviceParam)
	if err != nil {
		return err
	}

	cfg, err := config.LoadClient(settings)
	if err != nil {
		return err
	}
	log, err := logger.NewConsole(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	c := newClient(cfg, log)

	sess := session.New(c)
	fmt.Fprintf(os.Stderr, "Cloning %s via %s...\n", args[0], cfg.Backend)
	if err := sess.Submit(cmd.Context(), args[0]); err != nil {
		return err
	}

	st := sess.Snapshot()
	out := st.Result
	if asText {
		out = preview.Text(st.Result, device) + "\n"
	}

	if outputPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(out), outputPath)
	if st.ResultID != "" {
		fmt.Fprintf(os.Stderr, "Preview: %s\n", c.PreviewURL(st.ResultID, device))
	}
	return nil
}
