// Package main provides the entry point for the mufradat CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/yamanq/mufradat/drill"
	"github.com/yamanq/mufradat/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	audioDir    string
	idRange     string
	voice       string
	repeatCount int
	interval    int
	autoPlay    bool
	width       uint
	noWatch     bool

	rootCmd = &cobra.Command{
		Use:   "mufradat [WORDS.csv]",
		Short: "Drill vocabulary with pronunciation audio in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nDrill vocabulary %s: flip through word cards and listen to pre-rendered pronunciation clips, with repeats and auto-advance.", keyword("in your terminal")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	audioDir = viper.GetString("audio-dir")
	idRange = viper.GetString("range")
	voice = viper.GetString("voice")
	repeatCount = viper.GetInt("repeat")
	interval = viper.GetInt("interval")
	autoPlay = viper.GetBool("autoplay")
	width = viper.GetUint("width")

	if repeatCount < 1 || repeatCount > 100 {
		return fmt.Errorf("repeat count must be between 1 and 100, got %d", repeatCount)
	}
	if interval < 0 || interval > 600 {
		return fmt.Errorf("interval must be between 0 and 600 seconds, got %d", interval)
	}
	if voice != "random" {
		if _, err := drill.ParseVoice(voice); err != nil {
			return fmt.Errorf("unknown voice %q (known: %s, or random)", voice, voiceNames())
		}
	}
	if idRange != "" {
		if _, _, err := parseIDRange(idRange); err != nil {
			return err
		}
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") {
		if term.IsTerminal(int(os.Stdout.Fd())) && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func voiceNames() string {
	names := ""
	for i, v := range drill.Voices() {
		if i > 0 {
			names += ", "
		}
		names += string(v)
	}
	return names
}

// parseIDRange parses the --range flag, "START-END" inclusive.
func parseIDRange(s string) (start, end int, err error) {
	if _, err := fmt.Sscanf(s, "%d-%d", &start, &end); err != nil {
		return 0, 0, fmt.Errorf("range must look like START-END, got %q", s)
	}
	if start > end {
		return 0, 0, fmt.Errorf("range start %d is after end %d", start, end)
	}
	return start, end, nil
}

func execute(_ *cobra.Command, args []string) error {
	wordFile := viper.GetString("words")
	if len(args) == 1 {
		wordFile = args[0]
	}
	if wordFile == "" {
		return errors.New("no word list: pass WORDS.csv or set 'words' in the config file")
	}
	if _, err := os.Stat(wordFile); err != nil {
		return fmt.Errorf("unable to open word list: %w", err)
	}

	p, err := filepath.Abs(wordFile)
	if err != nil {
		return fmt.Errorf("unable to get absolute path: %w", err)
	}
	return runTUI(p)
}

func runTUI(wordFile string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.WordFile = wordFile
	cfg.AudioDir = audioDir
	if cfg.AudioDir == "" {
		cfg.AudioDir = filepath.Dir(wordFile)
	}
	cfg.Voice = voice
	cfg.RandomVoice = voice == "random"
	cfg.RepeatCount = repeatCount
	cfg.Interval = time.Duration(interval) * time.Second
	cfg.AutoPlay = autoPlay
	cfg.Width = width
	if noWatch {
		cfg.WatchWordFile = false
	}
	if idRange != "" {
		cfg.RangeStart, cfg.RangeEnd, _ = parseIDRange(idRange)
	}

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// setupLog redirects logging to a file when MUFRADAT_LOGFILE is set; the
// TUI owns stdout.
func setupLog() (func() error, error) {
	if logFile := os.Getenv("MUFRADAT_LOGFILE"); logFile != "" {
		f, err := tea.LogToFile(logFile, "mufradat")
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&audioDir, "audio-dir", "d", "", "directory holding the rendered clips (default: word list directory)")
	rootCmd.Flags().StringVarP(&idRange, "range", "r", "", "initial id range, e.g. 12-40 (default: the whole list)")
	rootCmd.Flags().StringVar(&voice, "voice", "gtts", "voice to play, or 'random' for a stable per-word voice")
	rootCmd.Flags().IntVar(&repeatCount, "repeat", 1, "times each clip plays")
	rootCmd.Flags().IntVarP(&interval, "interval", "i", 0, "auto-play pause between words in seconds")
	rootCmd.Flags().BoolVarP(&autoPlay, "autoplay", "a", false, "advance and play automatically")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "card width (set to 0 for terminal width)")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the word list when it changes")

	// Config bindings
	_ = viper.BindPFlag("audio-dir", rootCmd.Flags().Lookup("audio-dir"))
	_ = viper.BindPFlag("range", rootCmd.Flags().Lookup("range"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("repeat", rootCmd.Flags().Lookup("repeat"))
	_ = viper.BindPFlag("interval", rootCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("autoplay", rootCmd.Flags().Lookup("autoplay"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))

	viper.SetDefault("voice", "gtts")
	viper.SetDefault("repeat", 1)
	viper.SetDefault("interval", 0)
	viper.SetDefault("width", 0)
	viper.SetDefault("words", "")

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "mufradat")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "mufradat")}, dirs...)
	}

	if c := os.Getenv("MUFRADAT_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("mufradat")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("mufradat")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "mufradat.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
