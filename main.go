package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"prepbot/archive"
	"prepbot/interview"
	"prepbot/llm"
	"prepbot/transcribe"
	"prepbot/web"
)

var logger *log.Logger

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(listSessionsCmd)
	rootCmd.AddCommand(setupCmd)

	rootCmd.PersistentFlags().String("gemini-api-key", "", "Google Gemini API key")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key")
	rootCmd.PersistentFlags().
		String("deepgram-api-key", "", "Deepgram API key for fallback transcription")
	rootCmd.PersistentFlags().
		String("provider", "gemini", "Language model provider (gemini or openai)")
	rootCmd.PersistentFlags().String("data-dir", "data", "Session archive directory")
	rootCmd.PersistentFlags().Int("http-port", 8080, "HTTP server port")

	viper.BindPFlag(
		"gemini_api_key",
		rootCmd.PersistentFlags().Lookup("gemini-api-key"),
	)
	viper.BindPFlag(
		"openai_api_key",
		rootCmd.PersistentFlags().Lookup("openai-api-key"),
	)
	viper.BindPFlag(
		"deepgram_api_key",
		rootCmd.PersistentFlags().Lookup("deepgram-api-key"),
	)
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("http_port", rootCmd.PersistentFlags().Lookup("http-port"))
}

func initConfig() {
	godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.ReadInConfig()

	logger = log.New(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "prepbot",
	Short: "prepbot runs voice-based mock job interviews",
	Long:  `prepbot asks role-specific interview questions, transcribes spoken answers, and writes an evaluation report for each completed session.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview HTTP API",
	Run:   runServe,
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a full interview in the terminal",
	Run:   runInterview,
}

var listSessionsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List archived interview sessions",
	Run:   runListSessions,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively write a config file with your API keys",
	Run:   runSetup,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildController wires the session controller from configuration. A nil
// generator is deliberate when no credential is present: the controller then
// refuses to start a session with a clear error instead of crashing mid-call.
func buildController(
	ctx context.Context,
	mainLogger, talkLogger, hearLogger *log.Logger,
) (*interview.Controller, *genai.Client) {
	geminiKey := viper.GetString("gemini_api_key")
	openaiKey := viper.GetString("openai_api_key")
	deepgramKey := viper.GetString("deepgram_api_key")
	provider := viper.GetString("provider")

	var model llm.LanguageModel
	var geminiClient *genai.Client

	if geminiKey != "" {
		client, err := llm.NewGeminiClient(ctx, geminiKey)
		if err != nil {
			mainLogger.Fatal("create Gemini client", "error", err.Error())
		}
		geminiClient = client
	}

	switch provider {
	case "openai":
		openaiModel, err := llm.NewOpenAILanguageModel(openaiKey)
		if err != nil {
			mainLogger.Fatal(
				"missing OPENAI_API_KEY or --openai-api-key=",
				"error", err.Error(),
			)
		}
		model = openaiModel
	default:
		if geminiClient != nil {
			model = llm.NewGeminiLanguageModel(geminiClient)
		}
	}

	var backends []transcribe.Backend
	if geminiClient != nil {
		backends = append(
			backends,
			transcribe.NewGeminiBackend(geminiClient, "audio/webm"),
		)
	}
	backends = append(
		backends,
		transcribe.NewRecognizerBackend(deepgramKey, hearLogger),
	)
	adapter := transcribe.NewAdapter(hearLogger, backends...)

	store := archive.NewStore(viper.GetString("data_dir"))

	var generator interview.QuestionGenerator
	var evaluator interview.Evaluator
	if model != nil {
		generator = interview.NewGenerator(model)
		evaluator = interview.NewReportEvaluator(model)
	}

	return interview.NewController(
		generator,
		adapter,
		evaluator,
		store,
		talkLogger,
	), geminiClient
}

func runServe(cmd *cobra.Command, args []string) {
	mainLogger, talkLogger, hearLogger, _ := createLoggers()

	ctx := context.Background()
	ctrl, geminiClient := buildController(ctx, mainLogger, talkLogger, hearLogger)
	if geminiClient != nil {
		defer geminiClient.Close()
	}

	handler := web.NewHandler(ctrl, mainLogger)

	port := viper.GetInt("http_port")
	mainLogger.Info("starting HTTP server", "port", port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler.Router())
	if err != nil {
		mainLogger.Fatal("start HTTP server", "error", err.Error())
	}
}

func runInterview(cmd *cobra.Command, args []string) {
	mainLogger, talkLogger, hearLogger, _ := createLoggers()

	ctx := context.Background()
	ctrl, geminiClient := buildController(ctx, mainLogger, talkLogger, hearLogger)
	if geminiClient != nil {
		defer geminiClient.Close()
	}

	roles := interview.Roles()
	roleOptions := make([]huh.Option[interview.Role], len(roles))
	for i, r := range roles {
		roleOptions[i] = huh.NewOption(string(r), r)
	}

	var role interview.Role
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[interview.Role]().
				Title("Select a job profile").
				Options(roleOptions...).
				Value(&role),
		),
	)
	if err := form.Run(); err != nil {
		mainLogger.Fatal("role selection", "error", err.Error())
	}

	if err := ctrl.Start(ctx, role); err != nil {
		mainLogger.Fatal("start interview", "error", err.Error())
	}

	questionStyle := lipgloss.NewStyle().Bold(true).MarginTop(1)

	for ctrl.Status() == interview.Active {
		question, _ := ctrl.CurrentQuestion()
		fmt.Println(questionStyle.Render(fmt.Sprintf(
			"Question %d of %d",
			ctrl.QuestionNumber(),
			interview.QuestionTarget,
		)))
		fmt.Println(question)

		audio := promptForClip(mainLogger)
		if err := ctrl.SubmitAnswer(ctx, audio); err != nil {
			// Archival failure is a warning: the report still exists.
			mainLogger.Warn("session not archived", "error", err.Error())
		}

		transcript := ctrl.Transcript()
		last := transcript[len(transcript)-1]
		fmt.Printf("\nYou said: %s\n", last.Answer)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		mainLogger.Fatal("create renderer", "error", err.Error())
	}

	report, err := renderer.Render(ctrl.Report())
	if err != nil {
		mainLogger.Fatal("render report", "error", err.Error())
	}
	fmt.Print(report)

	if path := ctrl.ArchivePath(); path != "" {
		mainLogger.Info("session archived", "path", path)
	}
}

func promptForClip(mainLogger *log.Logger) []byte {
	for {
		var path string
		input := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Path to your recorded answer (audio file)").
					Value(&path),
			),
		)
		if err := input.Run(); err != nil {
			mainLogger.Fatal("answer input", "error", err.Error())
		}

		audio, err := os.ReadFile(strings.TrimSpace(path))
		if err != nil {
			mainLogger.Error("read audio file", "error", err.Error())
			continue
		}
		return audio
	}
}

func runListSessions(cmd *cobra.Command, args []string) {
	mainLogger, _, _, dataLogger := createLoggers()

	store := archive.NewStore(viper.GetString("data_dir"))
	entries, err := store.List()
	if err != nil {
		mainLogger.Fatal("list sessions", "error", err.Error())
	}

	if len(entries) == 0 {
		fmt.Println("No archived sessions found.")
		return
	}

	dataLogger.Debug("loaded sessions", "count", len(entries))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Profile", "Timestamp", "Questions", "File"})
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)

	for _, e := range entries {
		table.Append([]string{
			e.Record.Profile,
			e.Record.Timestamp,
			fmt.Sprintf("%d", len(e.Record.History)),
			e.Path,
		})
	}

	table.Render()
}

func runSetup(cmd *cobra.Command, args []string) {
	mainLogger, _, _, _ := createLoggers()

	var geminiKey, openaiKey, deepgramKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your Google Gemini API Key").
				Value(&geminiKey),
			huh.NewInput().
				Title("Enter your OpenAI API Key (optional)").
				Value(&openaiKey),
			huh.NewInput().
				Title("Enter your Deepgram API Key (optional, fallback transcription)").
				Value(&deepgramKey),
		),
	)
	if err := form.Run(); err != nil {
		mainLogger.Fatal("setup form", "error", err.Error())
	}

	viper.Set("gemini_api_key", geminiKey)
	viper.Set("openai_api_key", openaiKey)
	viper.Set("deepgram_api_key", deepgramKey)

	if err := viper.WriteConfigAs("config.yaml"); err != nil {
		mainLogger.Fatal("save configuration", "error", err.Error())
	}

	mainLogger.Info("configuration written", "file", "config.yaml")
}

func createLoggers() (mainLogger, talkLogger, hearLogger, dataLogger *log.Logger) {
	logger.SetLevel(log.DebugLevel)

	styles := log.DefaultStyles()
	styles.Prefix = styles.Prefix.MarginTop(1).
		Bold(false).Transform(func(s string) string {
		return strings.TrimSuffix(s, ":")
	})
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Message = styles.Message.Bold(true).Width(24)
	styles.Key = styles.Key.MarginLeft(1).
		Bold(false).
		Foreground(lipgloss.Color("#ff8800"))

	logger.SetStyles(styles)

	mainLogger = logger.With().WithPrefix("main")
	talkLogger = logger.With().WithPrefix("talk")
	hearLogger = logger.With().WithPrefix("hear")
	dataLogger = logger.With().WithPrefix("data")

	return
}
