package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"course-authoring/internal/config"
	"course-authoring/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory AppFactory
	app     *App
	cleanup func()

	configFile string
	envFile    string
	jsonOutput bool
}

// NewRootCommand creates the root cobra command with global flags. factory
// is invoked once flags and environment have been resolved.
func NewRootCommand(factory AppFactory) *RootCommand {
	if factory == nil {
		factory = DefaultAppFactory
	}
	root := &RootCommand{factory: factory}

	root.cmd = &cobra.Command{
		Use:   "coursectl",
		Short: "Author courses made of ordered learning tasks",
		Long: `coursectl manages instructors, courses and their learning tasks.

A course is built by adding open text, single choice and multiple choice
tasks at explicit positions. Inserting at an occupied position shifts the
later tasks down by one. Once it holds one task of each type the course
can be published, after which it is frozen.

EXAMPLES:
  coursectl seed
  coursectl course add --title "Java" --description "Aprenda Java" --instructor 2
  coursectl task add opentext --course 1 --order 1 --statement "O que aprendemos hoje?"
  coursectl task add singlechoice --course 1 --order 2 --statement "Qual linguagem?" \
      --option Java --option Python --correct Java
  coursectl course publish 1
  coursectl serve --address :8080

CONFIGURATION:
  Configuration follows this priority order: flags > environment (.env merged) > YAML file > defaults

    COURSE_DB_DIALECT                      sqlite or postgres (default: sqlite)
    COURSE_DB_DIR                          SQLite directory (default: ~/.coursectl)
    COURSE_DB_FILENAME                     SQLite filename (default: courses.db)
    COURSE_DB_DSN                          Postgres connection string
    COURSE_HTTP_ADDRESS                    Listen address for serve (default: :8080)
    COURSE_VALIDATION_MIN_OPTIONS          Minimum options per choice task (default: 2)
    COURSE_VALIDATION_MAX_OPTIONS          Maximum options per choice task (default: 5)
    COURSE_LOG_LEVEL                       DEBUG, INFO, WARN or ERROR (default: INFO)
    COURSE_LOG_FORMAT                      text or json (default: text)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			root.teardown()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.teardown()
	return r.cmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute onto a process exit status
func (r *RootCommand) ExitCode(err error) int {
	return NewErrorHandler().ExitCode(err)
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&r.envFile, "env-file", ".env", "dotenv file merged into the environment (empty disables)")
	flags.BoolVar(&r.jsonOutput, "json", false, "Print results as JSON")

	// Database configuration
	flags.String("db-dialect", "", "Database backend: sqlite or postgres (overrides COURSE_DB_DIALECT)")
	flags.String("db-dir", "", "SQLite directory (overrides COURSE_DB_DIR)")
	flags.String("db-filename", "", "SQLite filename (overrides COURSE_DB_FILENAME)")
	flags.String("db-dsn", "", "Postgres connection string (overrides COURSE_DB_DSN)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides COURSE_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides COURSE_DB_WRITE_TIMEOUT)")

	// Validation configuration
	flags.Int("min-options", 0, "Minimum options per choice task (overrides COURSE_VALIDATION_MIN_OPTIONS)")
	flags.Int("max-options", 0, "Maximum options per choice task (overrides COURSE_VALIDATION_MAX_OPTIONS)")
	flags.Int("option-min-length", 0, "Minimum option text length (overrides COURSE_VALIDATION_OPTION_MIN)")
	flags.Int("option-max-length", 0, "Maximum option text length (overrides COURSE_VALIDATION_OPTION_MAX)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Per command timeout (overrides COURSE_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides COURSE_APP_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides COURSE_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: text or json (overrides COURSE_LOG_FORMAT)")
}

func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newServeCommand(),
		r.newMigrateCommand(),
		r.newSeedCommand(),
		r.newUserCommand(),
		r.newCourseCommand(),
		r.newTaskCommand(),
	)
}

// setup resolves configuration, builds the logger and opens the App
func (r *RootCommand) setup(cmd *cobra.Command) error {
	if r.app != nil {
		return nil
	}

	loader := config.NewLoader().WithEnvFile(r.envFile)
	if r.configFile != "" {
		loader = loader.WithConfigFile(r.configFile)
	}
	cfg, err := loader.LoadWithOverrides(overridesFromFlags(cmd.Flags()))
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if cfg.Application.Verbose {
		level = "DEBUG"
	}
	logger := logging.New(os.Stderr, level, cfg.Log.Format)

	app, cleanup, err := r.factory(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	r.app = app
	r.cleanup = cleanup
	return nil
}

func (r *RootCommand) teardown() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	r.app = nil
}

func (r *RootCommand) printer() printer {
	return printer{out: r.app.out, json: r.jsonOutput}
}

// overridesFromFlags collects only the flags the user actually set
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		v = strings.TrimSpace(v)
		return &v
	}
	integer := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	o.DBDialect = str("db-dialect")
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.DBDSN = str("db-dsn")
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		o.DBQueryTimeout = &v
	}
	if flags.Changed("db-write-timeout") {
		v, _ := flags.GetDuration("db-write-timeout")
		o.DBWriteTimeout = &v
	}
	if flags.Lookup("address") != nil {
		o.Address = str("address")
	}

	o.MinOptions = integer("min-options")
	o.MaxOptions = integer("max-options")
	o.OptionMinLength = integer("option-min-length")
	o.OptionMaxLength = integer("option-max-length")

	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	o.LogLevel = str("log-level")
	o.LogFormat = str("log-format")

	return o
}
