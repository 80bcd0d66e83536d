package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/reaandrew/a11ygrade/analyzers"
	"github.com/reaandrew/a11ygrade/config"
	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/metrics"
	"github.com/reaandrew/a11ygrade/processors"
	"github.com/reaandrew/a11ygrade/report"
	"github.com/reaandrew/a11ygrade/reporters"
	"github.com/reaandrew/a11ygrade/repositories"
	"github.com/reaandrew/a11ygrade/scanners"
	"github.com/reaandrew/a11ygrade/server"
	"github.com/reaandrew/a11ygrade/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrIssuesFound is returned by audit and scan commands when any audited
// file has at least one error. main turns it into exit status 1.
var ErrIssuesFound = errors.New("accessibility errors found")

// Cli represents the command-line interface
type Cli struct {
	out        io.Writer
	cfg        config.Config
	configPath string

	reportFormat string
	store        string
	since        string
	outputDir    string
	prefix       string
	baseUrl      string
	queriesPath  string
	workers      int

	gitlabToken string
	gitlabURL   string
	noCache     bool

	detect      bool
	auditFormat string
}

func NewCli(out io.Writer) *Cli {
	return &Cli{out: out, cfg: config.Default()}
}

// Execute sets up and runs the root command
func (cli *Cli) Execute(args ...string) error {
	rootCmd := cli.newRootCommand()
	if len(args) > 0 {
		rootCmd.SetArgs(args)
	}
	return rootCmd.Execute()
}

func (cli *Cli) newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "a11ygrade",
		Short:         "a11ygrade grades markup and source code for common accessibility problems.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd.Context(), cli.configPath)
			if err != nil {
				return err
			}
			cli.cfg = cli.applyFlags(cmd, cfg)
			setupLogging(cli.cfg)
			return nil
		},
	}
	rootCmd.SetOut(cli.out)
	rootCmd.PersistentFlags().StringVar(&cli.configPath, "config", "", "Config file (.yaml, .yml, .toml or .hcl)")

	rootCmd.AddCommand(cli.createAuditCommand())
	rootCmd.AddCommand(cli.createScanCommand())
	rootCmd.AddCommand(cli.createServeCommand())
	return rootCmd
}

// applyFlags overrides configuration with the flags set on the command line.
func (cli *Cli) applyFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("report") {
		cfg.Report.Format = cli.reportFormat
	}
	if flags.Changed("store") {
		cfg.Store = cli.store
	}
	if flags.Changed("since") {
		cfg.Since = cli.since
	}
	if flags.Changed("output-dir") {
		cfg.Report.OutputDir = cli.outputDir
	}
	if flags.Changed("prefix") {
		cfg.Report.Prefix = cli.prefix
	}
	if flags.Changed("baseurl") {
		cfg.Report.BaseURL = cli.baseUrl
	}
	if flags.Changed("workers") {
		cfg.Workers = cli.workers
	}
	if flags.Changed("gitlab-token") {
		cfg.Gitlab.Token = cli.gitlabToken
	}
	if flags.Changed("gitlab-url") {
		cfg.Gitlab.BaseURL = cli.gitlabURL
	}
	if flags.Changed("no-cache") {
		cfg.Gitlab.NoCache = cli.noCache
	}
	return cfg
}

func (cli *Cli) createAuditCommand() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit <FILE>",
		Short: "Audit a single file and print its accessibility grade.",
		Long: "Audit a single file. .html and .htm files are parsed as documents, everything else as " +
			"JSX/TSX unless --detect is given, in which case the language is detected and markup " +
			"is extracted from the source.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading '%s': %w", path, err)
			}

			var findings []core.Finding
			if cli.detect {
				analysis, err := analyzers.AnalyzeFile(path, string(content))
				if err != nil {
					return err
				}
				findings = analysis.Findings
			} else {
				findings, err = analyzers.SafeAnalyze(func() []core.Finding {
					return analyzers.AnalyzeByFileType(filepath.Ext(path), string(content))
				})
				if err != nil {
					return err
				}
			}

			r := report.BuildReport(findings)
			switch cli.auditFormat {
			case "json":
				encoder := json.NewEncoder(cli.out)
				encoder.SetIndent("", "  ")
				err = encoder.Encode(r)
			case "text", "":
				err = report.WriteText(cli.out, r)
			default:
				return fmt.Errorf("unknown output format: %s", cli.auditFormat)
			}
			if err != nil {
				return err
			}

			if r.Errors > 0 {
				return ErrIssuesFound
			}
			return nil
		},
	}
	auditCmd.Flags().BoolVar(&cli.detect, "detect", false, "Detect the language and extract markup from non-markup files")
	auditCmd.Flags().StringVar(&cli.auditFormat, "format", "text", "Output format (supported: text, json)")
	return auditCmd
}

// createScanCommand creates the 'scan' subcommand with its flags and subcommands
func (cli *Cli) createScanCommand() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan directories, repositories or organizations for accessibility problems.",
	}

	scanCmd.PersistentFlags().StringVar(&cli.reportFormat, "report", "text", "Report format (supported: text, json, xlsx, http)")
	scanCmd.PersistentFlags().StringVar(&cli.store, "store", "file", "Audit store (supported: file, sqlite)")
	scanCmd.PersistentFlags().StringVar(&cli.since, "since", "", `Only audit files changed since this date, e.g. "2 weeks ago"`)
	scanCmd.PersistentFlags().StringVar(&cli.outputDir, "output-dir", ".", "Directory for report artifacts")
	scanCmd.PersistentFlags().StringVar(&cli.prefix, "prefix", "a11ygrade", "Prefix for report artifact file names")
	scanCmd.PersistentFlags().StringVar(&cli.baseUrl, "baseurl", "", "Http report base url")
	scanCmd.PersistentFlags().StringVar(&cli.queriesPath, "queries", "", "YAML file of summary SQL queries for json and xlsx reports")
	scanCmd.PersistentFlags().IntVar(&cli.workers, "workers", 10, "Number of repositories scanned concurrently")

	scanDirCmd := &cobra.Command{
		Use:   "dir [DIRECTORY]",
		Short: "Scan a directory (defaults to CWD) as a single repository.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := "."
			if len(args) == 1 {
				directory = args[0]
			}

			info, err := os.Stat(directory)
			if err != nil {
				return fmt.Errorf("error accessing directory '%s': %w", directory, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("provided path '%s' is not a directory", directory)
			}

			return cli.runScan(func(env scanEnv) error {
				return scanners.DirectoryScanner{
					Reporter:          env.reporter,
					FileScanner:       env.fileScanner,
					FindingRepository: env.repository,
				}.Scan(directory)
			})
		},
	}

	scanRepoCmd := &cobra.Command{
		Use:   "repo <REPO_URL>",
		Short: "Clone and scan a single Git repository.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runScan(func(env scanEnv) error {
				pool := env.pool()
				pool.Token = cli.cfg.GithubToken
				return scanners.RepoScanner{
					Reporter:          env.reporter,
					FindingRepository: env.repository,
					Pool:              pool,
				}.Scan(cmd.Context(), args[0])
			})
		},
	}

	scanOrgCmd := &cobra.Command{
		Use:   "github_org <ORG_NAME>",
		Short: "Scan all repositories within a GitHub organization.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := utils.NewRepoCache()
			if err != nil {
				return err
			}
			return cli.runScan(func(env scanEnv) error {
				return scanners.GithubOrgScanner{
					Reporter:          env.reporter,
					FindingRepository: env.repository,
					GithubClient:      utils.NewGithubApiClient(cli.cfg.GithubToken, cache),
					Pool:              env.pool(),
				}.Scan(cmd.Context(), args[0])
			})
		},
	}

	scanGitlabCmd := &cobra.Command{
		Use:   "gitlab",
		Short: "Scan all projects visible to a GitLab token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cache *utils.RepoCache
			if !cli.cfg.Gitlab.NoCache {
				var err error
				if cache, err = utils.NewRepoCache(); err != nil {
					return err
				}
			}
			client, err := utils.NewGitlabApiClient(cli.cfg.Gitlab.Token, cli.cfg.Gitlab.BaseURL, cache)
			if err != nil {
				return err
			}
			return cli.runScan(func(env scanEnv) error {
				return scanners.GitlabScanner{
					Reporter:          env.reporter,
					FindingRepository: env.repository,
					GitlabApi:         client,
					Pool:              env.pool(),
				}.Scan(cmd.Context())
			})
		},
	}
	scanGitlabCmd.Flags().StringVar(&cli.gitlabToken, "gitlab-token", "", "GitLab personal access token (defaults to GITLAB_TOKEN)")
	scanGitlabCmd.Flags().StringVar(&cli.gitlabURL, "gitlab-url", "https://gitlab.com", "GitLab base URL")
	scanGitlabCmd.Flags().BoolVar(&cli.noCache, "no-cache", false, "Always list projects from the API")

	scanCmd.AddCommand(scanDirCmd)
	scanCmd.AddCommand(scanRepoCmd)
	scanCmd.AddCommand(scanOrgCmd)
	scanCmd.AddCommand(scanGitlabCmd)
	return scanCmd
}

// scanEnv is what every scan subcommand needs, built from configuration.
type scanEnv struct {
	cfg         config.Config
	reporter    core.Reporter
	repository  core.FindingRepository
	fileScanner scanners.FsFileScanner
}

func (env scanEnv) pool() scanners.RepoPool {
	return scanners.RepoPool{
		FileScanner:      env.fileScanner,
		GitClient:        utils.GitClient{},
		ProgressReporter: utils.NewBarProgressReporter(0, "Scanning repositories"),
		CloneDir:         env.cfg.CloneDir,
		Workers:          env.cfg.Workers,
		Shallow:          env.fileScanner.Since.IsZero(),
	}
}

func (cli *Cli) runScan(scan func(env scanEnv) error) error {
	since, err := utils.ParseSince(cli.cfg.Since)
	if err != nil {
		return err
	}

	if cli.queriesPath != "" {
		if cli.cfg.Summary, err = reporters.LoadQueries(cli.queriesPath); err != nil {
			return err
		}
	}

	fileProcessors, err := processors.InitializeProcessors(cli.cfg)
	if err != nil {
		return err
	}

	reporter, err := reporters.CreateReporter(cli.cfg, cli.out)
	if err != nil {
		return err
	}

	repository, err := cli.createRepository()
	if err != nil {
		return err
	}
	defer func() {
		if cli.cfg.Store != "sqlite" {
			if err := repository.Clear(); err != nil {
				log.Errorf("Error clearing repository: %v", err)
			}
		}
		if err := repository.Close(); err != nil {
			log.Errorf("Error closing repository: %v", err)
		}
	}()

	env := scanEnv{
		cfg:        cli.cfg,
		reporter:   reporter,
		repository: repository,
		fileScanner: scanners.FsFileScanner{
			Processors: fileProcessors,
			Since:      since,
		},
	}
	if err := scan(env); err != nil {
		return err
	}

	failing, err := hasErrors(repository)
	if err != nil {
		return err
	}
	if failing {
		return ErrIssuesFound
	}
	return nil
}

func (cli *Cli) createRepository() (core.FindingRepository, error) {
	switch cli.cfg.Store {
	case "file", "":
		return repositories.NewFileBasedFindingRepository(), nil
	case "sqlite":
		return repositories.NewSqliteFindingRepository(cli.cfg.SqlitePath)
	}
	return nil, fmt.Errorf("unknown store: %s", cli.cfg.Store)
}

func hasErrors(repository core.FindingRepository) (bool, error) {
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return false, err
		}
		for _, audit := range set.Audits {
			if audit.Errors() > 0 {
				return true, nil
			}
		}
	}
	return false, nil
}

func (cli *Cli) createServeCommand() *cobra.Command {
	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP audit service.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cli.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return server.New(cfg).ListenAndServe(ctx)
			})
			if _, metricsErrs := metrics.StartServer(ctx, cfg.MetricsAddr); metricsErrs != nil {
				group.Go(func() error {
					return <-metricsErrs
				})
			}
			return group.Wait()
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":3000", "Listen address")
	return serveCmd
}
