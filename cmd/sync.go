package cmd

import (
	"fmt"
	"os"
	"strings"

	"foreman/pkg/config"
	"foreman/pkg/depsync"
	"foreman/pkg/gitrepo"
	"foreman/pkg/log"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/spf13/cobra"
)

var (
	syncDependency string
	syncUsers      []string
	syncDryRun     bool
)

// syncCmd makes user repositories depend on the latest commit of a
// dependency repository by rewriting their WORKSPACE sync-marker pins.
var syncCmd = &cobra.Command{
	Use:   "sync --dependency repo:branch --user repo:branch [--user ...]",
	Short: "Updates inter-repository dependency pins to the latest commit",
	Long: `The sync command resolves the latest commit of the dependency
repository's branch and rewrites the sync-marker pin in each user
repository's WORKSPACE file, committing and pushing the change with the
configured bot identity.

Sync only runs for the upstream repository: when the upstream environment
variable does not reference the configured organization, the command logs
and exits successfully without touching anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmd.Context().Value("logger").(log.Logger)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if !cfg.Sync.Configured() {
			return fmt.Errorf("sync is not configured in %s", cfgFile)
		}

		repoURL := os.Getenv(cfg.Sync.UpstreamEnv)
		if !strings.Contains(repoURL, cfg.Sync.Organization) {
			logger.Info("not building the upstream repo, skipping dependency sync",
				"env", cfg.Sync.UpstreamEnv,
				"organization", cfg.Sync.Organization)
			return nil
		}

		payload := os.Getenv(cfg.Credential.Env)
		if payload == "" {
			return fmt.Errorf("syncing upstream dependencies requires $%s to be set", cfg.Credential.Env)
		}
		auth := &githttp.BasicAuth{
			Username: cfg.Sync.BotUser,
			Password: payload,
		}

		dependency, err := gitrepo.Parse(syncDependency, cfg.Sync, auth)
		if err != nil {
			return err
		}
		users := make([]gitrepo.Repo, 0, len(syncUsers))
		for _, coordinates := range syncUsers {
			user, err := gitrepo.Parse(coordinates, cfg.Sync, auth)
			if err != nil {
				return err
			}
			users = append(users, user)
		}

		logger.Info("syncing dependency pins",
			"dependency", dependency.Name,
			"branch", dependency.Branch,
			"users", len(users))

		syncer := &depsync.Syncer{
			Client: gitrepo.NewClient(cfg.Sync.GitUser, cfg.Sync.GitEmail),
			Logger: logger,
			DryRun: syncDryRun,
			Out:    cmd.OutOrStdout(),
		}
		return syncer.Sync(dependency, users)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncDependency, "dependency", "", "Dependency repository as repo:branch")
	syncCmd.Flags().StringArrayVar(&syncUsers, "user", nil, "User repository as repo:branch (repeatable)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show the WORKSPACE changes without committing or pushing")
	_ = syncCmd.MarkFlagRequired("dependency")
	_ = syncCmd.MarkFlagRequired("user")
}
