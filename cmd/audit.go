package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CosmoTheDev/rekt-terminal/internal/config"
	"github.com/CosmoTheDev/rekt-terminal/internal/history"
	"github.com/CosmoTheDev/rekt-terminal/internal/repository"
	"github.com/CosmoTheDev/rekt-terminal/internal/scanner"
	"github.com/spf13/cobra"
)

var (
	auditRepoURL   string
	auditBranch    string
	auditToken     string
	auditOutputFmt string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Clone a repository and scan every contract in it",
	Long: `Shallow-clones a git repository into a temporary directory, scans every
contract source (.sol, .vy) in it and stores the reports in the scan history.

Examples:
  rekt audit --repo https://github.com/example/protocol
  rekt audit --repo https://github.com/example/protocol --branch develop --output json`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditRepoURL, "repo", "", "Repository URL to audit (required)")
	auditCmd.Flags().StringVar(&auditBranch, "branch", "", "Branch to audit (default: repo default branch)")
	auditCmd.Flags().StringVar(&auditToken, "token", "", "Access token for private HTTPS repositories")
	auditCmd.Flags().StringVar(&auditOutputFmt, "output", outputTable, "Output format: table|json|yaml")
	_ = auditCmd.MarkFlagRequired("repo")
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if err := validateOutput(auditOutputFmt); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	owner, name := repository.ParseOwnerRepo(auditRepoURL)
	slog.Info("Starting audit", "repo", auditRepoURL, "branch", auditBranch)
	if auditOutputFmt == outputTable {
		fmt.Printf("Auditing %s/%s\n", owner, name)
	}

	checkout, err := repository.Clone(ctx, auditRepoURL, repository.CloneOptions{
		Branch:  auditBranch,
		Token:   auditToken,
		Shallow: true,
	})
	if err != nil {
		return fmt.Errorf("cloning repository: %w", err)
	}
	defer checkout.Cleanup()

	slog.Info("Repository cloned",
		"path", checkout.Path,
		"commit", checkout.Commit,
		"branch", checkout.Branch,
	)
	if auditOutputFmt == outputTable {
		fmt.Printf("Cloned %s (commit: %s)\n\n", checkout.Branch, shortCommit(checkout.Commit))
	}

	sc := scanner.New(scanner.OptionsFromConfig(cfg.Scanner))
	reports, err := sc.ScanTree(ctx, checkout.Path)
	if err != nil {
		return fmt.Errorf("running scans: %w", err)
	}
	if len(reports) == 0 {
		fmt.Println(warnStyle.Render("No contract sources found."))
		return nil
	}

	if err := recordReports(ctx, cfg, reports, history.SourceAudit); err != nil {
		return err
	}
	return printReports(reports, auditOutputFmt)
}

func shortCommit(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
