// Package repository clones git repositories for contract audits.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// CloneOptions tunes a clone. The zero value clones the default branch in full.
type CloneOptions struct {
	Branch string
	// Token authenticates HTTPS clones of private repositories.
	Token string
	// Shallow fetches only the tip commit.
	Shallow bool
}

// Checkout is a cloned working tree in a temporary directory.
type Checkout struct {
	Path   string
	Owner  string
	Name   string
	Branch string
	Commit string
}

// Clone clones repoURL into a fresh temporary directory. The caller must
// call Cleanup when done with the checkout.
func Clone(ctx context.Context, repoURL string, opts CloneOptions) (*Checkout, error) {
	tmpDir, err := os.MkdirTemp("", "rekt-audit-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	cloneOpts := &gogit.CloneOptions{URL: repoURL}
	if opts.Shallow {
		cloneOpts.Depth = 1
	}
	if opts.Token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{Username: "rekt", Password: opts.Token}
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	slog.Debug("repository: cloning", "url", repoURL, "branch", opts.Branch, "shallow", opts.Shallow, "dest", tmpDir)

	repo, err := gogit.PlainCloneContext(ctx, tmpDir, false, cloneOpts)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("cloning %s: %w", repoURL, err)
	}

	head, err := repo.Head()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	branch := head.Name().Short()
	if branch == "" {
		branch = opts.Branch
	}
	owner, name := ParseOwnerRepo(repoURL)
	return &Checkout{
		Path:   tmpDir,
		Owner:  owner,
		Name:   name,
		Branch: branch,
		Commit: head.Hash().String(),
	}, nil
}

// Cleanup removes the checkout directory.
func (c *Checkout) Cleanup() {
	if c == nil || c.Path == "" {
		return
	}
	if err := os.RemoveAll(c.Path); err != nil {
		slog.Warn("repository: failed to clean up checkout", "path", c.Path, "error", err)
	}
}

// ParseOwnerRepo extracts owner and repository name from a git URL.
// Supports HTTPS (https://github.com/owner/repo.git) and SSH
// (git@github.com:owner/repo.git). Anything else yields ("", last path element).
func ParseOwnerRepo(repoURL string) (owner, repo string) {
	u := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")

	if strings.Contains(u, "://") {
		parts := strings.Split(u, "/")
		if len(parts) >= 4 {
			return parts[len(parts)-2], parts[len(parts)-1]
		}
	}

	if at := strings.Index(u, "@"); at != -1 {
		if idx := strings.Index(u[at:], ":"); idx != -1 {
			parts := strings.SplitN(u[at+idx+1:], "/", 2)
			if len(parts) == 2 {
				return parts[0], parts[1]
			}
		}
	}

	parts := strings.Split(u, "/")
	return "", parts[len(parts)-1]
}
