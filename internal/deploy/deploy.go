// Package deploy publishes a generated site to a git branch.
//
// The site root is mirrored into `<parent>/.<basename>`, committed there and
// force-pushed to the `[deploy] repository` under the remote name "github".
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/sitegen/internal/config"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/retry"
	"git.home.luguber.info/inful/sitegen/internal/workspace"
)

const (
	// RemoteName is the remote the mirror pushes to.
	RemoteName = "github"
	// TokenEnv holds an optional HTTP token for the push.
	TokenEnv = config.EnvDeployToken

	// Optional [deploy] keys tuning push retries.
	KeyPushRetries = "push_retries"
	KeyPushBackoff = "push_backoff"
	KeyPushDelay   = "push_delay"

	defaultAuthorName  = "sitegen"
	defaultAuthorEmail = "sitegen@localhost"
)

// Deployer publishes one site root.
type Deployer struct {
	cfg    config.Config
	root   string
	policy retry.Policy
	auth   transport.AuthMethod
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithPolicy sets the push retry policy.
func WithPolicy(p retry.Policy) Option {
	return func(d *Deployer) { d.policy = p }
}

// WithToken authenticates the push with an HTTP token. An empty token
// disables authentication.
func WithToken(token string) Option {
	return func(d *Deployer) {
		if token == "" {
			d.auth = nil
			return
		}
		// Most git hosting services accept "token" as the username for token auth.
		d.auth = &http.BasicAuth{Username: "token", Password: token}
	}
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Deployer) { d.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Deployer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns a deployer for the site at root. The token in TokenEnv is
// used when set.
func New(cfg config.Config, root string, opts ...Option) *Deployer {
	d := &Deployer{
		cfg:    cfg,
		root:   root,
		policy: policyFromConfig(cfg),
		now:    time.Now,
		logger: slog.Default(),
	}
	WithToken(os.Getenv(TokenEnv))(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deploy mirrors, commits and pushes the site. It returns status messages
// in order.
func (d *Deployer) Deploy(ctx context.Context) ([]string, error) {
	repoURL := d.cfg.Get(config.SectionDeploy, config.KeyRepository)
	if repoURL == "" {
		return nil, derrors.DeployError("config", ErrNoRepository)
	}
	if err := d.policy.Validate(); err != nil {
		return nil, derrors.DeployError("config", fmt.Errorf("push retry policy: %w", err))
	}
	branch := d.cfg.Get(config.SectionDeploy, config.KeyBranch)
	if branch == "" {
		branch = config.DefaultBranch
	}
	log := d.logger.With(slog.String("branch", branch), logfields.URL(repoURL))

	var messages []string
	ws := workspace.NewManager(d.root)
	created, err := ws.Create()
	if err != nil {
		return messages, derrors.DeployError("mirror", err)
	}
	if created {
		messages = append(messages, fmt.Sprintf("Deploy directory %s created", ws.GetPath()))
	}
	if err := ws.Clear(); err != nil {
		return messages, derrors.DeployError("mirror", err)
	}
	n, err := ws.Sync(config.SourceDirName)
	if err != nil {
		return messages, derrors.DeployError("mirror", err)
	}
	messages = append(messages, fmt.Sprintf("Copied %d files to %s", n, ws.GetPath()))

	repo, fresh, err := openOrInit(ws.GetPath(), branch)
	if err != nil {
		return messages, derrors.DeployError("init", err)
	}
	if err := checkoutBranch(repo, branch); err != nil {
		return messages, derrors.DeployError("branch", err)
	}

	verb := "Update"
	if fresh {
		verb = "Create"
	}
	hash, err := d.commit(repo, fmt.Sprintf("%s %s via sitegen", verb, branch))
	switch {
	case errors.Is(err, git.ErrEmptyCommit):
		messages = append(messages, "Nothing to commit")
	case err != nil:
		return messages, derrors.DeployError("commit", err)
	default:
		messages = append(messages, fmt.Sprintf("Committed %s", hash.String()[:7]))
		log.Info("Deploy commit created", slog.String("commit", hash.String()))
	}

	if err := ensureRemote(repo, repoURL); err != nil {
		return messages, derrors.DeployError("remote", err)
	}
	if err := d.push(ctx, repo, repoURL, branch); err != nil {
		return messages, derrors.PushError(RemoteName, err)
	}
	messages = append(messages, fmt.Sprintf("Pushed %s to %s", branch, repoURL))
	log.Info("Site deployed")
	return messages, nil
}

// policyFromConfig reads push_retries, push_backoff and push_delay from the
// [deploy] section. Missing or unparsable values keep the defaults.
func policyFromConfig(cfg config.Config) retry.Policy {
	retries := -1
	if v, ok := cfg.Lookup(config.SectionDeploy, KeyPushRetries); ok {
		if n, err := strconv.Atoi(v); err == nil {
			retries = n
		}
	}
	var delay time.Duration
	if v, ok := cfg.Lookup(config.SectionDeploy, KeyPushDelay); ok {
		if dur, err := time.ParseDuration(v); err == nil {
			delay = dur
		}
	}
	mode := retry.BackoffMode(cfg.Get(config.SectionDeploy, KeyPushBackoff))
	return retry.NewPolicy(mode, delay, 0, retries)
}

// openOrInit opens the mirror repository or initialises it on branch.
func openOrInit(dir, branch string) (repo *git.Repository, fresh bool, err error) {
	if _, statErr := os.Stat(filepath.Join(dir, workspace.GitDirName)); statErr == nil {
		repo, err = git.PlainOpen(dir)
		return repo, false, err
	}
	repo, err = git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	return repo, true, err
}

// checkoutBranch points HEAD at branch without touching the worktree, the
// equivalent of `git branch -M`.
func checkoutBranch(repo *git.Repository, branch string) error {
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	return repo.Storer.SetReference(ref)
}

func (d *Deployer) commit(repo *git.Repository, msg string) (plumbing.Hash, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("add: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("status: %w", err)
	}
	for path, st := range status {
		if st.Worktree == git.Deleted {
			if _, err := wt.Remove(path); err != nil {
				return plumbing.ZeroHash, fmt.Errorf("remove %s: %w", path, err)
			}
		}
	}
	name := d.cfg.Get(config.SectionAuthor, config.KeyName)
	if name == "" {
		name = defaultAuthorName
	}
	email := d.cfg.Get(config.SectionAuthor, "email")
	if email == "" {
		email = defaultAuthorEmail
	}
	return wt.Commit(msg, &git.CommitOptions{
		Author:            &object.Signature{Name: name, Email: email, When: d.now()},
		AllowEmptyCommits: false,
	})
}

// ensureRemote creates the remote or repoints it at url.
func ensureRemote(repo *git.Repository, url string) error {
	remote, err := repo.Remote(RemoteName)
	if err == nil {
		if urls := remote.Config().URLs; len(urls) == 1 && urls[0] == url {
			return nil
		}
		if err := repo.DeleteRemote(RemoteName); err != nil {
			return err
		}
	} else if !errors.Is(err, git.ErrRemoteNotFound) {
		return err
	}
	_, err = repo.CreateRemote(&gitcfg.RemoteConfig{Name: RemoteName, URLs: []string{url}})
	return err
}

func (d *Deployer) push(ctx context.Context, repo *git.Repository, url, branch string) error {
	ref := plumbing.NewBranchReferenceName(branch)
	spec := gitcfg.RefSpec(fmt.Sprintf("+%s:%s", ref, ref))
	attempt := 0
	return d.policy.Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			d.logger.Warn("Retrying push", slog.Int("attempt", attempt), logfields.URL(url))
		}
		err := repo.PushContext(ctx, &git.PushOptions{
			RemoteName: RemoteName,
			RefSpecs:   []gitcfg.RefSpec{spec},
			Auth:       d.auth,
			Force:      true,
		})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return classifyPushError(url, err)
	}, isRetryable)
}
