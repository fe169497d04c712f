package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/jpicklyk/knox-core/pkg/config"
	"github.com/jpicklyk/knox-core/pkg/policy/grouping"
)

// GitSource loads grouping configuration from a file inside a git
// repository. Load ensures a local clone, pulls the configured branch and
// parses the file at the configured path; Watch polls the remote and emits
// an Event whenever HEAD moves.
type GitSource struct {
	cfg    *config.GitGroupingConfig
	auth   transport.AuthMethod
	dir    string
	logger *slog.Logger

	mu   sync.Mutex
	repo *gogit.Repository
}

// NewGitSource creates a git-backed grouping source. The configuration
// must name a repository; branch, path, poll interval and depth are
// expected to carry their defaults already (see config.ApplyDefaults).
// A nil logger falls back to slog.Default.
func NewGitSource(cfg *config.GitGroupingConfig, logger *slog.Logger) (*GitSource, error) {
	if cfg == nil {
		return nil, errors.New("git grouping config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, errors.New("git grouping repository cannot be empty")
	}
	auth, err := authMethod(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to configure git auth: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dir := cfg.CloneDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "knox-grouping")
	}

	return &GitSource{
		cfg:    cfg,
		auth:   auth,
		dir:    dir,
		logger: logger,
	}, nil
}

// Load ensures the local clone is current and parses the grouping file.
func (s *GitSource) Load(ctx context.Context) (*grouping.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRepo(ctx); err != nil {
		return nil, err
	}
	if _, err := s.pull(ctx); err != nil {
		return nil, err
	}
	return s.parseFile()
}

// Watch polls the remote at the configured interval and emits an Event per
// HEAD change: the reloaded configuration on success, the error on failure.
// The channel closes when ctx ends.
func (s *GitSource) Watch(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	err := s.ensureRepo(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	interval := s.cfg.PollInterval
	if interval <= 0 {
		interval = config.DefaultGroupingGitPoll
	}

	s.logger.Info("grouping git watcher started",
		slog.String("repository", s.cfg.Repository),
		slog.String("branch", s.cfg.Branch),
		slog.Duration("poll_interval", interval),
	)

	events := make(chan Event, 1)
	go s.pollLoop(ctx, interval, events)
	return events, nil
}

func (s *GitSource) pollLoop(ctx context.Context, interval time.Duration, events chan<- Event) {
	defer close(events)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("grouping git watcher stopped")
			return
		case <-ticker.C:
			s.poll(ctx, events)
		}
	}
}

func (s *GitSource) poll(ctx context.Context, events chan<- Event) {
	s.mu.Lock()
	changed, err := s.pull(ctx)
	var cfg *grouping.Config
	if err == nil && changed {
		cfg, err = s.parseFile()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("grouping git poll failed, keeping last good configuration",
			slog.String("repository", s.cfg.Repository),
			slog.String("error", err.Error()),
		)
		sendEvent(ctx, events, Event{Err: err})
		return
	}
	if !changed {
		return
	}

	s.logger.Info("grouping configuration updated from git",
		slog.String("repository", s.cfg.Repository),
		slog.Int("groups", len(cfg.Groups)),
	)
	sendEvent(ctx, events, Event{Config: cfg})
}

// ensureRepo opens the existing clone or creates a fresh one. Callers hold
// s.mu.
func (s *GitSource) ensureRepo(ctx context.Context) error {
	if s.repo != nil {
		return nil
	}

	if _, err := os.Stat(filepath.Join(s.dir, ".git")); err == nil {
		repo, err := gogit.PlainOpen(s.dir)
		if err != nil {
			return fmt.Errorf("failed to open existing clone %q: %w", s.dir, err)
		}
		s.repo = repo
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create clone directory %q: %w", s.dir, err)
	}

	repo, err := gogit.PlainCloneContext(ctx, s.dir, false, &gogit.CloneOptions{
		URL:           s.cfg.Repository,
		ReferenceName: plumbing.NewBranchReferenceName(s.cfg.Branch),
		SingleBranch:  s.cfg.Depth > 0,
		Depth:         s.cfg.Depth,
		Auth:          s.auth,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %q: %w", s.cfg.Repository, err)
	}

	s.logger.Info("grouping repository cloned",
		slog.String("repository", s.cfg.Repository),
		slog.String("dir", s.dir),
	)
	s.repo = repo
	return nil
}

// pull fetches the configured branch and reports whether HEAD moved.
// Callers hold s.mu.
func (s *GitSource) pull(ctx context.Context) (bool, error) {
	head, err := s.repo.Head()
	if err != nil {
		return false, fmt.Errorf("failed to read HEAD: %w", err)
	}
	before := head.Hash()

	worktree, err := s.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(s.cfg.Branch),
		SingleBranch:  true,
		Auth:          s.auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return false, fmt.Errorf("failed to pull: %w", err)
	}

	head, err = s.repo.Head()
	if err != nil {
		return false, fmt.Errorf("failed to read HEAD after pull: %w", err)
	}
	return head.Hash() != before, nil
}

// parseFile reads the grouping file from the working tree. Callers hold
// s.mu.
func (s *GitSource) parseFile() (*grouping.Config, error) {
	path := filepath.Join(s.dir, s.cfg.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grouping file %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load grouping file %q: %w", path, err)
	}
	return cfg, nil
}

// authMethod translates the configured auth into a go-git transport method.
// Type "none" (or empty) yields nil auth for public repositories.
func authMethod(cfg *config.GitAuthConfig) (transport.AuthMethod, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "token":
		if cfg.Token == "" {
			return nil, errors.New("token auth requires a token")
		}
		// The username is ignored by token-accepting remotes.
		return &githttp.BasicAuth{Username: "git", Password: cfg.Token}, nil
	case "basic":
		if cfg.Username == "" {
			return nil, errors.New("basic auth requires a username")
		}
		return &githttp.BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}
