package github

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	gh "github.com/google/go-github/v69/github"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ArchiveAcquirer fetches repository contents by downloading the tarball
// archive through the GitHub API and extracting it into the target path.
// The network steps retry on transient failures; extraction goes through a
// uniquely named staging directory so a failed acquisition never leaves a
// half-written local path behind.
type ArchiveAcquirer struct {
	client      *gh.Client
	httpClient  *http.Client
	retryConfig retry.Config
	logger      *slog.Logger
}

// NewArchiveAcquirer creates an acquirer. An empty token means
// unauthenticated API access.
func NewArchiveAcquirer(token string, logger *slog.Logger) *ArchiveAcquirer {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := http.DefaultClient
	if token != "" {
		httpClient = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	return &ArchiveAcquirer{
		client:     gh.NewClient(httpClient),
		httpClient: httpClient,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  200 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		logger: logger,
	}
}

// Acquire downloads the repository archive for rawURL and extracts it into
// localPath. An already-existing localPath is a path conflict and fails the
// acquisition.
func (a *ArchiveAcquirer) Acquire(ctx context.Context, rawURL, localPath string) error {
	owner, repo, err := SplitOwnerRepo(rawURL)
	if err != nil {
		return err
	}

	if _, err := os.Stat(localPath); err == nil {
		return fmt.Errorf("local path already exists: %s", localPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access local path %s: %w", localPath, err)
	}

	archiveURL, err := a.archiveLink(ctx, owner, repo)
	if err != nil {
		return err
	}
	a.logger.Debug("resolved archive link", "owner", owner, "repo", repo, "url", archiveURL.String())

	tarball, err := a.download(ctx, archiveURL)
	if err != nil {
		return err
	}
	defer func() {
		tarball.Close()
		os.Remove(tarball.Name())
	}()

	return a.extract(tarball, localPath)
}

// archiveLink asks the GitHub API for the tarball location of the
// repository's default branch.
func (a *ArchiveAcquirer) archiveLink(ctx context.Context, owner, repo string) (*url.URL, error) {
	retryer := retry.New[*url.URL](a.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) (*url.URL, error) {
		link, _, err := a.client.Repositories.GetArchiveLink(ctx, owner, repo, gh.Tarball, nil, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve archive link for %s/%s: %w", owner, repo, err)
		}
		return link, nil
	})
}

// download streams the archive into a temporary file and returns it with
// the read offset rewound to the start.
func (a *ArchiveAcquirer) download(ctx context.Context, archiveURL *url.URL) (*os.File, error) {
	retryer := retry.New[*os.File](a.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) (*os.File, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build archive request: %w", err)
		}

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download archive: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download archive: unexpected status %s", resp.Status)
		}

		tmp, err := os.CreateTemp("", "reckless-archive-*.tar.gz")
		if err != nil {
			return nil, fmt.Errorf("failed to create archive file: %w", err)
		}

		if _, err := io.Copy(tmp, resp.Body); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("failed to write archive file: %w", err)
		}
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, fmt.Errorf("failed to rewind archive file: %w", err)
		}
		return tmp, nil
	})
}

// extract unpacks a gzip tarball into a staging directory next to the
// target, then renames the archive's single top-level directory onto
// localPath.
func (a *ArchiveAcquirer) extract(tarball io.Reader, localPath string) error {
	parent := filepath.Dir(localPath)
	if err := os.MkdirAll(parent, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", parent, err)
	}

	staging := filepath.Join(parent, ".reckless-staging-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0700); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := untar(tarball, staging); err != nil {
		return err
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return fmt.Errorf("failed to read staging directory: %w", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return fmt.Errorf("unexpected archive layout: want a single top-level directory, got %d entries", len(entries))
	}

	if err := os.Rename(filepath.Join(staging, entries[0].Name()), localPath); err != nil {
		return fmt.Errorf("failed to move repository into place: %w", err)
	}
	return nil
}

// untar unpacks a gzip-compressed tar stream into dest, rejecting entries
// that would escape it.
func untar(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		target := filepath.Join(dest, filepath.Clean(hdr.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0700); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
			}
			// #nosec G304 -- target is validated against dest above
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0777)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil { // #nosec G110
				f.Close()
				return fmt.Errorf("failed to extract %s: %w", target, err)
			}
			f.Close()
		default:
			// Symlinks and other entry types are skipped; plugin sources do
			// not need them and following links from an archive is unsafe.
		}
	}
}

// SplitOwnerRepo extracts the owner and repository name from a GitHub URL
// such as https://github.com/owner/repo or git@github.com:owner/repo.git.
func SplitOwnerRepo(rawURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(rawURL, ".git")

	if strings.HasPrefix(trimmed, "git@") {
		_, after, ok := strings.Cut(trimmed, ":")
		if !ok {
			return "", "", fmt.Errorf("invalid repository url: %s", rawURL)
		}
		trimmed = after
	} else {
		u, perr := url.Parse(trimmed)
		if perr != nil {
			return "", "", fmt.Errorf("invalid repository url %s: %w", rawURL, perr)
		}
		trimmed = strings.TrimPrefix(u.Path, "/")
	}

	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository url: %s", rawURL)
	}
	return parts[0], parts[1], nil
}
