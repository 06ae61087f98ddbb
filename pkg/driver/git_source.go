package driver

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitRef addresses a script inside a git repository at a revision.
type GitRef struct {
	// Repo is a local path or a clone URL.
	Repo string
	// Revision accepts anything ResolveRevision does; empty means HEAD.
	Revision string
	// Path is slash-separated and relative to the repository root.
	Path string
}

func (r GitRef) String() string {
	rev := r.Revision
	if rev == "" {
		rev = "HEAD"
	}
	return fmt.Sprintf("%s@%s:%s", r.Repo, rev, r.Path)
}

// ParseGitRef splits "repo@revision:path" or "repo:path". The revision
// separator is the last '@' before the final ':' so scp-style URLs such as
// git@host:org/repo.git keep working when a revision is supplied.
func ParseGitRef(ref string) (GitRef, error) {
	ref = strings.TrimSpace(ref)
	colon := strings.LastIndex(ref, ":")
	if colon <= 0 || colon == len(ref)-1 {
		return GitRef{}, fmt.Errorf("git ref %q must look like repo[@revision]:path", ref)
	}
	repo, file := ref[:colon], ref[colon+1:]
	var rev string
	if at := strings.LastIndex(repo, "@"); at > 0 && !strings.Contains(repo[at:], "/") {
		repo, rev = repo[:at], repo[at+1:]
	}
	return GitRef{Repo: repo, Revision: rev, Path: file}, nil
}

func isRemoteRepo(repo string) bool {
	return strings.Contains(repo, "://") || strings.HasPrefix(repo, "git@")
}

func openRepository(ctx context.Context, repo string) (*git.Repository, error) {
	if isRemoteRepo(repo) {
		r, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{URL: repo})
		if err != nil {
			return nil, fmt.Errorf("git clone %s: %w", repo, err)
		}
		return r, nil
	}
	r, err := git.PlainOpenWithOptions(repo, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("git open %s: %w", repo, err)
	}
	return r, nil
}

// LoadGitSource reads a script from a committed tree. Local repositories are
// opened in place; remote ones are cloned into memory.
func LoadGitSource(ctx context.Context, ref GitRef) (Source, error) {
	if ref.Path == "" {
		return Source{}, fmt.Errorf("git source: empty path")
	}
	repo, err := openRepository(ctx, ref.Repo)
	if err != nil {
		return Source{}, err
	}
	revision := ref.Revision
	if revision == "" {
		revision = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return Source{}, fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return Source{}, fmt.Errorf("git commit %s: %w", hash, err)
	}
	file, err := commit.File(path.Clean(strings.TrimPrefix(ref.Path, "/")))
	if err != nil {
		return Source{}, fmt.Errorf("git file %s at %s: %w", ref.Path, hash.String()[:7], err)
	}
	text, err := file.Contents()
	if err != nil {
		return Source{}, fmt.Errorf("git read %s: %w", ref.Path, err)
	}
	name := fmt.Sprintf("%s@%s:%s", ref.Repo, hash.String()[:7], ref.Path)
	return newSource(name, []byte(text))
}
