package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Adapter implements domain.GitInfo using go-git. Batch results are stamped
// with the commit hash of the validated tree so a report can be tied back to
// the exact catalog state it judged.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) IsGitRepo(projectPath string) bool {
	_, err := git.PlainOpen(projectPath)
	return err == nil
}

func (a *Adapter) CommitHash(projectPath string) (string, error) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}
