package identity

import (
	"context"
	"os"
	"strings"

	"github.com/ternarybob/callwatch/internal/models"
)

const phonebookLabel = "電話帳"

// PhonebookStrategy resolves numbers against a local TSV directory
// (name <TAB> number, one entry per line). A missing file contributes
// nothing; the file is re-read on every lookup so edits take effect
// without a restart.
type PhonebookStrategy struct {
	path string
}

func NewPhonebookStrategy(path string) *PhonebookStrategy {
	return &PhonebookStrategy{path: path}
}

func (s *PhonebookStrategy) Name() string {
	return phonebookLabel
}

func (s *PhonebookStrategy) Search(_ context.Context, number string) (*models.Identity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\r", "")
	for _, line := range strings.Split(text, "\n") {
		name, entryNumber, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		if entryNumber == number {
			return &models.Identity{
				Kind:   models.IdentityName,
				Name:   name,
				Source: phonebookLabel,
			}, nil
		}
	}

	return nil, nil
}
