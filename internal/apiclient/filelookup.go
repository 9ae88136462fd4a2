package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"apucli/pkg/contracts/domain"
)

// FileLookup serves chapters, users and beneficiary data from local JSON
// files instead of the remote endpoints. Any path left empty makes the
// corresponding call fail, mirroring a missing endpoint.
type FileLookup struct {
	ChaptersPath    string
	UsersPath       string
	BeneficiaryPath string
}

// Chapters reads and decodes the chapters file.
func (f *FileLookup) Chapters(ctx context.Context) ([]domain.Chapter, error) {
	body, err := readLookupFile(f.ChaptersPath, "chapters")
	if err != nil {
		return nil, err
	}
	return DecodeChapters(body)
}

// Users reads and decodes the users file.
func (f *FileLookup) Users(ctx context.Context) ([]domain.User, error) {
	body, err := readLookupFile(f.UsersPath, "users")
	if err != nil {
		return nil, err
	}
	return DecodeUsers(body)
}

// Beneficiary returns the beneficiary object from the configured file. The
// file holds a single object shared by every lookup, so userID is ignored.
func (f *FileLookup) Beneficiary(ctx context.Context, userID any) (map[string]any, error) {
	body, err := readLookupFile(f.BeneficiaryPath, "beneficiary")
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode beneficiary file: %w", err)
	}
	return out, nil
}

func readLookupFile(path, kind string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no %s file configured", kind)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return body, nil
}
