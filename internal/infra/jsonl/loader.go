package jsonl

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"kviz/internal/domain"
)

// FileLoader loads a question bank from a line-record file.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadBank(ctx context.Context, category string) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBankNotFound, err)
	}
	defer f.Close()

	questions, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return bankFor(questions, category)
}

// HTTPLoader fetches a line-record file over HTTP.
type HTTPLoader struct {
	url    string
	client *http.Client
}

func NewHTTPLoader(url string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{url: url, client: client}
}

func (l *HTTPLoader) LoadBank(ctx context.Context, category string) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", l.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrBankNotFound, l.url, resp.Status)
	}

	questions, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return bankFor(questions, category)
}

func bankFor(questions []domain.Question, category string) ([]domain.Question, error) {
	bank := domain.FilterCategory(questions, category)
	if len(bank) == 0 {
		return nil, domain.ErrBankEmpty
	}
	return bank, nil
}
