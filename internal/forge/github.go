package forge

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

// DefaultGitHubAPIURL is the public GitHub REST API base.
const DefaultGitHubAPIURL = "https://api.github.com"

// ContentEntry is one item of a repository contents response.
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"` // file, dir, symlink, submodule
	Size        int64  `json:"size"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
	Content     string `json:"content,omitempty"`
}

// IsFile reports whether the entry is a regular file.
func (e ContentEntry) IsFile() bool { return e.Type == "file" }

// ContentsClient reads repository contents through the GitHub-compatible contents API.
type ContentsClient interface {
	ListContents(ctx context.Context, owner, repo, dir, ref string) ([]ContentEntry, error)
	GetFile(ctx context.Context, owner, repo, filePath, ref string) ([]byte, error)
}

// GitHubClient implements ContentsClient for GitHub and compatible APIs.
type GitHubClient struct {
	*BaseForge
}

// GitHubOptions configures a GitHubClient.
type GitHubOptions struct {
	APIURL     string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewGitHubClient creates a contents API client. An empty token means anonymous access.
func NewGitHubClient(opts GitHubOptions) *GitHubClient {
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	base := NewBaseForge(httpClient, apiURL, opts.Token)
	base.SetCustomHeader("Accept", "application/vnd.github+json")
	base.SetCustomHeader("X-GitHub-Api-Version", "2022-11-28")
	return &GitHubClient{BaseForge: base}
}

func contentsEndpoint(owner, repo, p, ref string) string {
	segments := []string{"repos", owner, repo, "contents"}
	for _, s := range strings.Split(strings.Trim(path.Clean("/"+p), "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	endpoint := strings.Join(segments, "/")
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}
	return endpoint
}

// ListContents lists a directory. When dir names a single file, the result
// holds that one entry.
func (c *GitHubClient) ListContents(ctx context.Context, owner, repo, dir, ref string) ([]ContentEntry, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, contentsEndpoint(owner, repo, dir, ref))
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.DoRequest(req, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single ContentEntry
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, errors.NewError(errors.CategoryRemote, "failed to decode contents entry").WithCause(err).Build()
		}
		return []ContentEntry{single}, nil
	}

	var entries []ContentEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, errors.NewError(errors.CategoryRemote, "failed to decode contents listing").WithCause(err).Build()
	}
	return entries, nil
}

// GetFile fetches one file and decodes its base64 envelope.
func (c *GitHubClient) GetFile(ctx context.Context, owner, repo, filePath, ref string) ([]byte, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, contentsEndpoint(owner, repo, filePath, ref))
	if err != nil {
		return nil, err
	}

	var entry ContentEntry
	if err := c.DoRequest(req, &entry); err != nil {
		return nil, err
	}
	if !entry.IsFile() {
		return nil, ErrNotAFile.WithContext("path", filePath).WithContext("type", entry.Type)
	}
	return DecodeContent(entry)
}

// DecodeContent decodes the content field of a file entry. GitHub wraps the
// base64 payload at 60 columns, so whitespace is removed before decoding.
func DecodeContent(entry ContentEntry) ([]byte, error) {
	switch strings.ToLower(entry.Encoding) {
	case "base64":
		clean := strings.Map(func(r rune) rune {
			switch r {
			case '\n', '\r', ' ', '\t':
				return -1
			}
			return r
		}, entry.Content)
		data, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return nil, errors.NewError(errors.CategoryRemote, "failed to decode base64 content").
				WithCause(err).
				WithContext("path", entry.Path).
				Build()
		}
		return data, nil
	case "", "utf-8", "none":
		return []byte(entry.Content), nil
	default:
		return nil, ErrUnsupportedEncoding.WithContext("encoding", entry.Encoding).WithContext("path", entry.Path)
	}
}
