package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/folioengine/folio/internal/config"
	"github.com/folioengine/folio/internal/handlers"
	"github.com/folioengine/folio/internal/logger"
	"github.com/folioengine/folio/internal/version"
)

type cliOptions struct {
	configPath  string
	username    string
	password    string
	jwtToken    string
	apiBaseURL  string
	timeout     time.Duration
	showVersion bool
}

const usage = `Usage: foliocli [flags] <command> [args]

Commands:
  upload <file>...                store media files
  render <category> <input> [arg]...  run one media filter
  markdown                        convert markdown from stdin to HTML
  publish <slug>                  publish markdown from stdin as a page
`

func main() {
	opts := parseFlags()
	if opts.showVersion {
		fmt.Printf("Folio CLI %s\n", version.GetInfo())
		return
	}
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx := context.Background()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if strings.TrimSpace(opts.apiBaseURL) == "" {
		opts.apiBaseURL = defaultAPIBaseURL(cfg.Server.Addr)
	}
	opts.apiBaseURL = normalizeBaseURL(opts.apiBaseURL)

	client := &http.Client{Timeout: opts.timeout}
	token := strings.TrimSpace(opts.jwtToken)
	if token == "" {
		username, password, err := resolveLoginCredentials(opts, cfg)
		if err != nil {
			logger.Error("resolve login", slog.Any("error", err))
			os.Exit(1)
		}
		token, err = loginForToken(ctx, client, opts.apiBaseURL, username, password)
		if err != nil {
			logger.Error("login", slog.Any("error", err))
			os.Exit(1)
		}
	}

	switch args[0] {
	case "upload":
		err = runUpload(ctx, client, opts.apiBaseURL, token, args[1:])
	case "render":
		err = runRender(ctx, client, opts.apiBaseURL, token, args[1:])
	case "markdown":
		err = runMarkdown(ctx, client, opts.apiBaseURL, token, os.Stdin)
	case "publish":
		err = runPublish(ctx, client, opts.apiBaseURL, token, args[1:], os.Stdin)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(args[0]+" failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	defaultConfig := os.Getenv("CONFIG_PATH")
	if strings.TrimSpace(defaultConfig) == "" {
		defaultConfig = config.DefaultConfigPath
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config.toml")
	flag.StringVar(&opts.username, "username", "", "Username for login")
	flag.StringVar(&opts.password, "password", "", "Password for login (or set FOLIO_PASSWORD)")
	flag.StringVar(&opts.jwtToken, "jwt", "", "JWT token (optional)")
	flag.StringVar(&opts.apiBaseURL, "api-url", "", "API server base URL (e.g. http://127.0.0.1:8080)")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.Parse()

	return opts
}

func normalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

func defaultAPIBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "http://127.0.0.1:8080"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return normalizeBaseURL(trimmed)
	}
	if strings.HasPrefix(trimmed, ":") {
		return "http://127.0.0.1" + trimmed
	}
	return "http://" + trimmed
}

func resolveLoginCredentials(opts cliOptions, cfg config.Config) (string, string, error) {
	username := strings.TrimSpace(opts.username)
	if username == "" {
		username = strings.TrimSpace(cfg.Admin.Username)
	}
	if username == "" {
		return "", "", fmt.Errorf("username is required for login")
	}

	password := strings.TrimSpace(opts.password)
	if password == "" {
		password = strings.TrimSpace(os.Getenv("FOLIO_PASSWORD"))
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required; pass --password or set FOLIO_PASSWORD")
	}
	return username, password, nil
}

func loginForToken(ctx context.Context, client *http.Client, baseURL, username, password string) (string, error) {
	body, err := json.Marshal(handlers.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login failed: %s", strings.TrimSpace(string(payload)))
	}

	var parsed handlers.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return "", fmt.Errorf("login succeeded but token missing")
	}
	return parsed.AccessToken, nil
}

func runUpload(ctx context.Context, client *http.Client, baseURL, token string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("upload needs at least one file")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		part, err := writer.CreateFormFile("files", filepath.Base(p))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/media", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var parsed handlers.UploadResponse
	if err := doJSON(client, req, &parsed); err != nil {
		return err
	}
	for _, stored := range parsed.Stored {
		fmt.Printf("stored   %s\n", stored.Filename)
	}
	for _, rejected := range parsed.Rejected {
		fmt.Printf("rejected %s: %s\n", rejected.Name, rejected.Reason)
	}
	return nil
}

func runRender(ctx context.Context, client *http.Client, baseURL, token string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("render needs <category> <input>")
	}
	body, err := json.Marshal(handlers.RenderRequest{
		Category: args[0],
		Input:    args[1],
		Args:     args[2:],
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var parsed handlers.RenderResponse
	if err := doJSON(client, req, &parsed); err != nil {
		return err
	}
	fmt.Println(parsed.Output)
	return nil
}

func runMarkdown(ctx context.Context, client *http.Client, baseURL, token string, source io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/render/markdown", source)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/markdown")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api server error: %s", strings.TrimSpace(string(payload)))
	}
	_, err = io.Copy(os.Stdout, resp.Body)
	return err
}

func runPublish(ctx context.Context, client *http.Client, baseURL, token string, args []string, source io.Reader) error {
	if len(args) != 1 {
		return fmt.Errorf("publish needs <slug>")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/pages/"+args[0]+"/publish", source)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/markdown")
	req.Header.Set("Authorization", "Bearer "+token)

	var parsed map[string]string
	if err := doJSON(client, req, &parsed); err != nil {
		return err
	}
	fmt.Printf("published %s\n", parsed["slug"])
	return nil
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api server error: %s", strings.TrimSpace(string(payload)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
