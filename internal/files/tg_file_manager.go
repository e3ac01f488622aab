package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"captionator/internal/bot"
)

type telegramFileManager struct {
	client      bot.Bot
	tempDir     string
	maxFileSize int64
	http        *http.Client
	logger      *slog.Logger
}

func NewTelegramFileManager(client bot.Bot, tempDir string, maxFileSize int64, logger *slog.Logger) (FileManager, error) {
	if tempDir == "" {
		tempDir = "temp"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &telegramFileManager{
		client:      client,
		tempDir:     tempDir,
		maxFileSize: maxFileSize,
		http:        http.DefaultClient,
		logger:      logger.With(slog.String("component", "downloads")),
	}, nil
}

func (fm *telegramFileManager) DownloadToTemp(ctx context.Context, fileID string) (string, func(), error) {
	tf, err := fm.client.GetFile(ctx, fileID)
	if err != nil {
		return "", nil, fmt.Errorf("GetFile error: %w", err)
	}
	if tf == nil || tf.FilePath == "" {
		return "", nil, fmt.Errorf("invalid file info from telegram for id %s", fileID)
	}
	if fm.maxFileSize > 0 && tf.FileSize > fm.maxFileSize {
		return "", nil, fmt.Errorf("file %s is %d bytes, limit is %d", fileID, tf.FileSize, fm.maxFileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fm.client.FileDownloadURL(tf.FilePath), nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := fm.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", nil, fmt.Errorf("download failed: status %s, body: %s", resp.Status, string(body))
	}

	// keep the original extension, importers look at it
	out, err := os.CreateTemp(fm.tempDir, "dl-*-"+filepath.Base(tf.FilePath))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create local file: %w", err)
	}
	localName := out.Name()

	var body io.Reader = resp.Body
	if fm.maxFileSize > 0 {
		body = io.LimitReader(resp.Body, fm.maxFileSize+1)
	}
	n, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && fm.maxFileSize > 0 && n > fm.maxFileSize {
		err = fmt.Errorf("file exceeds %d bytes", fm.maxFileSize)
	}
	if err != nil {
		_ = os.Remove(localName)
		return "", nil, fmt.Errorf("failed to save downloaded file: %w", err)
	}

	fm.logger.Debug("file downloaded", "file_id", fileID, "path", localName, "bytes", n)

	cleanup := func() {
		if err := os.Remove(localName); err != nil && !os.IsNotExist(err) {
			fm.logger.Warn("temp file cleanup failed", "path", localName, "err", err)
		}
	}
	return localName, cleanup, nil
}
