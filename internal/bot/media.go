package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/otomasikan/home72/internal/storage"
)

// maxDownloadBytes caps Telegram file downloads (20 MB, the Bot API limit).
const maxDownloadBytes = 20 * 1024 * 1024

// downloadFile fetches a file's bytes from Telegram.
func (b *Bot) downloadFile(ctx context.Context, tg TelegramAPI, fileID string) ([]byte, string, error) {
	file, err := tg.GetFile(ctx, &tgbot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file info: %w", err)
	}

	url := tg.FileDownloadLink(file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("file exceeds size limit of %d bytes", maxDownloadBytes)
	}

	return data, file.FilePath, nil
}

// relayLargestPhoto downloads the highest-resolution variant of a photo and
// uploads it to object storage, returning the public URL.
func (b *Bot) relayLargestPhoto(ctx context.Context, tg TelegramAPI, photos []tgmodels.PhotoSize, bucket string) (string, error) {
	if b.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	// Telegram orders PhotoSize entries smallest first.
	largest := photos[len(photos)-1]

	data, filePath, err := b.downloadFile(ctx, tg, largest.FileID)
	if err != nil {
		return "", err
	}

	url, err := b.store.Upload(ctx, bucket, storage.ExtFromPath(filePath), data, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return url, nil
}
