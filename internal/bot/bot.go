package bot

import (
	"context"

	"github.com/mymmrac/telego"
)

// File is the metadata of a file stored on the chat server.
type File struct {
	FileID   string
	FilePath string
	FileSize int64
}

type Bot interface {
	Start(ctx context.Context, handler func(context.Context, telego.Update)) error

	SendText(ctx context.Context, chatID int64, text string) error
	// SendMenu sends text with a persistent reply keyboard built from rows of button labels.
	SendMenu(ctx context.Context, chatID int64, text string, rows [][]string) error
	SendPhoto(ctx context.Context, chatID int64, name string, data []byte, caption string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	// SendImageAuto sends data as a photo when it fits the photo size limit, else as a document.
	SendImageAuto(ctx context.Context, chatID int64, name string, data []byte, caption string) error

	GetFile(ctx context.Context, fileID string) (*File, error)
	FileDownloadURL(filePath string) string
}
