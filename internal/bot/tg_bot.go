package bot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

type TelegramBot struct {
	client      *telego.Bot
	logger      *slog.Logger
	maxFileSize int64
}

func NewTelegramBot(token string, logger *slog.Logger, maxFileSize int64) (*TelegramBot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telego bot: %w", err)
	}

	return &TelegramBot{
		client:      b,
		logger:      logger.With(slog.String("component", "bot")),
		maxFileSize: maxFileSize,
	}, nil
}

// Start long-polls for updates and runs handler for each one in its own
// goroutine until ctx is cancelled.
func (tb *TelegramBot) Start(ctx context.Context, handler func(context.Context, telego.Update)) error {
	updates, err := tb.client.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: 30})
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	tb.logger.Info("bot started receiving updates")

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				tb.logger.Info("updates channel closed, bot stopped")
				return nil
			}
			go handler(ctx, update)

		case <-ctx.Done():
			tb.logger.Info("bot stopped by context cancellation")
			return ctx.Err()
		}
	}
}

func (tb *TelegramBot) sendFile(
	ctx context.Context,
	chatID int64,
	name string,
	data []byte,
	sender func(context.Context, telego.ChatID, telego.InputFile) (*telego.Message, error),
) error {
	if len(data) == 0 {
		return fmt.Errorf("refusing to send empty file %s", name)
	}
	file := tu.File(tu.NameReader(bytes.NewReader(data), name))
	if _, err := sender(ctx, tu.ID(chatID), file); err != nil {
		return fmt.Errorf("failed to send file to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendPhoto(ctx context.Context, chatID int64, name string, data []byte, caption string) error {
	return tb.sendFile(ctx, chatID, name, data,
		func(c context.Context, id telego.ChatID, f telego.InputFile) (*telego.Message, error) {
			return tb.client.SendPhoto(c, tu.Photo(id, f).WithCaption(caption))
		},
	)
}

func (tb *TelegramBot) SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error {
	return tb.sendFile(ctx, chatID, name, data,
		func(c context.Context, id telego.ChatID, f telego.InputFile) (*telego.Message, error) {
			return tb.client.SendDocument(c, tu.Document(id, f).WithCaption(caption))
		},
	)
}

func (tb *TelegramBot) SendImageAuto(ctx context.Context, chatID int64, name string, data []byte, caption string) error {
	if int64(len(data)) <= tb.maxFileSize {
		return tb.SendPhoto(ctx, chatID, name, data, caption)
	}
	return tb.SendDocument(ctx, chatID, name, data, caption)
}

func (tb *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := tb.client.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendMenu(ctx context.Context, chatID int64, text string, rows [][]string) error {
	keyboard := make([][]telego.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]telego.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tu.KeyboardButton(label))
		}
		keyboard = append(keyboard, tu.KeyboardRow(buttons...))
	}

	msg := tu.Message(tu.ID(chatID), text).
		WithReplyMarkup(tu.Keyboard(keyboard...).WithResizeKeyboard())
	if _, err := tb.client.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to send menu to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendChatAction(ctx context.Context, chatID int64, action string) error {
	err := tb.client.SendChatAction(ctx, tu.ChatAction(tu.ID(chatID), action))
	if err != nil {
		return fmt.Errorf("failed to send chat action: %w", err)
	}
	return nil
}

func (tb *TelegramBot) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := tb.client.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for ID %s: %w", fileID, err)
	}

	return &File{
		FileID:   f.FileID,
		FilePath: f.FilePath,
		FileSize: int64(f.FileSize),
	}, nil
}

func (tb *TelegramBot) FileDownloadURL(filePath string) string {
	return tb.client.FileDownloadURL(filePath)
}
