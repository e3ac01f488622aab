package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"captionator/internal/assets"
	"captionator/internal/bot"
	"captionator/internal/services"
	"captionator/internal/storage"
	"captionator/internal/studio"
)

const outputName = "caption.png"

// chatShareSink shares by sending the PNG back as an uncompressed document.
type chatShareSink struct {
	bot    bot.Bot
	chatID int64
}

func (s chatShareSink) Available(context.Context) bool { return s.bot != nil }

func (s chatShareSink) Share(ctx context.Context, r *services.Raster, opts services.ShareOptions) error {
	return s.bot.SendDocument(ctx, s.chatID, outputName, r.PNG, opts.DialogTitle)
}

// chatPicker hands over a picture the user already uploaded.
type chatPicker struct {
	picked services.PickedFile
}

func (p chatPicker) PickImage(context.Context, services.PickOptions) (services.PickedFile, error) {
	if p.picked.URI == "" {
		return services.PickedFile{}, services.ErrUserCancelled
	}
	return p.picked, nil
}

func (h *Handler) handleDocument(ctx context.Context, msg *telego.Message, sess *studio.Session) error {
	chatID := msg.Chat.ID
	doc := msg.Document

	if strings.HasPrefix(doc.MimeType, "image/") && h.stateStore.GetMode(chatID) != storage.ModeAwaitingFont {
		return h.importBackground(ctx, chatID, sess, doc.FileID, doc.FileName)
	}
	if !services.IsFontFile(doc.FileName) {
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("❌ 不支持的文件格式: %s。请选择 .ttf 或 .otf 字体文件。", services.FontExtension(doc.FileName)))
	}

	localPath, cleanup, err := h.fileManager.DownloadToTemp(ctx, doc.FileID)
	if err != nil {
		return h.fail(ctx, chatID, "font download failed", "🚧 无法读取字体文件", err)
	}
	defer cleanup()

	rec, err := h.importer.ImportFont(ctx, services.PickedFile{URI: localPath, Name: doc.FileName, Size: int64(doc.FileSize)})
	h.stateStore.SetMode(chatID, storage.ModeNone)
	if err != nil && !errors.Is(err, storage.ErrStorageWrite) {
		return h.fail(ctx, chatID, "font import failed", explain(err, "❌ 选择字体文件失败"), err)
	}

	text := fmt.Sprintf("✅ 字体 \"%s\" 已成功加载！\n使用 /font %s 选择。", rec.Name, rec.Value)
	if err != nil {
		text += "\n" + explain(err, "")
	}
	return h.bot.SendText(ctx, chatID, text)
}

func (h *Handler) handlePhoto(ctx context.Context, msg *telego.Message, sess *studio.Session) error {
	largest := msg.Photo[len(msg.Photo)-1]
	return h.importBackground(ctx, msg.Chat.ID, sess, largest.FileID, "photo.jpg")
}

func (h *Handler) importBackground(ctx context.Context, chatID int64, sess *studio.Session, fileID, name string) error {
	h.stateStore.SetMode(chatID, storage.ModeNone)

	localPath, cleanup, err := h.fileManager.DownloadToTemp(ctx, fileID)
	if err != nil {
		return h.fail(ctx, chatID, "picture download failed", "🚧 无法读取图片", err)
	}
	defer cleanup()

	picker := chatPicker{picked: services.PickedFile{URI: localPath, Name: name}}
	rec, err := h.importer.ImportBackgroundFromLibrary(ctx, picker)
	switch {
	case errors.Is(err, services.ErrUserCancelled):
		return nil
	case errors.Is(err, services.ErrPermissionDenied):
		return h.bot.SendText(ctx, chatID, "🔒 需要权限：请授权访问相册以选择背景图片")
	case err != nil && !errors.Is(err, storage.ErrStorageWrite):
		return h.fail(ctx, chatID, "background import failed", explain(err, "❌ 选择背景图片失败"), err)
	}

	sess.AdoptCustomBackground(rec)
	text := "✅ 自定义背景已添加！"
	if err != nil {
		text += "\n" + explain(err, "")
	}
	if sendErr := h.bot.SendText(ctx, chatID, text); sendErr != nil {
		return sendErr
	}
	return h.sendPreview(ctx, chatID, sess)
}

func (h *Handler) capture(ctx context.Context, chatID int64, sess *studio.Session) (*services.Raster, error) {
	raster, err := h.exporter.Capture(ctx, sess.Layout(h.viewport))
	if err != nil {
		return nil, h.fail(ctx, chatID, "capture failed", "🚧 生成图片失败", err)
	}
	return raster, nil
}

func (h *Handler) sendPreview(ctx context.Context, chatID int64, sess *studio.Session) error {
	_ = h.bot.SendChatAction(ctx, chatID, telego.ChatActionUploadPhoto)
	raster, err := h.capture(ctx, chatID, sess)
	if err != nil {
		return err
	}
	if err := h.bot.SendImageAuto(ctx, chatID, outputName, raster.PNG, summary(sess)); err != nil {
		return h.fail(ctx, chatID, "send preview failed", "🚧 发送预览失败", err)
	}
	return nil
}

func (h *Handler) share(ctx context.Context, chatID int64, sess *studio.Session) error {
	_ = h.bot.SendChatAction(ctx, chatID, telego.ChatActionUploadDocument)
	raster, err := h.capture(ctx, chatID, sess)
	if err != nil {
		return err
	}
	if err := h.exporter.Share(ctx, chatShareSink{bot: h.bot, chatID: chatID}, raster); err != nil {
		return h.fail(ctx, chatID, "share failed", "❌ 分享图片失败", err)
	}
	return nil
}

func (h *Handler) save(ctx context.Context, chatID int64, sess *studio.Session) error {
	raster, err := h.capture(ctx, chatID, sess)
	if err != nil {
		return err
	}
	if _, err := h.exporter.SaveToLibrary(ctx, raster); err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return h.bot.SendText(ctx, chatID, "🔒 需要权限：请授权访问相册以保存图片")
		}
		return h.fail(ctx, chatID, "save failed", "❌ 保存图片失败", err)
	}
	return h.bot.SendText(ctx, chatID, "✅ 图片已保存到相册！")
}

func summary(sess *studio.Session) string {
	st := sess.State()
	return fmt.Sprintf("%s · %dpx · %s · %s · %s · %s",
		sess.FontName(), st.FontSize, st.TextColor, st.TextAlign.Label(), st.CanvasRatio, st.Background.Name)
}

// explain turns an import error into the message shown to the user.
func explain(err error, fallback string) string {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat):
		return "❌ 不支持的文件格式。"
	case errors.Is(err, services.ErrFontLoad):
		return "❌ 字体加载失败，请检查文件格式"
	case errors.Is(err, assets.ErrFeatureDisabled):
		return "此功能未启用。"
	case errors.Is(err, storage.ErrStorageWrite):
		return "⚠️ 已添加，但保存失败，重启后将丢失。"
	}
	return fallback
}
