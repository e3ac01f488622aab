package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/mymmrac/telego"

	"captionator/internal/assets"
	"captionator/internal/bot"
	"captionator/internal/files"
	cimage "captionator/internal/image"
	"captionator/internal/services"
	"captionator/internal/storage"
	"captionator/internal/studio"
	"captionator/internal/style"
)

const (
	btnEditText    = "✏️ 编辑文字"
	btnPreview     = "👁 预览"
	btnBigger      = "A+"
	btnSmaller     = "A-"
	btnFonts       = "🔤 字体"
	btnColors      = "🎨 颜色"
	btnAlign       = "↔️ 对齐"
	btnRatio       = "📐 比例"
	btnBackgrounds = "🖼 背景"
	btnPictures    = "🏞 图库"
	btnMine        = "📁 我的"
	btnShare       = "📤 分享"
	btnSave        = "💾 保存"

	btnConfirmDelete = "删除"
	btnCancelDelete  = "取消"

	msgSlowDown = "😵‍💫 慢一点，上一个操作还在处理中。"
)

var mainMenu = [][]string{
	{btnEditText, btnPreview},
	{btnSmaller, btnBigger, btnFonts},
	{btnColors, btnAlign, btnRatio},
	{btnBackgrounds, btnPictures, btnMine},
	{btnShare, btnSave},
}

var confirmMenu = [][]string{{btnConfirmDelete, btnCancelDelete}}

type Handler struct {
	registry    *assets.Registry
	importer    *services.ImportService
	exporter    *services.ExportService
	bot         bot.Bot
	fileManager files.FileManager
	stateStore  *storage.RenderStateStore
	viewport    cimage.Viewport
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*studio.Session
}

func NewHandler(
	registry *assets.Registry,
	importer *services.ImportService,
	exporter *services.ExportService,
	bot bot.Bot,
	fileManager files.FileManager,
	stateStore *storage.RenderStateStore,
	viewport cimage.Viewport,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry:    registry,
		importer:    importer,
		exporter:    exporter,
		bot:         bot,
		fileManager: fileManager,
		stateStore:  stateStore,
		viewport:    viewport,
		logger:      logger.With(slog.String("component", "handler")),
		sessions:    make(map[int64]*studio.Session),
	}
}

func (h *Handler) session(chatID int64) *studio.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[chatID]
	if !ok {
		s = studio.NewSession(h.registry)
		h.sessions[chatID] = s
	}
	return s
}

func (h *Handler) resetSession(chatID int64) *studio.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := studio.NewSession(h.registry)
	h.sessions[chatID] = s
	return s
}

// HandleUpdate serves one update. Updates of the same chat are handled one at
// a time; anything arriving meanwhile is turned away.
func (h *Handler) HandleUpdate(ctx context.Context, update telego.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	_ = h.withProcessing(ctx, chatID, func() error {
		return h.route(ctx, msg)
	})
}

func (h *Handler) route(ctx context.Context, msg *telego.Message) error {
	chatID := msg.Chat.ID
	sess := h.session(chatID)

	switch {
	case msg.Document != nil:
		return h.handleDocument(ctx, msg, sess)
	case len(msg.Photo) > 0:
		return h.handlePhoto(ctx, msg, sess)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return h.showMenu(ctx, chatID, "请选择操作。")
	}

	if sess.PendingDeletion() {
		switch text {
		case btnConfirmDelete:
			return h.confirmDeletion(ctx, chatID, sess)
		case btnCancelDelete:
			sess.Cancel()
			return h.showMenu(ctx, chatID, "已取消。")
		}
		sess.Cancel()
	}

	mode := h.stateStore.GetMode(chatID)
	if mode == storage.ModeAwaitingText && !isCommand(text) {
		sess.CommitEdit(msg.Text)
		h.stateStore.SetMode(chatID, storage.ModeNone)
		return h.sendPreview(ctx, chatID, sess)
	}
	if mode != storage.ModeNone && isCommand(text) {
		sess.CancelEdit()
		h.stateStore.SetMode(chatID, storage.ModeNone)
	}

	cmd, arg := splitCommand(text)
	switch cmd {
	case "/start":
		h.stateStore.Reset(chatID)
		h.resetSession(chatID)
		return h.showMenu(ctx, chatID, "👋 欢迎！编辑文字、挑选字体和背景，然后分享或保存你的文字卡片。")
	case "/menu", "/cancel":
		return h.showMenu(ctx, chatID, "请选择操作。")

	case btnEditText, "/text":
		sess.BeginEdit()
		h.stateStore.SetMode(chatID, storage.ModeAwaitingText)
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("✏️ 当前文字：\n%s\n\n请发送新的文字（%s）。", sess.State().Text, cimage.Placeholder))

	case btnBigger, "/bigger":
		_ = sess.Update(func(s *style.State) error { s.IncreaseFontSize(); return nil })
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("字号：%d", sess.State().FontSize))
	case btnSmaller, "/smaller":
		_ = sess.Update(func(s *style.State) error { s.DecreaseFontSize(); return nil })
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("字号：%d", sess.State().FontSize))
	case "/size":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return h.bot.SendText(ctx, chatID, fmt.Sprintf("用法：/size %d-%d", style.MinFontSize, style.MaxFontSize))
		}
		_ = sess.Update(func(s *style.State) error { s.SetFontSize(n); return nil })
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("字号：%d", sess.State().FontSize))

	case btnFonts, "/fonts":
		return h.bot.SendText(ctx, chatID, h.fontList())
	case "/font":
		if !sess.SelectFont(arg) {
			return h.bot.SendText(ctx, chatID, fmt.Sprintf("⚠️ 未找到字体 %q，已使用系统默认。", arg))
		}
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("✅ 字体：%s", sess.FontName()))
	case "/addfont":
		h.stateStore.SetMode(chatID, storage.ModeAwaitingFont)
		return h.bot.SendText(ctx, chatID, "📎 请以文件形式发送 .ttf 或 .otf 字体。")
	case "/delfont":
		prompt, err := sess.RequestFontDeletion(arg)
		if err != nil {
			return h.bot.SendText(ctx, chatID, "❌ 只能删除自定义字体。")
		}
		return h.bot.SendMenu(ctx, chatID, prompt.Title+"\n"+prompt.Message, confirmMenu)

	case btnColors, "/colors":
		return h.bot.SendText(ctx, chatID, colorList())
	case "/color":
		if err := sess.Update(func(s *style.State) error { return s.SetTextColor(arg) }); err != nil {
			return h.bot.SendText(ctx, chatID, "❌ 颜色格式应为 #RGB、#RRGGBB 或 #RRGGBBAA。")
		}
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("✅ 文字颜色：%s", sess.State().TextColor))

	case btnAlign, "/aligns":
		return h.bot.SendText(ctx, chatID, alignList())
	case "/align":
		a, err := style.ParseAlign(arg)
		if err == nil {
			err = sess.Update(func(s *style.State) error { return s.SetTextAlign(a) })
		}
		if err != nil {
			return h.bot.SendText(ctx, chatID, alignList())
		}
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("✅ 对齐：%s", a.Label()))

	case btnRatio, "/ratios":
		return h.bot.SendText(ctx, chatID, ratioList())
	case "/ratio":
		r, err := style.ParseRatio(arg)
		if err == nil {
			err = sess.Update(func(s *style.State) error { return s.SetCanvasRatio(r) })
		}
		if err != nil {
			return h.bot.SendText(ctx, chatID, ratioList())
		}
		return h.bot.SendText(ctx, chatID, fmt.Sprintf("✅ 画布比例：%s", r))

	case btnBackgrounds, "/bgs":
		return h.bot.SendText(ctx, chatID, h.presetList())
	case "/bg":
		n, err := strconv.Atoi(arg)
		if err != nil || sess.SelectBackgroundPreset(n-1) != nil {
			return h.bot.SendText(ctx, chatID, h.presetList())
		}
		return h.sendPreview(ctx, chatID, sess)

	case btnPictures, "/pictures":
		if !h.registry.Features().PictureLibrary {
			return h.bot.SendText(ctx, chatID, "图库未启用。")
		}
		return h.bot.SendText(ctx, chatID, h.pictureList(arg))
	case "/pic":
		id, err := strconv.Atoi(arg)
		if err != nil || sess.SelectPicture(id) != nil {
			return h.bot.SendText(ctx, chatID, "❌ 未找到该图片，使用 /pictures 查看图库。")
		}
		return h.sendPreview(ctx, chatID, sess)

	case btnMine, "/mybg":
		if arg == "" {
			return h.bot.SendText(ctx, chatID, h.customList())
		}
		if err := sess.SelectCustomBackground(arg); err != nil {
			return h.bot.SendText(ctx, chatID, "❌ 未找到该背景。")
		}
		return h.sendPreview(ctx, chatID, sess)
	case "/addbg":
		h.stateStore.SetMode(chatID, storage.ModeAwaitingBackground)
		return h.bot.SendText(ctx, chatID, "📷 请发送一张图片作为背景。")
	case "/delbg":
		prompt, err := sess.RequestBackgroundDeletion(arg)
		if err != nil {
			return h.bot.SendText(ctx, chatID, "❌ 未找到该背景。")
		}
		return h.bot.SendMenu(ctx, chatID, prompt.Title+"\n"+prompt.Message, confirmMenu)

	case btnPreview, "/preview":
		return h.sendPreview(ctx, chatID, sess)
	case btnShare, "/share":
		return h.share(ctx, chatID, sess)
	case btnSave, "/save":
		return h.save(ctx, chatID, sess)
	}

	switch mode {
	case storage.ModeAwaitingFont:
		return h.bot.SendText(ctx, chatID, "❌ 请发送 .ttf 或 .otf 字体文件。")
	case storage.ModeAwaitingBackground:
		return h.bot.SendText(ctx, chatID, "❌ 请发送一张图片。")
	}
	return h.showMenu(ctx, chatID, "🤔 没有这个命令，请使用菜单。")
}

func (h *Handler) confirmDeletion(ctx context.Context, chatID int64, sess *studio.Session) error {
	err := sess.Confirm(ctx)
	switch {
	case err == nil:
		return h.showMenu(ctx, chatID, "🗑 已删除。")
	case errors.Is(err, storage.ErrStorageWrite):
		h.logger.Warn("deletion not persisted", "chat_id", chatID, "err", err)
		return h.showMenu(ctx, chatID, "🗑 已删除，但保存失败，重启后可能会恢复。")
	default:
		_ = h.showMenu(ctx, chatID, "请选择操作。")
		return h.fail(ctx, chatID, "deletion failed", "❌ 删除失败。", err)
	}
}

func (h *Handler) showMenu(ctx context.Context, chatID int64, text string) error {
	return h.bot.SendMenu(ctx, chatID, text, mainMenu)
}

func (h *Handler) withProcessing(ctx context.Context, chatID int64, fn func() error) error {
	if !h.stateStore.TryStart(chatID) {
		_ = h.bot.SendText(ctx, chatID, msgSlowDown)
		return fmt.Errorf("already processing")
	}
	defer h.stateStore.Finish(chatID)
	return fn()
}

func (h *Handler) fail(ctx context.Context, chatID int64, logMsg, userMsg string, err error) error {
	h.logger.Error(logMsg, "chat_id", chatID, "err", err)
	_ = h.bot.SendText(ctx, chatID, userMsg)
	return err
}

func isCommand(text string) bool {
	if strings.HasPrefix(text, "/") {
		return true
	}
	for _, row := range mainMenu {
		for _, label := range row {
			if text == label {
				return true
			}
		}
	}
	return false
}

func splitCommand(text string) (string, string) {
	cmd, arg, _ := strings.Cut(text, " ")
	// commands addressed as /cmd@botname
	if at := strings.IndexByte(cmd, '@'); at > 0 && strings.HasPrefix(cmd, "/") {
		cmd = cmd[:at]
	}
	return cmd, strings.TrimSpace(arg)
}
