// Package mobile is the gomobile-bound surface of the studio. Methods take and
// return primitives, []byte and JSON strings only.
package mobile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"captionator/internal/app"
	"captionator/internal/assets"
	"captionator/internal/bot"
	"captionator/internal/config"
	"captionator/internal/files"
	"captionator/internal/handlers"
	clog "captionator/internal/log"
	"captionator/internal/permissions"
	"captionator/internal/services"
	"captionator/internal/storage"
	"captionator/internal/studio"
	"captionator/internal/style"
)

// PermissionHost answers permission prompts on the native side. Names are
// "media_library_write" and "photo_library_read".
type PermissionHost interface {
	RequestPermission(name string) bool
}

// ShareHost presents the platform share sheet.
type ShareHost interface {
	CanShare() bool
	Share(png []byte, mimeType, dialogTitle string) error
}

// Studio is one editing session backed by the on-device asset store.
type Studio struct {
	core   *app.Core
	sess   *studio.Session
	logger *slog.Logger
}

// NewStudio opens the studio rooted at dataDir. Bundled fonts and pictures are
// read from assetsDir; exported images go to dataDir/library. A nil host
// grants every permission.
func NewStudio(assetsDir, dataDir string, viewportWidth, viewportHeight int, host PermissionHost) (*Studio, error) {
	cfg := studioConfig(assetsDir, dataDir)
	cfg.Viewport = config.ViewportConfig{Width: viewportWidth, Height: viewportHeight}
	logger := clog.Init(clog.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})

	var gate permissions.Gate
	if host != nil {
		gate = permissions.Func(func(ctx context.Context, p permissions.Permission) (permissions.Status, error) {
			if err := ctx.Err(); err != nil {
				return permissions.Denied, err
			}
			if host.RequestPermission(string(p)) {
				return permissions.Granted, nil
			}
			return permissions.Denied, nil
		})
	}

	core, err := app.New(context.Background(), &cfg, gate, logger)
	if err != nil {
		return nil, err
	}
	return &Studio{
		core:   core,
		sess:   studio.NewSession(core.Registry),
		logger: clog.WithComponent(logger, "mobile"),
	}, nil
}

func studioConfig(assetsDir, dataDir string) config.Config {
	cfg := config.Defaults()
	cfg.AssetsDir = assetsDir
	cfg.DataDir = dataDir
	cfg.TempDir = filepath.Join(dataDir, "tmp")
	cfg.LibraryDir = filepath.Join(dataDir, "library")
	cfg.Store = config.StoreConfig{Driver: "sqlite", Path: dataDir}
	cfg.Logging.File = filepath.Join(dataDir, "logs", "captionator.log")
	return cfg
}

// Close releases the store. The Studio must not be used afterwards.
func (s *Studio) Close() error { return s.core.Close() }

type stateDTO struct {
	Text        string `json:"text"`
	FontSize    int    `json:"fontSize"`
	FontFamily  string `json:"fontFamily"`
	FontName    string `json:"fontName"`
	TextColor   string `json:"textColor"`
	TextAlign   string `json:"textAlign"`
	CanvasRatio string `json:"canvasRatio"`
	Background  bgDTO  `json:"background"`
	Editing     bool   `json:"editing"`
	Canvas      [2]int `json:"canvas"`
}

type bgDTO struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name"`
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
	URI    string   `json:"uri,omitempty"`
}

func toBG(bg style.Background) bgDTO {
	return bgDTO{Kind: string(bg.Kind), Name: bg.Name, Color: bg.Color, Colors: bg.Colors, URI: bg.URI}
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(b), nil
}

// StateJSON describes the current composition and canvas size.
func (s *Studio) StateJSON() (string, error) {
	st := s.sess.State()
	l := s.sess.Layout(s.core.Viewport)
	return marshal(stateDTO{
		Text:        st.Text,
		FontSize:    st.FontSize,
		FontFamily:  st.FontFamily,
		FontName:    s.sess.FontName(),
		TextColor:   st.TextColor,
		TextAlign:   string(st.TextAlign),
		CanvasRatio: string(st.CanvasRatio),
		Background:  toBG(st.Background),
		Editing:     s.sess.Editing(),
		Canvas:      [2]int{l.Width, l.Height},
	})
}

func (s *Studio) SetText(text string) {
	_ = s.sess.Update(func(st *style.State) error { st.SetText(text); return nil })
}

func (s *Studio) BeginEdit()                 { s.sess.BeginEdit() }
func (s *Studio) CommitEdit(text string)     { s.sess.CommitEdit(text) }
func (s *Studio) CancelEdit()                { s.sess.CancelEdit() }
func (s *Studio) IsEditing() bool            { return s.sess.Editing() }
func (s *Studio) SelectFont(key string) bool { return s.sess.SelectFont(key) }

func (s *Studio) SetFontSize(n int) {
	_ = s.sess.Update(func(st *style.State) error { st.SetFontSize(n); return nil })
}

func (s *Studio) IncreaseFontSize() {
	_ = s.sess.Update(func(st *style.State) error { st.IncreaseFontSize(); return nil })
}

func (s *Studio) DecreaseFontSize() {
	_ = s.sess.Update(func(st *style.State) error { st.DecreaseFontSize(); return nil })
}

func (s *Studio) SetTextColor(hex string) error {
	return s.sess.Update(func(st *style.State) error { return st.SetTextColor(hex) })
}

func (s *Studio) SetTextAlign(align string) error {
	a, err := style.ParseAlign(align)
	if err != nil {
		return err
	}
	return s.sess.Update(func(st *style.State) error { return st.SetTextAlign(a) })
}

func (s *Studio) SetCanvasRatio(ratio string) error {
	r, err := style.ParseRatio(ratio)
	if err != nil {
		return err
	}
	return s.sess.Update(func(st *style.State) error { return st.SetCanvasRatio(r) })
}

// SelectBackgroundPreset picks one of BackgroundPresetsJSON by zero-based index.
func (s *Studio) SelectBackgroundPreset(index int) error { return s.sess.SelectBackgroundPreset(index) }
func (s *Studio) SelectPicture(id int) error             { return s.sess.SelectPicture(id) }
func (s *Studio) SelectCustomBackground(id string) error { return s.sess.SelectCustomBackground(id) }

// TextColorsJSON lists the preset text colours.
func (s *Studio) TextColorsJSON() (string, error) { return marshal(style.TextColors) }

// FontsJSON lists built-in then custom fonts as [{"name","value","custom"}].
func (s *Studio) FontsJSON() (string, error) {
	type fontDTO struct {
		Name   string `json:"name"`
		Value  string `json:"value"`
		Custom bool   `json:"custom"`
	}
	custom := make(map[string]bool)
	for _, f := range s.core.Registry.ListCustomFonts() {
		custom[f.Value] = true
	}
	var out []fontDTO
	for _, f := range s.core.Registry.ListFonts() {
		out = append(out, fontDTO{Name: f.Name, Value: f.Value, Custom: custom[f.Value]})
	}
	return marshal(out)
}

func (s *Studio) BackgroundPresetsJSON() (string, error) {
	presets := s.core.Registry.BackgroundPresets()
	out := make([]bgDTO, 0, len(presets))
	for _, p := range presets {
		out = append(out, toBG(p))
	}
	return marshal(out)
}

// CategoriesJSON lists the picture library categories, 全部 first.
func (s *Studio) CategoriesJSON() (string, error) { return marshal(assets.Categories()) }

// BackgroundsJSON lists picture presets; "" or 全部 returns every picture.
func (s *Studio) BackgroundsJSON(category string) (string, error) {
	list := s.core.Registry.ListBackgrounds(category)
	if list == nil {
		list = []assets.PictureBackground{}
	}
	return marshal(list)
}

func (s *Studio) CustomBackgroundsJSON() (string, error) {
	list := s.core.Registry.ListCustomBackgrounds()
	if list == nil {
		list = []assets.CustomBackgroundRecord{}
	}
	return marshal(list)
}

type importDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Warning string `json:"warning,omitempty"`
}

// importResult keeps a record whose only problem was persistence and reports
// that as a warning.
func (s *Studio) importResult(id, name string, err error) (string, error) {
	if err != nil && !errors.Is(err, storage.ErrStorageWrite) {
		return "", err
	}
	res := importDTO{ID: id, Name: name}
	if err != nil {
		s.logger.Warn("import kept in memory only", "id", id, "err", err)
		res.Warning = err.Error()
	}
	return marshal(res)
}

// ImportFont copies and registers the font at path. name is the file name
// shown to the user; the result is {"id","name","warning"}.
func (s *Studio) ImportFont(path, name string) (string, error) {
	if name == "" {
		name = filepath.Base(path)
	}
	rec, err := s.core.Importer.ImportFont(context.Background(), services.PickedFile{URI: path, Name: name})
	return s.importResult(rec.Value, rec.Name, err)
}

type pathPicker string

func (p pathPicker) PickImage(context.Context, services.PickOptions) (services.PickedFile, error) {
	if p == "" {
		return services.PickedFile{}, services.ErrUserCancelled
	}
	return services.PickedFile{URI: string(p), Name: filepath.Base(string(p))}, nil
}

// ImportBackground stores the picture the native picker returned and selects
// it. An empty path means the user cancelled and yields "" with no error.
func (s *Studio) ImportBackground(path string) (string, error) {
	rec, err := s.core.Importer.ImportBackgroundFromLibrary(context.Background(), pathPicker(path))
	if errors.Is(err, services.ErrUserCancelled) {
		return "", nil
	}
	if err == nil || errors.Is(err, storage.ErrStorageWrite) {
		s.sess.AdoptCustomBackground(rec)
	}
	return s.importResult(rec.ID, rec.Name, err)
}

func promptJSON(p studio.Prompt, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return marshal(map[string]string{"title": p.Title, "message": p.Message})
}

// RequestFontDeletion returns the confirmation prompt as {"title","message"}.
func (s *Studio) RequestFontDeletion(key string) (string, error) {
	return promptJSON(s.sess.RequestFontDeletion(key))
}

func (s *Studio) RequestBackgroundDeletion(id string) (string, error) {
	return promptJSON(s.sess.RequestBackgroundDeletion(id))
}

func (s *Studio) ConfirmDeletion() error { return s.sess.Confirm(context.Background()) }
func (s *Studio) CancelDeletion()        { s.sess.Cancel() }

// RenderPNG captures the canvas as currently displayed.
func (s *Studio) RenderPNG() ([]byte, error) {
	r, err := s.core.Exporter.Capture(context.Background(), s.sess.Layout(s.core.Viewport))
	if err != nil {
		return nil, err
	}
	return r.PNG, nil
}

type hostSink struct{ host ShareHost }

func (h hostSink) Available(context.Context) bool { return h.host != nil && h.host.CanShare() }

func (h hostSink) Share(_ context.Context, r *services.Raster, opts services.ShareOptions) error {
	return h.host.Share(r.PNG, opts.MimeType, opts.DialogTitle)
}

// Share captures the canvas and hands it to the share sheet.
func (s *Studio) Share(host ShareHost) error {
	ctx := context.Background()
	r, err := s.core.Exporter.Capture(ctx, s.sess.Layout(s.core.Viewport))
	if err != nil {
		return err
	}
	return s.core.Exporter.Share(ctx, hostSink{host: host}, r)
}

// SaveToLibrary captures the canvas and writes it to the photo library,
// returning the saved path.
func (s *Studio) SaveToLibrary() (string, error) {
	ctx := context.Background()
	r, err := s.core.Exporter.Capture(ctx, s.sess.Layout(s.core.Viewport))
	if err != nil {
		return "", err
	}
	return s.core.Exporter.SaveToLibrary(ctx, r)
}

// BotControl runs the chat front end on the device.
type BotControl struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	core   *app.Core
}

func NewBotControl() *BotControl {
	return &BotControl{}
}

func (bc *BotControl) StartBot(token string, assetsDir string, dataDir string) string {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.cancel != nil {
		return "Bot already started"
	}

	cfg := studioConfig(assetsDir, dataDir)
	logger := clog.Init(clog.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})

	ctx, cancel := context.WithCancel(context.Background())
	core, err := app.New(ctx, &cfg, nil, logger)
	if err != nil {
		cancel()
		return fmt.Sprintf("Error starting studio: %v", err)
	}

	botService, err := bot.NewTelegramBot(token, logger, cfg.MaxFileSize)
	if err != nil {
		cancel()
		_ = core.Close()
		return fmt.Sprintf("Error creating bot: %v", err)
	}

	fileManager, err := files.NewTelegramFileManager(botService, cfg.TempDir, cfg.MaxFileSize, logger)
	if err != nil {
		cancel()
		_ = core.Close()
		return fmt.Sprintf("Error creating file manager: %v", err)
	}

	chatHandler := handlers.NewHandler(
		core.Registry,
		core.Importer,
		core.Exporter,
		botService,
		fileManager,
		storage.NewRenderStateStore(),
		core.Viewport,
		logger,
	)

	bc.cancel = cancel
	bc.core = core

	go func() {
		logger.Info("bot goroutine started")
		if err := botService.Start(ctx, chatHandler.HandleUpdate); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("bot stopped", "err", err)
			bc.StopBot()
		}
	}()

	return "Bot started successfully"
}

func (bc *BotControl) StopBot() {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.cancel == nil {
		return
	}
	bc.cancel()
	bc.cancel = nil
	if err := bc.core.Close(); err != nil {
		clog.L().Warn("close store", "err", err)
	}
	bc.core = nil
	clog.L().Info("bot stopped by user")
}
