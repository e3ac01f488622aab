package handlers

import (
	"fmt"
	"strings"

	"captionator/internal/assets"
	"captionator/internal/style"
)

func (h *Handler) fontList() string {
	var b strings.Builder
	b.WriteString("🔤 字体（/font 名称）：\n")
	for _, f := range h.registry.ListFonts() {
		fmt.Fprintf(&b, "• %s — /font %s\n", f.Name, f.Value)
	}
	if h.registry.Features().CustomFonts {
		custom := h.registry.ListCustomFonts()
		if len(custom) > 0 {
			b.WriteString("\n自定义字体（/delfont 删除）：\n")
			for _, f := range custom {
				fmt.Fprintf(&b, "• %s — /delfont %s\n", f.Name, f.Value)
			}
		}
		b.WriteString("\n📎 发送 .ttf 或 .otf 文件即可添加字体。")
	}
	return b.String()
}

func colorList() string {
	var b strings.Builder
	b.WriteString("🎨 文字颜色：\n")
	for _, c := range style.TextColors {
		fmt.Fprintf(&b, "/color %s\n", c)
	}
	b.WriteString("\n也可以发送任意 /color #RRGGBB。")
	return b.String()
}

func alignList() string {
	var b strings.Builder
	b.WriteString("↔️ 对齐方式：\n")
	for _, a := range style.Alignments {
		fmt.Fprintf(&b, "• %s — /align %s\n", a.Label(), a)
	}
	return b.String()
}

func ratioList() string {
	var b strings.Builder
	b.WriteString("📐 画布比例：\n")
	for _, r := range style.Ratios {
		fmt.Fprintf(&b, "/ratio %s\n", r)
	}
	return b.String()
}

func (h *Handler) presetList() string {
	var b strings.Builder
	b.WriteString("🖼 背景（/bg 编号）：\n")
	for i, bg := range h.registry.BackgroundPresets() {
		fmt.Fprintf(&b, "%d. %s — /bg %d\n", i+1, bg.Name, i+1)
	}
	return b.String()
}

func (h *Handler) pictureList(category string) string {
	var b strings.Builder
	if category == "" {
		b.WriteString("🏞 图库分类：\n")
		for _, c := range assets.Categories() {
			fmt.Fprintf(&b, "/pictures %s\n", c)
		}
		return b.String()
	}

	pictures := h.registry.ListBackgrounds(category)
	if len(pictures) == 0 {
		return fmt.Sprintf("分类 %q 中没有图片。", category)
	}
	fmt.Fprintf(&b, "🏞 %s（/pic 编号）：\n", category)
	for _, p := range pictures {
		fmt.Fprintf(&b, "%d. %s — /pic %d\n", p.ID, p.Name, p.ID)
	}
	return b.String()
}

func (h *Handler) customList() string {
	if !h.registry.Features().CustomBackgrounds {
		return "自定义背景未启用。"
	}
	var b strings.Builder
	custom := h.registry.ListCustomBackgrounds()
	if len(custom) == 0 {
		b.WriteString("还没有自定义背景。\n")
	} else {
		b.WriteString("📁 自定义背景：\n")
		for _, c := range custom {
			fmt.Fprintf(&b, "• %s — /mybg %s  /delbg %s\n", c.Name, c.ID, c.ID)
		}
	}
	b.WriteString("\n📷 发送图片即可添加背景。")
	return b.String()
}
