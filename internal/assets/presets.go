package assets

import "captionator/internal/style"

const (
	CategoryAll      = "全部"
	CategoryTexture  = "纹理"
	CategoryAbstract = "抽象艺术"
	CategoryCultural = "文化主题"
	CategoryNature   = "自然"
	CategoryModern   = "现代设计"
	CategoryOther    = "其他"
)

var categories = []string{
	CategoryAll, CategoryTexture, CategoryAbstract, CategoryCultural,
	CategoryNature, CategoryModern, CategoryOther,
}

var builtinFonts = []FontRecord{
	{Name: "系统默认", Value: style.DefaultFont},
	{Name: "汉仪新蒂宝塔体", Value: "HanyiSentyPagoda", File: "HanyiSentyPagoda Regular.ttf"},
	{Name: "Dymon手写体", Value: "DymonShouXieTi", File: "Dymon-ShouXieTi.otf"},
	{Name: "DF力王黑体", Value: "DFLiKingHei1B", File: "DFLiKingHei1B Regular.ttf"},
	{Name: "包图小白体", Value: "BaotuXiaobaiti", File: "baotuxiaobaiti Regular.ttf"},
	{Name: "新蒂剪纸体", Value: "SentyPaperCut", File: "SentyPaperCut Regular.ttf"},
	{Name: "Oz焦糖体", Value: "OzCaramel", File: "OzCaramel Regular.ttf"},
	{Name: "汉仪新蒂春意体", Value: "HanyiSentySpringBrush", File: "HanyiSentySpringBrush Regular.ttf"},
	{Name: "源柔大正宋体", Value: "YRDZST", File: "YRDZST Semibold.ttf"},
	{Name: "Slidefu字体", Value: "Slidefu", File: "Slidefu-Regular-2.ttf"},
	{Name: "字魂乌龙茶", Value: "ZiHunWuLongCha", File: "字魂乌龙茶(商用需授权).ttf"},
	{Name: "字魂白鸽天行体", Value: "ZiHunBaiGeTianXing", File: "字魂白鸽天行体(商用需授权).ttf"},
	{Name: "汉仪白清体", Value: "HanYiBaiQingTi", File: "HanYiBaiQingTiJian-1.ttf"},
	{Name: "汉仪彩蝶体", Value: "HanYiCaiDieTi", File: "HanYiCaiDieTiJian-1.ttf"},
	{Name: "美人的字", Value: "MeiRenDeZi", File: "MeiRenDeZi-2.ttf"},
	{Name: "阿猪泡泡体", Value: "AZhuPaoPaoTi", File: "AZhuPaoPaoTi-2.ttf"},
	{Name: "思源黑体", Value: "SourceHanSansCN", File: "Source Han Sans CN Light.otf"},
}

var backgroundPresets = []style.Background{
	style.Solid(style.DefaultBGName, "#FFFFFF"),
	style.Solid("黑色", "#000000"),
	style.Solid("红色", "#FF0000"),
	style.Solid("蓝色", "#0000FF"),
	style.Gradient("日落", "#FF6B6B", "#4ECDC4"),
	style.Gradient("粉色梦境", "#A8EDEA", "#FED6E3"),
	style.Gradient("火焰", "#FFE53B", "#FF2525"),
	style.Gradient("海洋", "#21D4FD", "#B721FF"),
	style.Gradient("紫色天空", "#FC466B", "#3F5EFB"),
	style.Transparent("透明"),
}

var pictureBackgrounds = []PictureBackground{
	{ID: 1, Name: "白色纹理", File: "white-texture.jpg", Category: CategoryTexture},
	{ID: 2, Name: "白色做旧墙纹理", File: "white-grungy-wall-textured-background.avif", Category: CategoryTexture},
	{ID: 3, Name: "灰尘做旧纹理", File: "dusty-grunge-style-texture-background.avif", Category: CategoryTexture},
	{ID: 4, Name: "做旧复古纹理", File: "grunge-texture-vintage-background.avif", Category: CategoryTexture},
	{ID: 5, Name: "胶片纹理细节", File: "close-up-film-texture-details_background.avif", Category: CategoryTexture},
	{ID: 6, Name: "老式复古背景", File: "old-vintage-background.avif", Category: CategoryTexture},
	{ID: 7, Name: "黑色混凝土纹理", File: "grunge-black-concrete-textured-background.avif", Category: CategoryTexture},
	{ID: 8, Name: "纹理背景", File: "texture-background.avif", Category: CategoryTexture},
	{ID: 9, Name: "混凝土墙纹理", File: "concrete-wall-texture.avif", Category: CategoryTexture},
	{ID: 10, Name: "地面纹理图案", File: "photo-ground-texture-pattern.avif", Category: CategoryTexture},
	{ID: 11, Name: "复古黑色做旧纹理", File: "vintage-black-grunge-textures-background-vector-illustration.avif", Category: CategoryTexture},
	{ID: 12, Name: "织物纹理背景", File: "fabric-texture-background.avif", Category: CategoryTexture},
	{ID: 13, Name: "设计空间染色纸纹理", File: "design-space-stained-paper-textured-background.avif", Category: CategoryTexture},
	{ID: 14, Name: "棕色纹理", File: "brown-texture.avif", Category: CategoryTexture},
	{ID: 15, Name: "简单米色纹理背景", File: "simple-beige-texture-background.avif", Category: CategoryTexture},
	{ID: 16, Name: "全帧织物拍摄", File: "full-frame-shot-fabric.jpg", Category: CategoryTexture},

	{ID: 17, Name: "抽象水彩画", File: "abstract-watercolor-painting.jpg", Category: CategoryAbstract},
	{ID: 18, Name: "动态模糊水彩", File: "motion-blur-coloured-handmade-technique-aquarelle.jpg", Category: CategoryAbstract},
	{ID: 19, Name: "闪亮抽象背景", File: "glitter-abstract-background.jpg", Category: CategoryAbstract},
	{ID: 20, Name: "现代抽象银白圆圈", File: "modern-abstract-silver-white-gray-circles-background-elegant-monochrome.jpg", Category: CategoryAbstract},
	{ID: 21, Name: "彩色抽象背景", File: "colorful-abstract-background.jpg", Category: CategoryAbstract},
	{ID: 22, Name: "彩色渐变颗粒背景", File: "colorful-gradient-grainy-gradient-background.avif", Category: CategoryAbstract},
	{ID: 23, Name: "彩色颗粒渐变背景", File: "colorful-grainy-gradient-background.avif", Category: CategoryAbstract},
	{ID: 24, Name: "抽象彩色渐变纹理", File: "abstract-colorful-gradient-background-texture-grainy.avif", Category: CategoryAbstract},
	{ID: 25, Name: "背景绘画静物", File: "background-paint-still-life.jpg", Category: CategoryAbstract},
	{ID: 26, Name: "红色抽象山脉图案", File: "red-abstract-mountains-pattern.avif", Category: CategoryAbstract},
	{ID: 27, Name: "抽象背景设计硬光红沙", File: "abstract-background-design-hd-hardlight-red-sand-color.jpg", Category: CategoryAbstract},

	{ID: 28, Name: "日式红金波浪图案", File: "japanese-themed-red-gold-wave-pattern.avif", Category: CategoryCultural},
	{ID: 29, Name: "复古锦鲤装饰背景", File: "vintage-koi-fish-decorated-background.avif", Category: CategoryCultural},
	{ID: 30, Name: "平面设计韩式图案", File: "flat-design-korean-pattern-design.avif", Category: CategoryCultural},
	{ID: 31, Name: "平面设计韩式图案", File: "flat-design-korean-pattern.avif", Category: CategoryCultural},
	{ID: 32, Name: "中国风棕色图案背景", File: "background-with-brown-chinese-patterns.avif", Category: CategoryCultural},

	{ID: 33, Name: "蓝天白云背景", File: "blue-background-with-white-cloud-blue-background.jpg", Category: CategoryNature},
	{ID: 34, Name: "彩色洒粉地面", File: "overhead-view-holi-color-ground.jpg", Category: CategoryNature},
	{ID: 35, Name: "雪花背景节日冬季", File: "snowflake-background-festive-winter-holiday-design-beige.avif", Category: CategoryNature},

	{ID: 36, Name: "装饰玫瑰金艺术图案", File: "decorative-rose-gold-art-pattern.avif", Category: CategoryModern},
	{ID: 37, Name: "线性平面抽象线条", File: "linear-flat-abstract-lines-pattern.avif", Category: CategoryModern},
	{ID: 38, Name: "渐变装饰艺术图案", File: "gradient-art-deco-pattern.avif", Category: CategoryModern},

	{ID: 39, Name: "红砖墙像素艺术", File: "seamless-red-brick-wall-pixel-art-patttern.jpg", Category: CategoryOther},
	{ID: 40, Name: "像素砖墙图案", File: "pixel-brick-wall-seamless-pattern.jpg", Category: CategoryOther},
	{ID: 41, Name: "红色纹理背景", File: "red-background-with-texture.avif", Category: CategoryOther},
	{ID: 42, Name: "米色纹理背景", File: "beige-textured-background.avif", Category: CategoryOther},
	{ID: 43, Name: "红色背景", File: "red-background.jpg", Category: CategoryOther},
	{ID: 44, Name: "红色纸张背景", File: "red-paper-background.jpg", Category: CategoryOther},
	{ID: 45, Name: "老式纸张纹理红框", File: "old-paper-texture-with-red-line-frame-abstract-background.jpg", Category: CategoryOther},
}

// BuiltinFonts returns the bundled font families, System first.
func BuiltinFonts() []FontRecord { return append([]FontRecord(nil), builtinFonts...) }

// Categories returns the picture taxonomy, All first.
func Categories() []string { return append([]string(nil), categories...) }
