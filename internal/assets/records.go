package assets

// FontRecord is a selectable font family. Built-ins reference a bundled File;
// custom fonts carry the local URI they were imported to.
type FontRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	URI   string `json:"uri"`
	File  string `json:"-"`
}

func (f FontRecord) Custom() bool { return f.URI != "" }

// FontOption is the {name, value} pair shown in the font picker.
type FontOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CustomBackgroundRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// PictureBackground is a bundled picture preset. URI is resolved against the
// registry's picture directory.
type PictureBackground struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Category string `json:"category"`
	URI      string `json:"uri"`
}

// Features selects the optional capabilities of the editor.
type Features struct {
	CustomFonts       bool
	CustomBackgrounds bool
	PictureLibrary    bool
}

func AllFeatures() Features {
	return Features{CustomFonts: true, CustomBackgrounds: true, PictureLibrary: true}
}
