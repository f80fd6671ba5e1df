package config

const (
	defaultCatalogFile    = "data/data.csv"
	defaultInputsDir      = "videos/inputs"
	defaultTmpDir         = "videos/tmp"
	defaultOutputDir      = "videos/output"
	defaultLogDir         = "videos/logs"
	defaultIDColumn       = "id"
	defaultTitleColumn    = "title"
	defaultAuthorsColumn  = "authors-names"
	defaultSessionColumn  = "session_code"
	defaultFormatColumn   = "format"
	defaultPresenceColumn = "presence"
	defaultFormatFilter   = "poster"
	defaultPresenceFilter = "remote"
	defaultWidth          = 1920
	defaultHeight         = 1080
	defaultFramerate      = 30
	defaultFontSize       = 60
	defaultFont           = "Roboto"
	defaultPadColor       = "white"
	defaultOutputExt      = ".mp4"
	defaultIntegrated     = -23
	defaultRange          = 7
	defaultTruePeak       = -2
	defaultWatchDebounce  = 5
	defaultHistoryLimit   = 20
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultExtensions() []string {
	return []string{".mp4", ".mkv", ".mov", ".flv", ".m4v", ".wmv"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogFile: defaultCatalogFile,
			InputsDir:   defaultInputsDir,
			TmpDir:      defaultTmpDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
		},
		Catalog: Catalog{
			IDColumn:       defaultIDColumn,
			TitleColumn:    defaultTitleColumn,
			AuthorsColumn:  defaultAuthorsColumn,
			SessionColumn:  defaultSessionColumn,
			FormatColumn:   defaultFormatColumn,
			PresenceColumn: defaultPresenceColumn,
			FormatFilter:   defaultFormatFilter,
			PresenceFilter: defaultPresenceFilter,
		},
		Encode: Encode{
			Width:      defaultWidth,
			Height:     defaultHeight,
			Framerate:  defaultFramerate,
			FontSize:   defaultFontSize,
			Font:       defaultFont,
			PadColor:   defaultPadColor,
			OutputExt:  defaultOutputExt,
			Extensions: defaultExtensions(),
		},
		Loudnorm: Loudnorm{
			Integrated: defaultIntegrated,
			Range:      defaultRange,
			TruePeak:   defaultTruePeak,
		},
		Workflow: Workflow{
			WatchDebounceSeconds: defaultWatchDebounce,
			HistoryLimit:         defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
