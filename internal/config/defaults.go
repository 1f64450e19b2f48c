package config

// DefaultCitePattern matches \cite{a,b,c} and captures the key list.
const DefaultCitePattern = `\\cite\{([^}]+)\}`

// DefaultURLPattern matches a value already wrapped in \url{...}.
const DefaultURLPattern = `^\s*\\url\{.*\}\s*$`

// DefaultTemplate renders one numbered citation line.
const DefaultTemplate = "[{index}] {author}. {title}. {venue}, {year}."

// DefaultFieldOrder is the canonical field order and keep-list.
var DefaultFieldOrder = []string{
	"author", "title", "booktitle", "journal", "howpublished", "year", "url",
}

// DefaultExtraFields are pruned even if listed in the field order.
var DefaultExtraFields = []string{
	"volume", "number", "month", "address", "annote", "crossref", "doi",
	"edition", "editor", "email", "organization", "pages", "publisher",
	"series", "type", "note", "issn", "isbn",
}

// DefaultVenueRules canonicalizes the major security venues.
var DefaultVenueRules = []VenueRule{
	{Pattern: `.*IEEE symposium on security and privacy.*`, Name: `S\&P`},
	{Pattern: `.*USENIX Security.*`, Name: "USENIX Security"},
	{Pattern: `.*Network and Distributed System Security.*`, Name: "NDSS"},
	{Pattern: `.*Conference on Computer and Communications Security.*`, Name: "CCS"},
}

// DefaultTitleCaps are product and project names whose casing is preserved.
var DefaultTitleCaps = []string{
	"Chrome", "Clang", "C/C++", "C++", "Linux", "LLVM", "Spectre", "ASLR",
	"KASLR", "Intel", "TSX", "SMAP", "SMEP", "OS",
}

// Default returns the configuration used for options absent from the file.
// Input and output have no default and must be configured.
func Default() *Config {
	return &Config{
		Encoding:            "utf-8",
		IgnoreDuplicateKeys: true,
		LogLevel:            "info",
		Venue: VenueConfig{
			Fields: []string{"booktitle"},
			Rules:  append([]VenueRule(nil), DefaultVenueRules...),
		},
		Title: TitleConfig{
			FixEscaping: true,
			CamelCaps:   true,
			ColonCaps:   true,
			Caps:        append([]string(nil), DefaultTitleCaps...),
		},
		Duplicates: DuplicatesConfig{
			Fingerprint: FingerprintRaw,
		},
		Authors: AuthorsConfig{
			Reorder: true,
			Fields:  []string{"author"},
		},
		MiscURL: MiscURLConfig{
			Enabled:        true,
			Candidates:     []string{"howpublished", "url"},
			Destination:    "howpublished",
			WrappedPattern: DefaultURLPattern,
		},
		Fields: FieldsConfig{
			Mode:  ModeDrop,
			Order: append([]string(nil), DefaultFieldOrder...),
			Extra: append([]string(nil), DefaultExtraFields...),
			Sort:  true,
		},
		Citations: CitationsConfig{
			Pattern: DefaultCitePattern,
		},
		TextOutput: TextOutputConfig{
			Template: DefaultTemplate,
		},
	}
}
