package report

// Color is an RGB triple.
type Color struct {
	R, G, B int
}

// Hex-equivalent colors used by the default styles.
var (
	BrandRed = Color{0xE6, 0x00, 0x12}
	Black    = Color{0, 0, 0}
	White    = Color{0xFF, 0xFF, 0xFF}
	Grey     = Color{0x80, 0x80, 0x80}
	OffWhite = Color{0xFA, 0xFA, 0xFA}
)

// TextStyle describes one paragraph style. Sizes are in points.
type TextStyle struct {
	Font        string
	Bold        bool
	Size        float64
	Leading     float64
	Color       Color
	SpaceBefore float64
	SpaceAfter  float64
}

// Styles is the complete look of a rendered report. It is a plain value:
// build it once with DefaultStyles, adjust a copy if needed and hand it to
// the renderer.
type Styles struct {
	PageSize     string
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	Title   TextStyle
	Heading TextStyle
	Body    TextStyle
	Header  TextStyle
	Footer  TextStyle

	// HeaderText is drawn on the banner of every page.
	HeaderText  string
	BannerColor Color
	// BannerOffset places the banner rule; see bannerRuleBottom.
	BannerOffset float64
	// FooterBaseline is the distance of the page number above the page bottom.
	FooterBaseline float64

	BulletIndent float64
	BulletGlyph  string

	TableColumnWidth float64
	TableHeaderFill  Color
	TableHeaderText  Color
	TableBodyFill    Color
	TableGridColor   Color
	TableGridWidth   float64
	TableBoxColor    Color
	TableBoxWidth    float64
	TablePadding     float64
}

const inch = 72.0

// DefaultStyles returns the house style: US Letter, red banner and headings,
// 11pt Helvetica body.
func DefaultStyles() Styles {
	return Styles{
		PageSize:     "Letter",
		MarginLeft:   72,
		MarginRight:  72,
		MarginTop:    72,
		MarginBottom: 36,

		Title: TextStyle{
			Font: "Helvetica", Bold: true, Size: 20, Leading: 24,
			Color: BrandRed, SpaceAfter: 20,
		},
		Heading: TextStyle{
			Font: "Helvetica", Bold: true, Size: 15, Leading: 18,
			Color: BrandRed, SpaceBefore: 16, SpaceAfter: 10,
		},
		Body: TextStyle{
			Font: "Helvetica", Size: 11, Leading: 15,
			Color: Black, SpaceAfter: 6,
		},
		Header: TextStyle{Font: "Helvetica", Bold: true, Size: 9, Color: Black},
		Footer: TextStyle{Font: "Helvetica", Size: 8, Color: Grey},

		HeaderText:     "MUFG GenAI Risk Mirror Analyzer",
		BannerColor:    BrandRed,
		BannerOffset:   15,
		FooterBaseline: 0.65 * inch,

		BulletIndent: 16,
		BulletGlyph:  "•",

		TableColumnWidth: 2.5 * inch,
		TableHeaderFill:  BrandRed,
		TableHeaderText:  White,
		TableBodyFill:    OffWhite,
		TableGridColor:   Grey,
		TableGridWidth:   0.25,
		TableBoxColor:    Black,
		TableBoxWidth:    1,
		TablePadding:     4,
	}
}
